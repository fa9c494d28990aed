package cron

import (
	"log"
	"time"

	"sovabet/client"
	"sovabet/service"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// StartHarvestJob schedules the periodic harvest-then-ingest run. Both
// steps are idempotent, so an overlapping or retried run is harmless.
func StartHarvestJob(db *gorm.DB, vkClient *client.VKClient, interval time.Duration) (gocron.Scheduler, error) {
	harvestService := service.NewHarvestService(db, vkClient)
	ingestionService := service.NewIngestionService(db)

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			harvested, err := harvestService.HarvestActiveGames()
			if err != nil {
				log.Printf("harvest run failed: %v", err)
				return
			}
			if harvested > 0 {
				log.Printf("harvested %d new raw predictions", harvested)
			}
			succeeded, total, err := ingestionService.ProcessActiveRawPredictions()
			if err != nil {
				log.Printf("ingestion run failed: %v", err)
				return
			}
			if total > 0 {
				log.Printf("ingestion created %d of %d predictions", succeeded, total)
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}
