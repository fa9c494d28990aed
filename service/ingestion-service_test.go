package service

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"sovabet/repository"

	"gorm.io/driver/postgres"
	_ "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
)

var db *gorm.DB
var enumQueries = []string{
	`CREATE TYPE sovabet.result AS ENUM ('WINNER', 'RUNNER_UP', 'THIRD_PLACE')`,
}

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}

	// uses pool to try to connect to Docker
	err = pool.Client.Ping()
	if err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	// pulls an image, creates a container based on it and runs it
	resource, err := pool.Run("postgres", "17.2-alpine", []string{"POSTGRES_USER=postgres", "POSTGRES_PASSWORD=postgres", "DATABASE_NAME=postgres"})
	if err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}
	resource.Expire(600) // Tell docker to hard kill the container in 10 minutes
	sqlInfo := fmt.Sprintf(
		"host=localhost port=%s user=postgres password=postgres dbname=postgres sslmode=disable search_path=sovabet",
		resource.GetPort("5432/tcp"))

	// exponential backoff-retry, because the application in the container might not be ready to accept connections yet
	if err := pool.Retry(func() error {
		var err error
		db, err = gorm.Open(postgres.Open(sqlInfo), &gorm.Config{
			NamingStrategy: schema.NamingStrategy{
				TablePrefix:   "sovabet.",
				SingularTable: false,
			},
			Logger: logger.Default.LogMode(logger.Silent),
		})

		if err != nil {
			return err
		}
		db.Exec(`CREATE SCHEMA IF NOT EXISTS sovabet`)
		for _, query := range enumQueries {
			x := db.Exec(query)
			if x.Error != nil {
				if strings.Contains(x.Error.Error(), "already exists") {
					continue
				}
			}
		}
		return db.AutoMigrate(
			&repository.Season{},
			&repository.Tournament{},
			&repository.Team{},
			&repository.Game{},
			&repository.Performance{},
			&repository.Predictor{},
			&repository.Prediction{},
			&repository.PredictionEvent{},
			&repository.RawPrediction{},
		)

	}); err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}

	// as of go1.15 testing.M returns the exit code of m.Run(), so it is safe to use defer here
	defer func() {
		if err := pool.Purge(resource); err != nil {
			log.Fatalf("Could not purge resource: %s", err)
		}

	}()
	m.Run()
}

func TearDown() {
	db.Exec("DELETE FROM sovabet.prediction_events")
	db.Exec("DELETE FROM sovabet.predictions")
	db.Exec("DELETE FROM sovabet.performances")
	db.Exec("DELETE FROM sovabet.raw_predictions")
	db.Exec("DELETE FROM sovabet.games")
	db.Exec("DELETE FROM sovabet.tournaments")
	db.Exec("DELETE FROM sovabet.seasons")
	db.Exec("DELETE FROM sovabet.predictors")
	db.Exec("DELETE FROM sovabet.teams")
}

// SetUp creates a game that starts an hour from now so that fresh
// submissions count as on time.
func SetUp() *repository.Game {
	now := time.Now()
	season := &repository.Season{
		Name:      "season1",
		StartedAt: now,
		IsActive:  true,
		Tournaments: []*repository.Tournament{
			{
				Name:      "tournament1",
				StartedAt: now,
				IsActive:  true,
				Games: []*repository.Game{
					{Name: "game1", StartedAt: now.Add(time.Hour), IsActive: true},
				},
			},
		},
	}
	if err := db.Create(season).Error; err != nil {
		log.Fatalf("Error creating season: %v", err)
	}
	for _, name := range []string{"alpha", "beta", "gamma"} {
		if err := db.Create(&repository.Team{Name: name, IsActive: true}).Error; err != nil {
			log.Fatalf("Error creating team: %v", err)
		}
	}
	return season.Tournaments[0].Games[0]
}

func rawFor(name string, game string, winner string, runnerUp string, thirdPlace string) *repository.RawPrediction {
	raw := &repository.RawPrediction{
		Name:       name,
		Timestamp:  time.Now(),
		Game:       game,
		Winner:     winner,
		RunnerUp:   runnerUp,
		ThirdPlace: thirdPlace,
		IsActive:   true,
	}
	if err := db.Create(raw).Error; err != nil {
		log.Fatalf("Error creating raw prediction: %v", err)
	}
	return raw
}

func reloadRaw(t *testing.T, rawId int) *repository.RawPrediction {
	raw, err := repository.NewRawPredictionRepository(db).GetRawPredictionById(rawId)
	assert.Nil(t, err)
	return raw
}

func TestProcessBatchMixedOutcome(t *testing.T) {
	game := SetUp()
	defer TearDown()
	valid := rawFor("anna", "game1", "alpha", "beta", "gamma")
	broken := rawFor("boris", "no such game", "alpha", "beta", "gamma")

	succeeded, total, err := NewIngestionService(db).ProcessActiveRawPredictions()
	assert.Nil(t, err)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 2, total)

	processed := reloadRaw(t, valid.Id)
	assert.False(t, processed.IsActive)
	assert.Equal(t, NoteCreated, processed.Note)

	rejected := reloadRaw(t, broken.Id)
	assert.True(t, rejected.IsActive)
	assert.Equal(t, NoteNoMatchingGame, rejected.Note)

	// the new predictor was created on the fly and the guesses resolved
	predictors, err := repository.NewPredictorRepository(db).FindPredictorsByName("anna")
	assert.Nil(t, err)
	assert.Len(t, predictors, 1)

	prediction, err := repository.NewPredictionRepository(db).GetPredictionByPredictorAndGame(predictors[0].Id, game.Id)
	assert.Nil(t, err)
	events, err := repository.NewPredictionRepository(db).GetEventsForPrediction(prediction.Id)
	assert.Nil(t, err)
	assert.Len(t, events, 3)
}

func TestProcessGameByIdReference(t *testing.T) {
	game := SetUp()
	defer TearDown()
	raw := rawFor("anna", strconv.Itoa(game.Id), "alpha", "", "")

	succeeded, total, err := NewIngestionService(db).ProcessActiveRawPredictions()
	assert.Nil(t, err)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, total)
	assert.Equal(t, NoteCreated, reloadRaw(t, raw.Id).Note)
}

func TestProcessDuplicatePrediction(t *testing.T) {
	SetUp()
	defer TearDown()
	rawFor("anna", "game1", "alpha", "beta", "gamma")
	duplicate := rawFor("anna", "game1", "beta", "alpha", "gamma")

	ingestionService := NewIngestionService(db)
	succeeded, total, err := ingestionService.ProcessActiveRawPredictions()
	assert.Nil(t, err)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 2, total)

	rejected := reloadRaw(t, duplicate.Id)
	assert.True(t, rejected.IsActive)
	assert.Equal(t, NotePredictionExists, rejected.Note)

	// retrying the rejected record without fixing it fails the same way
	succeeded, total, err = ingestionService.ProcessActiveRawPredictions()
	assert.Nil(t, err)
	assert.Equal(t, 0, succeeded)
	assert.Equal(t, 1, total)
}

func TestProcessLateSubmission(t *testing.T) {
	game := SetUp()
	defer TearDown()
	raw := rawFor("anna", "game1", "alpha", "beta", "gamma")
	db.Model(raw).Update("timestamp", game.StartedAt.Add(time.Minute))
	raw.Timestamp = game.StartedAt.Add(time.Minute)

	succeeded, _ := NewIngestionService(db).ProcessRawPredictions([]*repository.RawPrediction{raw})
	assert.Equal(t, 1, succeeded)

	processed := reloadRaw(t, raw.Id)
	assert.False(t, processed.IsActive)
	assert.Equal(t, NoteCreatedInactive, processed.Note)

	predictors, err := repository.NewPredictorRepository(db).FindPredictorsByName("anna")
	assert.Nil(t, err)
	prediction, err := repository.NewPredictionRepository(db).GetPredictionByPredictorAndGame(predictors[0].Id, game.Id)
	assert.Nil(t, err)
	assert.False(t, prediction.IsActive)
}

func TestProcessResolvesPredictorByVkId(t *testing.T) {
	game := SetUp()
	defer TearDown()
	vkId := int64(42)
	predictor, err := repository.NewPredictorRepository(db).Save(&repository.Predictor{Name: "anna", VkId: &vkId, IsActive: true})
	assert.Nil(t, err)

	// the vk id wins even when the display name has changed
	raw := rawFor("Анна П.", "game1", "alpha", "", "")
	db.Model(raw).Update("vk_id", vkId)
	raw.VkId = &vkId

	succeeded, _ := NewIngestionService(db).ProcessRawPredictions([]*repository.RawPrediction{raw})
	assert.Equal(t, 1, succeeded)

	_, err = repository.NewPredictionRepository(db).GetPredictionByPredictorAndGame(predictor.Id, game.Id)
	assert.Nil(t, err)
	predictors, err := repository.NewPredictorRepository(db).FindPredictorsByName("Анна П.")
	assert.Nil(t, err)
	assert.Len(t, predictors, 0)
}

func TestProcessAmbiguousPredictorName(t *testing.T) {
	SetUp()
	defer TearDown()
	predictorRepository := repository.NewPredictorRepository(db)
	_, err := predictorRepository.Save(&repository.Predictor{Name: "anna", IsActive: true})
	assert.Nil(t, err)
	_, err = predictorRepository.Save(&repository.Predictor{Name: "Anna", IsActive: true})
	assert.Nil(t, err)

	raw := rawFor("ANNA", "game1", "alpha", "", "")
	succeeded, total, err := NewIngestionService(db).ProcessActiveRawPredictions()
	assert.Nil(t, err)
	assert.Equal(t, 0, succeeded)
	assert.Equal(t, 1, total)

	rejected := reloadRaw(t, raw.Id)
	assert.True(t, rejected.IsActive)
	assert.Equal(t, NoteAmbiguousPredictor, rejected.Note)
}

func TestProcessLogsBatchAudit(t *testing.T) {
	SetUp()
	defer TearDown()
	valid := rawFor("anna", "game1", "alpha", "beta", "gamma")
	stale := rawFor("boris", "game1", "alpha", "beta", "gamma")
	db.Model(stale).Update("is_active", false)
	stale.IsActive = false

	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	// one processable record, one already processed, one unknown id
	succeeded, total, err := NewIngestionService(db).ProcessRawPredictionsByIds([]int{valid.Id, stale.Id, 999999})
	assert.Nil(t, err)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, total)

	output := logs.String()
	assert.Contains(t, output, "ingestion batch ")
	assert.Contains(t, output, fmt.Sprintf("raw prediction %d: %s", valid.Id, NoteCreated))
	assert.Contains(t, output, fmt.Sprintf("raw prediction %d skipped, already processed", stale.Id))
	assert.Contains(t, output, "raw prediction 999999 not found")
}

func TestProcessSkipsUnresolvedTeams(t *testing.T) {
	game := SetUp()
	defer TearDown()
	raw := rawFor("anna", "game1", "alpha", "no such team", "gamma")

	succeeded, _, err := NewIngestionService(db).ProcessActiveRawPredictions()
	assert.Nil(t, err)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, NoteCreated, reloadRaw(t, raw.Id).Note)

	predictors, err := repository.NewPredictorRepository(db).FindPredictorsByName("anna")
	assert.Nil(t, err)
	prediction, err := repository.NewPredictionRepository(db).GetPredictionByPredictorAndGame(predictors[0].Id, game.Id)
	assert.Nil(t, err)
	events, err := repository.NewPredictionRepository(db).GetEventsForPrediction(prediction.Id)
	assert.Nil(t, err)
	assert.Len(t, events, 2)
	for _, event := range events {
		assert.NotEqual(t, repository.RUNNER_UP, event.Result)
	}
}
