package service

import (
	"errors"
	"log"

	"sovabet/metrics"
	"sovabet/repository"
	"sovabet/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notes written back onto raw predictions. The success note keeps the
// wording the admins have been reading since the first version of the
// site.
const (
	NoteCreated         = "Создан"
	NoteCreatedInactive = "Создан (прогноз после начала игры)"

	NoteNoMatchingGame     = "no matching game found"
	NoteAmbiguousPredictor = "ambiguous predictor name"
	NotePredictionExists   = "prediction already exists"
	NoteCreateFailed       = "failed to create prediction"
)

var errAmbiguousPredictor = errors.New("ambiguous predictor name")

// IngestionService turns raw predictions into validated predictions.
// Every failure is local to one record: the raw prediction stays active
// with a diagnostic note and the batch moves on.
type IngestionService struct {
	rawPredictionRepository *repository.RawPredictionRepository
	gameRepository          *repository.GameRepository
	predictorRepository     *repository.PredictorRepository
	teamRepository          *repository.TeamRepository
	predictionRepository    *repository.PredictionRepository
}

func NewIngestionService(db *gorm.DB) *IngestionService {
	return &IngestionService{
		rawPredictionRepository: repository.NewRawPredictionRepository(db),
		gameRepository:          repository.NewGameRepository(db),
		predictorRepository:     repository.NewPredictorRepository(db),
		teamRepository:          repository.NewTeamRepository(db),
		predictionRepository:    repository.NewPredictionRepository(db),
	}
}

// ProcessActiveRawPredictions ingests the default batch: all currently
// active raw predictions, oldest first.
func (s *IngestionService) ProcessActiveRawPredictions() (int, int, error) {
	raws, err := s.rawPredictionRepository.FindActive()
	if err != nil {
		return 0, 0, err
	}
	succeeded, total := s.ProcessRawPredictions(raws)
	return succeeded, total, nil
}

// ProcessRawPredictionsByIds ingests an explicit selection. Ids that
// match no record are logged, so a thinner result than requested can be
// traced.
func (s *IngestionService) ProcessRawPredictionsByIds(rawPredictionIds []int) (int, int, error) {
	raws, err := s.rawPredictionRepository.FindByIds(rawPredictionIds)
	if err != nil {
		return 0, 0, err
	}
	if len(raws) < len(rawPredictionIds) {
		found := utils.Map(raws, func(raw *repository.RawPrediction) int { return raw.Id })
		for _, id := range rawPredictionIds {
			if !utils.Contains(found, id) {
				log.Printf("raw prediction %d not found, skipping", id)
			}
		}
	}
	succeeded, total := s.ProcessRawPredictions(raws)
	return succeeded, total, nil
}

func (s *IngestionService) ProcessRawPredictions(raws []*repository.RawPrediction) (int, int) {
	batchId := uuid.New()
	succeeded := 0
	total := 0
	for _, raw := range raws {
		if !raw.IsActive {
			log.Printf("ingestion batch %s: raw prediction %d skipped, already processed", batchId, raw.Id)
			continue
		}
		total++
		if s.processOne(raw) {
			succeeded++
		}
		log.Printf("ingestion batch %s: raw prediction %d: %s", batchId, raw.Id, raw.Note)
	}
	log.Printf("ingestion batch %s: created %d of %d raw predictions", batchId, succeeded, total)
	return succeeded, total
}

func (s *IngestionService) processOne(raw *repository.RawPrediction) bool {
	game, err := s.gameRepository.GetGameByReference(raw.Game)
	if err != nil {
		s.reject(raw, NoteNoMatchingGame)
		return false
	}

	predictor, err := s.resolvePredictor(raw)
	if err != nil {
		if errors.Is(err, errAmbiguousPredictor) {
			s.reject(raw, NoteAmbiguousPredictor)
		} else {
			s.reject(raw, NoteCreateFailed)
		}
		return false
	}

	_, err = s.predictionRepository.GetPredictionByPredictorAndGame(predictor.Id, game.Id)
	if err == nil {
		s.reject(raw, NotePredictionExists)
		return false
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.reject(raw, NoteCreateFailed)
		return false
	}

	// A submission at or after the game start is kept for audit but
	// excluded from scoring and standings.
	isActive := raw.Timestamp.Before(game.StartedAt)
	prediction := &repository.Prediction{
		PredictorId: predictor.Id,
		GameId:      game.Id,
		SubmittedAt: raw.Timestamp,
		IsActive:    isActive,
	}
	if _, err := s.predictionRepository.Save(prediction); err != nil {
		s.reject(raw, NoteCreateFailed)
		return false
	}

	guesses := []struct {
		name   string
		result repository.Result
	}{
		{raw.Winner, repository.WINNER},
		{raw.RunnerUp, repository.RUNNER_UP},
		{raw.ThirdPlace, repository.THIRD_PLACE},
	}
	for _, guess := range guesses {
		if guess.name == "" {
			continue
		}
		teams, err := s.teamRepository.FindTeamsByName(guess.name)
		if err != nil {
			s.reject(raw, NoteCreateFailed)
			return false
		}
		if len(teams) != 1 {
			// unresolved team names are skipped, a partial prediction is valid
			continue
		}
		event := &repository.PredictionEvent{
			PredictionId: prediction.Id,
			TeamId:       teams[0].Id,
			Result:       guess.result,
		}
		if _, err := s.predictionRepository.CreateEvent(event); err != nil {
			s.reject(raw, NoteCreateFailed)
			return false
		}
	}

	raw.IsActive = false
	raw.Note = NoteCreated
	if !isActive {
		raw.Note = NoteCreatedInactive
	}
	if _, err := s.rawPredictionRepository.Save(raw); err != nil {
		log.Printf("failed to mark raw prediction %d processed: %v", raw.Id, err)
		return false
	}
	metrics.RawPredictionsProcessedCounter.WithLabelValues("created").Inc()
	return true
}

// resolvePredictor finds the submitting predictor by vk id when present
// and known, else by unique case-insensitive name. A new predictor is
// created only when the name matches nothing at all; several candidates
// are never merged automatically.
func (s *IngestionService) resolvePredictor(raw *repository.RawPrediction) (*repository.Predictor, error) {
	if raw.VkId != nil {
		predictor, err := s.predictorRepository.GetPredictorByVkId(*raw.VkId)
		if err == nil {
			return predictor, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	candidates, err := s.predictorRepository.FindPredictorsByName(raw.Name)
	if err != nil {
		return nil, err
	}
	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return s.predictorRepository.Save(&repository.Predictor{
			Name:     raw.Name,
			VkId:     raw.VkId,
			IsActive: true,
		})
	default:
		return nil, errAmbiguousPredictor
	}
}

func (s *IngestionService) reject(raw *repository.RawPrediction, note string) {
	raw.Note = note
	if _, err := s.rawPredictionRepository.Save(raw); err != nil {
		log.Printf("failed to annotate raw prediction %d: %v", raw.Id, err)
	}
	metrics.RawPredictionsProcessedCounter.WithLabelValues("rejected").Inc()
}
