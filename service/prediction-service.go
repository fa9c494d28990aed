package service

import (
	"fmt"

	"sovabet/repository"

	"gorm.io/gorm"
)

type PredictionService struct {
	predictionRepository *repository.PredictionRepository
	gameRepository       *repository.GameRepository
}

func NewPredictionService(db *gorm.DB) *PredictionService {
	return &PredictionService{
		predictionRepository: repository.NewPredictionRepository(db),
		gameRepository:       repository.NewGameRepository(db),
	}
}

func (e *PredictionService) GetPredictionById(predictionId int) (*repository.Prediction, error) {
	return e.predictionRepository.GetPredictionById(predictionId)
}

func (e *PredictionService) GetPredictions(gameId *int, isActive *bool) ([]*repository.Prediction, error) {
	if gameId != nil {
		return e.predictionRepository.GetPredictionsForGame(*gameId, isActive)
	}
	return e.predictionRepository.FindAll(isActive)
}

// CreatePrediction is the manual entry path next to ingestion. The same
// rules hold: one prediction per predictor and game, at most one event
// per podium slot, late submissions created inactive.
func (e *PredictionService) CreatePrediction(prediction *repository.Prediction, events []*repository.PredictionEvent) (*repository.Prediction, error) {
	if len(events) > 3 {
		return nil, fmt.Errorf("a prediction holds at most 3 events")
	}
	game, err := e.gameRepository.GetGameById(prediction.GameId)
	if err != nil {
		return nil, err
	}
	prediction.IsActive = prediction.SubmittedAt.Before(game.StartedAt)
	prediction, err = e.predictionRepository.Save(prediction)
	if err != nil {
		return nil, err
	}
	for _, event := range events {
		event.PredictionId = prediction.Id
		if _, err := e.predictionRepository.CreateEvent(event); err != nil {
			return nil, err
		}
	}
	return e.predictionRepository.GetPredictionById(prediction.Id)
}

func (e *PredictionService) SetPredictionsActive(predictionIds []int, isActive bool) error {
	return e.predictionRepository.SetActive(predictionIds, isActive)
}

func (e *PredictionService) DeletePrediction(predictionId int) error {
	return e.predictionRepository.Delete(predictionId)
}
