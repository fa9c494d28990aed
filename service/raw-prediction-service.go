package service

import (
	"sovabet/repository"

	"gorm.io/gorm"
)

type RawPredictionService struct {
	rawPredictionRepository *repository.RawPredictionRepository
}

func NewRawPredictionService(db *gorm.DB) *RawPredictionService {
	return &RawPredictionService{
		rawPredictionRepository: repository.NewRawPredictionRepository(db),
	}
}

func (e *RawPredictionService) GetRawPredictionById(rawPredictionId int) (*repository.RawPrediction, error) {
	return e.rawPredictionRepository.GetRawPredictionById(rawPredictionId)
}

func (e *RawPredictionService) GetRawPredictions(isActive *bool) ([]*repository.RawPrediction, error) {
	return e.rawPredictionRepository.FindAll(isActive)
}

func (e *RawPredictionService) SaveRawPrediction(raw *repository.RawPrediction) (*repository.RawPrediction, error) {
	return e.rawPredictionRepository.Save(raw)
}

func (e *RawPredictionService) SetRawPredictionsActive(rawPredictionIds []int, isActive bool) error {
	return e.rawPredictionRepository.SetActive(rawPredictionIds, isActive)
}

func (e *RawPredictionService) DeleteRawPrediction(rawPredictionId int) error {
	return e.rawPredictionRepository.Delete(rawPredictionId)
}
