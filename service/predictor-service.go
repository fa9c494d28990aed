package service

import (
	"sovabet/repository"

	"gorm.io/gorm"
)

type PredictorService struct {
	predictorRepository *repository.PredictorRepository
}

func NewPredictorService(db *gorm.DB) *PredictorService {
	return &PredictorService{
		predictorRepository: repository.NewPredictorRepository(db),
	}
}

func (e *PredictorService) GetPredictorById(predictorId int) (*repository.Predictor, error) {
	return e.predictorRepository.GetPredictorById(predictorId)
}

func (e *PredictorService) GetPredictors(isActive *bool) ([]*repository.Predictor, error) {
	return e.predictorRepository.FindAll(isActive)
}

func (e *PredictorService) SavePredictor(predictor *repository.Predictor) (*repository.Predictor, error) {
	return e.predictorRepository.Save(predictor)
}

func (e *PredictorService) SetPredictorsActive(predictorIds []int, isActive bool) error {
	return e.predictorRepository.SetActive(predictorIds, isActive)
}

func (e *PredictorService) DeletePredictor(predictorId int) error {
	return e.predictorRepository.Delete(predictorId)
}
