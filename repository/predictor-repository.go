package repository

import (
	"time"

	"gorm.io/gorm"
)

type Predictor struct {
	Id        int       `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	Info      string    `gorm:"not null;default:''"`
	VkId      *int64    `gorm:"null;uniqueIndex"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type PredictorRepository struct {
	DB *gorm.DB
}

func NewPredictorRepository(db *gorm.DB) *PredictorRepository {
	return &PredictorRepository{DB: db}
}

func (r *PredictorRepository) GetPredictorById(predictorId int) (*Predictor, error) {
	var predictor Predictor
	result := r.DB.First(&predictor, predictorId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &predictor, nil
}

func (r *PredictorRepository) GetPredictorByVkId(vkId int64) (*Predictor, error) {
	var predictor Predictor
	result := r.DB.Where("vk_id = ?", vkId).First(&predictor)
	if result.Error != nil {
		return nil, result.Error
	}
	return &predictor, nil
}

// FindPredictorsByName matches case-insensitively and returns all
// candidates. Resolution policy (unique match or auto-create) lives in
// the ingestion service, not here.
func (r *PredictorRepository) FindPredictorsByName(name string) ([]*Predictor, error) {
	var predictors []*Predictor
	result := r.DB.Where("lower(name) = lower(?)", name).Find(&predictors)
	if result.Error != nil {
		return nil, result.Error
	}
	return predictors, nil
}

func (r *PredictorRepository) FindAll(isActive *bool) ([]*Predictor, error) {
	var predictors []*Predictor
	query := r.DB.Order("name")
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}
	result := query.Find(&predictors)
	if result.Error != nil {
		return nil, result.Error
	}
	return predictors, nil
}

func (r *PredictorRepository) Save(predictor *Predictor) (*Predictor, error) {
	result := r.DB.Save(predictor)
	if result.Error != nil {
		return nil, result.Error
	}
	return predictor, nil
}

func (r *PredictorRepository) SetActive(predictorIds []int, isActive bool) error {
	return r.DB.Model(&Predictor{}).Where("id in ?", predictorIds).Update("is_active", isActive).Error
}

func (r *PredictorRepository) Delete(predictorId int) error {
	result := r.DB.Delete(&Predictor{}, predictorId)
	return result.Error
}
