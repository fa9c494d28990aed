package repository

import (
	"time"

	"gorm.io/gorm"
)

// RawPrediction is an unvalidated submission, usually harvested from a
// VK comment. Ingestion either turns it into a Prediction and
// deactivates it, or leaves it active with a diagnostic note so it can
// be corrected and retried.
type RawPrediction struct {
	Id         int       `gorm:"primaryKey"`
	Name       string    `gorm:"not null"`
	VkId       *int64    `gorm:"null"`
	Timestamp  time.Time `gorm:"not null"`
	Text       string    `gorm:"not null;default:''"`
	Game       string    `gorm:"not null"`
	Winner     string    `gorm:"not null;default:''"`
	RunnerUp   string    `gorm:"not null;default:''"`
	ThirdPlace string    `gorm:"not null;default:''"`
	Note       string    `gorm:"not null;default:''"`
	IsActive   bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

type RawPredictionRepository struct {
	DB *gorm.DB
}

func NewRawPredictionRepository(db *gorm.DB) *RawPredictionRepository {
	return &RawPredictionRepository{DB: db}
}

func (r *RawPredictionRepository) GetRawPredictionById(rawPredictionId int) (*RawPrediction, error) {
	var raw RawPrediction
	result := r.DB.First(&raw, rawPredictionId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &raw, nil
}

// FindActive returns the current ingestion batch, oldest first so that
// the earliest submission wins the duplicate check.
func (r *RawPredictionRepository) FindActive() ([]*RawPrediction, error) {
	var raws []*RawPrediction
	result := r.DB.Where("is_active = true").Order("timestamp").Find(&raws)
	if result.Error != nil {
		return nil, result.Error
	}
	return raws, nil
}

func (r *RawPredictionRepository) FindByIds(rawPredictionIds []int) ([]*RawPrediction, error) {
	var raws []*RawPrediction
	result := r.DB.Where("id in ?", rawPredictionIds).Order("timestamp").Find(&raws)
	if result.Error != nil {
		return nil, result.Error
	}
	return raws, nil
}

func (r *RawPredictionRepository) FindAll(isActive *bool) ([]*RawPrediction, error) {
	var raws []*RawPrediction
	query := r.DB.Order("created_at desc")
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}
	result := query.Find(&raws)
	if result.Error != nil {
		return nil, result.Error
	}
	return raws, nil
}

func (r *RawPredictionRepository) Save(raw *RawPrediction) (*RawPrediction, error) {
	result := r.DB.Save(raw)
	if result.Error != nil {
		return nil, result.Error
	}
	return raw, nil
}

// ExistsForComment keeps the harvest idempotent: a VK comment is
// identified by its author, game reference and timestamp.
func (r *RawPredictionRepository) ExistsForComment(vkId int64, game string, timestamp time.Time) (bool, error) {
	var count int64
	result := r.DB.Model(&RawPrediction{}).
		Where("vk_id = ? AND game = ? AND timestamp = ?", vkId, game, timestamp).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

func (r *RawPredictionRepository) SetActive(rawPredictionIds []int, isActive bool) error {
	return r.DB.Model(&RawPrediction{}).Where("id in ?", rawPredictionIds).Update("is_active", isActive).Error
}

func (r *RawPredictionRepository) Delete(rawPredictionId int) error {
	result := r.DB.Delete(&RawPrediction{}, rawPredictionId)
	return result.Error
}
