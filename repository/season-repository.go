package repository

import (
	"time"

	"gorm.io/gorm"
)

type Season struct {
	Id        int       `gorm:"primaryKey"`
	Name      string    `gorm:"not null;unique"`
	Info      string    `gorm:"not null;default:''"`
	StartedAt time.Time `gorm:"not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Tournaments []*Tournament `gorm:"foreignKey:SeasonId"`
}

type SeasonRepository struct {
	DB *gorm.DB
}

func NewSeasonRepository(db *gorm.DB) *SeasonRepository {
	return &SeasonRepository{DB: db}
}

func (r *SeasonRepository) GetSeasonById(seasonId int) (*Season, error) {
	var season Season
	result := r.DB.First(&season, seasonId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &season, nil
}

func (r *SeasonRepository) FindAll(isActive *bool) ([]*Season, error) {
	var seasons []*Season
	query := r.DB.Order("started_at desc")
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}
	result := query.Find(&seasons)
	if result.Error != nil {
		return nil, result.Error
	}
	return seasons, nil
}

func (r *SeasonRepository) Save(season *Season) (*Season, error) {
	result := r.DB.Save(season)
	if result.Error != nil {
		return nil, result.Error
	}
	return season, nil
}

func (r *SeasonRepository) SetActive(seasonIds []int, isActive bool) error {
	return r.DB.Model(&Season{}).Where("id in ?", seasonIds).Update("is_active", isActive).Error
}

func (r *SeasonRepository) Delete(seasonId int) error {
	result := r.DB.Delete(&Season{}, seasonId)
	return result.Error
}
