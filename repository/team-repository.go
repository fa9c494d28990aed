package repository

import (
	"time"

	"gorm.io/gorm"
)

type Team struct {
	Id        int       `gorm:"primaryKey"`
	Name      string    `gorm:"not null;unique"`
	Info      string    `gorm:"not null;default:''"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type TeamRepository struct {
	DB *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{DB: db}
}

func (r *TeamRepository) GetTeamById(teamId int) (*Team, error) {
	var team Team
	result := r.DB.First(&team, teamId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &team, nil
}

// FindTeamsByName matches case-insensitively. Callers decide what a
// non-unique match means.
func (r *TeamRepository) FindTeamsByName(name string) ([]*Team, error) {
	var teams []*Team
	result := r.DB.Where("lower(name) = lower(?)", name).Find(&teams)
	if result.Error != nil {
		return nil, result.Error
	}
	return teams, nil
}

func (r *TeamRepository) FindAll(isActive *bool) ([]*Team, error) {
	var teams []*Team
	query := r.DB.Order("name")
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}
	result := query.Find(&teams)
	if result.Error != nil {
		return nil, result.Error
	}
	return teams, nil
}

func (r *TeamRepository) Save(team *Team) (*Team, error) {
	result := r.DB.Save(team)
	if result.Error != nil {
		return nil, result.Error
	}
	return team, nil
}

func (r *TeamRepository) SetActive(teamIds []int, isActive bool) error {
	return r.DB.Model(&Team{}).Where("id in ?", teamIds).Update("is_active", isActive).Error
}

func (r *TeamRepository) Delete(teamId int) error {
	result := r.DB.Delete(&Team{}, teamId)
	return result.Error
}
