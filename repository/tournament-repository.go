package repository

import (
	"time"

	"gorm.io/gorm"
)

type Tournament struct {
	Id        int       `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	Info      string    `gorm:"not null;default:''"`
	SeasonId  int       `gorm:"not null;index"`
	StartedAt time.Time `gorm:"not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Season *Season `gorm:"foreignKey:SeasonId;constraint:OnDelete:RESTRICT;"`
	Games  []*Game `gorm:"foreignKey:TournamentId"`
}

type TournamentRepository struct {
	DB *gorm.DB
}

func NewTournamentRepository(db *gorm.DB) *TournamentRepository {
	return &TournamentRepository{DB: db}
}

func (r *TournamentRepository) GetTournamentById(tournamentId int) (*Tournament, error) {
	var tournament Tournament
	result := r.DB.First(&tournament, tournamentId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &tournament, nil
}

func (r *TournamentRepository) GetTournamentsForSeason(seasonId int, isActive *bool) ([]*Tournament, error) {
	var tournaments []*Tournament
	query := r.DB.Where("season_id = ?", seasonId).Order("started_at")
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}
	result := query.Find(&tournaments)
	if result.Error != nil {
		return nil, result.Error
	}
	return tournaments, nil
}

func (r *TournamentRepository) FindAll(isActive *bool) ([]*Tournament, error) {
	var tournaments []*Tournament
	query := r.DB.Order("started_at desc")
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}
	result := query.Find(&tournaments)
	if result.Error != nil {
		return nil, result.Error
	}
	return tournaments, nil
}

func (r *TournamentRepository) Save(tournament *Tournament) (*Tournament, error) {
	result := r.DB.Save(tournament)
	if result.Error != nil {
		return nil, result.Error
	}
	return tournament, nil
}

func (r *TournamentRepository) SetActive(tournamentIds []int, isActive bool) error {
	return r.DB.Model(&Tournament{}).Where("id in ?", tournamentIds).Update("is_active", isActive).Error
}

func (r *TournamentRepository) Delete(tournamentId int) error {
	result := r.DB.Delete(&Tournament{}, tournamentId)
	return result.Error
}
