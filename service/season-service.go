package service

import (
	"sovabet/repository"

	"gorm.io/gorm"
)

type SeasonService struct {
	seasonRepository *repository.SeasonRepository
}

func NewSeasonService(db *gorm.DB) *SeasonService {
	return &SeasonService{
		seasonRepository: repository.NewSeasonRepository(db),
	}
}

func (e *SeasonService) GetSeasonById(seasonId int) (*repository.Season, error) {
	return e.seasonRepository.GetSeasonById(seasonId)
}

func (e *SeasonService) GetSeasons(isActive *bool) ([]*repository.Season, error) {
	return e.seasonRepository.FindAll(isActive)
}

func (e *SeasonService) SaveSeason(season *repository.Season) (*repository.Season, error) {
	return e.seasonRepository.Save(season)
}

func (e *SeasonService) SetSeasonsActive(seasonIds []int, isActive bool) error {
	return e.seasonRepository.SetActive(seasonIds, isActive)
}

func (e *SeasonService) DeleteSeason(seasonId int) error {
	return e.seasonRepository.Delete(seasonId)
}
