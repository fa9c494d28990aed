package service

import (
	"sovabet/repository"

	"gorm.io/gorm"
)

type TournamentService struct {
	tournamentRepository *repository.TournamentRepository
}

func NewTournamentService(db *gorm.DB) *TournamentService {
	return &TournamentService{
		tournamentRepository: repository.NewTournamentRepository(db),
	}
}

func (e *TournamentService) GetTournamentById(tournamentId int) (*repository.Tournament, error) {
	return e.tournamentRepository.GetTournamentById(tournamentId)
}

func (e *TournamentService) GetTournaments(seasonId *int, isActive *bool) ([]*repository.Tournament, error) {
	if seasonId != nil {
		return e.tournamentRepository.GetTournamentsForSeason(*seasonId, isActive)
	}
	return e.tournamentRepository.FindAll(isActive)
}

func (e *TournamentService) SaveTournament(tournament *repository.Tournament) (*repository.Tournament, error) {
	return e.tournamentRepository.Save(tournament)
}

func (e *TournamentService) SetTournamentsActive(tournamentIds []int, isActive bool) error {
	return e.tournamentRepository.SetActive(tournamentIds, isActive)
}

func (e *TournamentService) DeleteTournament(tournamentId int) error {
	return e.tournamentRepository.Delete(tournamentId)
}
