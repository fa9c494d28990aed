package service

import (
	"sovabet/repository"

	"gorm.io/gorm"
)

type TeamService struct {
	teamRepository *repository.TeamRepository
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{
		teamRepository: repository.NewTeamRepository(db),
	}
}

func (e *TeamService) GetTeamById(teamId int) (*repository.Team, error) {
	return e.teamRepository.GetTeamById(teamId)
}

func (e *TeamService) GetTeams(isActive *bool) ([]*repository.Team, error) {
	return e.teamRepository.FindAll(isActive)
}

func (e *TeamService) SaveTeam(team *repository.Team) (*repository.Team, error) {
	return e.teamRepository.Save(team)
}

func (e *TeamService) SetTeamsActive(teamIds []int, isActive bool) error {
	return e.teamRepository.SetActive(teamIds, isActive)
}

// DeleteTeam fails with a foreign key violation while performances or
// prediction events still reference the team.
func (e *TeamService) DeleteTeam(teamId int) error {
	return e.teamRepository.Delete(teamId)
}
