package service

import (
	"sovabet/repository"

	"gorm.io/gorm"
)

type GameService struct {
	gameRepository *repository.GameRepository
}

func NewGameService(db *gorm.DB) *GameService {
	return &GameService{
		gameRepository: repository.NewGameRepository(db),
	}
}

func (e *GameService) GetGameById(gameId int) (*repository.Game, error) {
	return e.gameRepository.GetGameById(gameId)
}

func (e *GameService) GetGames(tournamentId *int, isActive *bool) ([]*repository.Game, error) {
	if tournamentId != nil {
		return e.gameRepository.GetGamesForTournament(*tournamentId, isActive)
	}
	return e.gameRepository.FindAll(isActive)
}

func (e *GameService) SaveGame(game *repository.Game) (*repository.Game, error) {
	return e.gameRepository.Save(game)
}

func (e *GameService) SetGamesActive(gameIds []int, isActive bool) error {
	return e.gameRepository.SetActive(gameIds, isActive)
}

func (e *GameService) DeleteGame(gameId int) error {
	return e.gameRepository.Delete(gameId)
}

// SetPerformances replaces a game's outcome entries. Scoring is not
// triggered here; a recompute is an explicit admin action.
func (e *GameService) SetPerformances(gameId int, performances []*repository.Performance) (*repository.Game, error) {
	game, err := e.gameRepository.GetGameById(gameId)
	if err != nil {
		return nil, err
	}
	err = e.gameRepository.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", game.Id).Delete(&repository.Performance{}).Error; err != nil {
			return err
		}
		for _, performance := range performances {
			performance.Id = 0
			performance.GameId = game.Id
			if err := tx.Create(performance).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e.gameRepository.GetGameById(gameId)
}
