package repository

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type Result string

const (
	WINNER      Result = "WINNER"
	RUNNER_UP   Result = "RUNNER_UP"
	THIRD_PLACE Result = "THIRD_PLACE"
)

// Results returns the podium slots in rank order.
func Results() []Result {
	return []Result{WINNER, RUNNER_UP, THIRD_PLACE}
}

// Rank orders results WINNER < RUNNER_UP < THIRD_PLACE, matching the
// postgres enum definition order used in "order by result" queries.
func (r Result) Rank() int {
	switch r {
	case WINNER:
		return 0
	case RUNNER_UP:
		return 1
	case THIRD_PLACE:
		return 2
	default:
		return 3
	}
}

type Game struct {
	Id           int       `gorm:"primaryKey"`
	Name         string    `gorm:"not null"`
	Info         string    `gorm:"not null;default:''"`
	TournamentId int       `gorm:"not null;index"`
	StartedAt    time.Time `gorm:"not null"`
	VkPostId     *int64    `gorm:"null"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	Tournament   *Tournament    `gorm:"foreignKey:TournamentId;constraint:OnDelete:RESTRICT;"`
	Performances []*Performance `gorm:"foreignKey:GameId;constraint:OnDelete:CASCADE;"`
}

type Performance struct {
	Id        int       `gorm:"primaryKey"`
	GameId    int       `gorm:"not null;uniqueIndex:idx_game_team"`
	TeamId    int       `gorm:"not null;uniqueIndex:idx_game_team"`
	Result    *Result   `gorm:"type:sovabet.result"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Game *Game `gorm:"foreignKey:GameId;constraint:OnDelete:CASCADE;"`
	Team *Team `gorm:"foreignKey:TeamId;constraint:OnDelete:RESTRICT;"`
}

type GameRepository struct {
	DB *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{DB: db}
}

func (r *GameRepository) GetGameById(gameId int) (*Game, error) {
	var game Game
	result := r.DB.Preload("Performances").Preload("Performances.Team").First(&game, gameId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &game, nil
}

// GetGameByReference resolves a raw prediction's game field, which may
// hold either a numeric id or a game name. A name must match exactly one
// game (case-insensitive), otherwise gorm.ErrRecordNotFound is returned.
func (r *GameRepository) GetGameByReference(reference string) (*Game, error) {
	if gameId, err := strconv.Atoi(reference); err == nil {
		return r.GetGameById(gameId)
	}
	var games []*Game
	result := r.DB.Where("lower(name) = lower(?)", reference).Limit(2).Find(&games)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(games) != 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetGameById(games[0].Id)
}

func (r *GameRepository) GetGamesForTournament(tournamentId int, isActive *bool) ([]*Game, error) {
	var games []*Game
	query := r.DB.Where("tournament_id = ?", tournamentId).Order("started_at")
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}
	result := query.Find(&games)
	if result.Error != nil {
		return nil, result.Error
	}
	return games, nil
}

func (r *GameRepository) FindAll(isActive *bool) ([]*Game, error) {
	var games []*Game
	query := r.DB.Order("started_at desc")
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}
	result := query.Find(&games)
	if result.Error != nil {
		return nil, result.Error
	}
	return games, nil
}

func (r *GameRepository) Save(game *Game) (*Game, error) {
	result := r.DB.Save(game)
	if result.Error != nil {
		return nil, result.Error
	}
	return game, nil
}

func (r *GameRepository) SetActive(gameIds []int, isActive bool) error {
	return r.DB.Model(&Game{}).Where("id in ?", gameIds).Update("is_active", isActive).Error
}

func (r *GameRepository) Delete(gameId int) error {
	result := r.DB.Delete(&Game{}, gameId)
	return result.Error
}

// GetRankedPerformancesForGame returns the performances that carry a
// result, in podium order.
func (r *GameRepository) GetRankedPerformancesForGame(gameId int) ([]*Performance, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetRankedPerformancesForGame"))
	defer timer.ObserveDuration()
	var performances []*Performance
	result := r.DB.Where("game_id = ? AND result IS NOT NULL", gameId).Order("result").Find(&performances)
	if result.Error != nil {
		return nil, result.Error
	}
	return performances, nil
}

func (r *GameRepository) SavePerformance(performance *Performance) (*Performance, error) {
	result := r.DB.Save(performance)
	if result.Error != nil {
		return nil, result.Error
	}
	return performance, nil
}

func (r *GameRepository) DeletePerformance(performanceId int) error {
	result := r.DB.Delete(&Performance{}, performanceId)
	return result.Error
}
