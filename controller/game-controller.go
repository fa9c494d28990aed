package controller

import (
	"strconv"
	"time"

	"sovabet/app_error"
	"sovabet/client"
	"sovabet/config"
	"sovabet/repository"
	"sovabet/scoring"
	"sovabet/service"
	"sovabet/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type GameController struct {
	gameService    *service.GameService
	scoreService   *scoring.ScoreService
	harvestService *service.HarvestService
}

func NewGameController(db *gorm.DB) *GameController {
	cfg := config.Env()
	vkClient := client.NewVKClient(cfg.VKAccessToken, cfg.VKApiVersion, cfg.VKOwnerId)
	return &GameController{
		gameService:    service.NewGameService(db),
		scoreService:   scoring.NewScoreService(db),
		harvestService: service.NewHarvestService(db, vkClient),
	}
}

func setupGameController(db *gorm.DB) []RouteInfo {
	e := NewGameController(db)
	basePath := "games"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getGamesHandler()},
		{Method: "PUT", Path: "", HandlerFunc: e.createGameHandler()},
		{Method: "GET", Path: "/:game_id", HandlerFunc: e.getGameHandler()},
		{Method: "PATCH", Path: "/:game_id", HandlerFunc: e.updateGameHandler()},
		{Method: "DELETE", Path: "/:game_id", HandlerFunc: e.deleteGameHandler()},
		{Method: "POST", Path: "/activate", HandlerFunc: e.setActiveHandler(true)},
		{Method: "POST", Path: "/deactivate", HandlerFunc: e.setActiveHandler(false)},
		{Method: "PUT", Path: "/:game_id/performances", HandlerFunc: e.setPerformancesHandler()},
		{Method: "POST", Path: "/:game_id/score", HandlerFunc: e.scoreGameHandler()},
		{Method: "POST", Path: "/:game_id/reset", HandlerFunc: e.resetGameHandler()},
		{Method: "POST", Path: "/:game_id/harvest", HandlerFunc: e.harvestGameHandler()},
		{Method: "GET", Path: "/:game_id/standings", HandlerFunc: e.getGameStandingsHandler(), Cached: true},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

type GameCreate struct {
	Name         string    `json:"name" binding:"required"`
	Info         string    `json:"info"`
	TournamentId int       `json:"tournament_id" binding:"required"`
	StartedAt    time.Time `json:"started_at" binding:"required"`
	VkPostId     *int64    `json:"vk_post_id"`
}

type PerformanceSet struct {
	TeamId int                `json:"team_id" binding:"required"`
	Result *repository.Result `json:"result"`
}

type PerformanceResponse struct {
	Id       int                `json:"id"`
	TeamId   int                `json:"team_id"`
	TeamName string             `json:"team_name"`
	Result   *repository.Result `json:"result"`
}

type GameResponse struct {
	Id           int                    `json:"id"`
	Name         string                 `json:"name"`
	Info         string                 `json:"info"`
	TournamentId int                    `json:"tournament_id"`
	StartedAt    time.Time              `json:"started_at"`
	VkPostId     *int64                 `json:"vk_post_id"`
	IsActive     bool                   `json:"is_active"`
	Performances []*PerformanceResponse `json:"performances"`
}

func toPerformanceResponse(performance *repository.Performance) *PerformanceResponse {
	response := &PerformanceResponse{
		Id:     performance.Id,
		TeamId: performance.TeamId,
		Result: performance.Result,
	}
	if performance.Team != nil {
		response.TeamName = performance.Team.Name
	}
	return response
}

func toGameResponse(game *repository.Game) *GameResponse {
	return &GameResponse{
		Id:           game.Id,
		Name:         game.Name,
		Info:         game.Info,
		TournamentId: game.TournamentId,
		StartedAt:    game.StartedAt,
		VkPostId:     game.VkPostId,
		IsActive:     game.IsActive,
		Performances: utils.Map(game.Performances, toPerformanceResponse),
	}
}

func (e *GameController) getGamesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tournamentId *int
		if value := c.Query("tournament_id"); value != "" {
			id, err := strconv.Atoi(value)
			if err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			tournamentId = &id
		}
		games, err := e.gameService.GetGames(tournamentId, activeQuery(c))
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(games, toGameResponse))
	}
}

func (e *GameController) getGameHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		gameId, err := strconv.Atoi(c.Param("game_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		game, err := e.gameService.GetGameById(gameId)
		if err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		c.JSON(200, toGameResponse(game))
	}
}

func (e *GameController) createGameHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var game GameCreate
		if err := c.BindJSON(&game); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		dbgame, err := e.gameService.SaveGame(&repository.Game{
			Name:         game.Name,
			Info:         game.Info,
			TournamentId: game.TournamentId,
			StartedAt:    game.StartedAt,
			VkPostId:     game.VkPostId,
			IsActive:     true,
		})
		if err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		c.JSON(201, toGameResponse(dbgame))
	}
}

func (e *GameController) updateGameHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		gameId, err := strconv.Atoi(c.Param("game_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		game, err := e.gameService.GetGameById(gameId)
		if err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		var update struct {
			Name      *string    `json:"name"`
			Info      *string    `json:"info"`
			StartedAt *time.Time `json:"started_at"`
			VkPostId  *int64     `json:"vk_post_id"`
			IsActive  *bool      `json:"is_active"`
		}
		if err := c.BindJSON(&update); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if update.Name != nil {
			game.Name = *update.Name
		}
		if update.Info != nil {
			game.Info = *update.Info
		}
		if update.StartedAt != nil {
			game.StartedAt = *update.StartedAt
		}
		if update.VkPostId != nil {
			game.VkPostId = update.VkPostId
		}
		if update.IsActive != nil {
			game.IsActive = *update.IsActive
		}
		// performances are managed through their own endpoint
		game.Performances = nil
		dbgame, err := e.gameService.SaveGame(game)
		if err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		c.JSON(200, toGameResponse(dbgame))
	}
}

func (e *GameController) deleteGameHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		gameId, err := strconv.Atoi(c.Param("game_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.gameService.DeleteGame(gameId); err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		c.JSON(204, nil)
	}
}

// setPerformancesHandler records a game's outcome: at most one team per
// podium slot, the rest with no result.
func (e *GameController) setPerformancesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		gameId, err := strconv.Atoi(c.Param("game_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		var body []PerformanceSet
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		performances := utils.Map(body, func(p PerformanceSet) *repository.Performance {
			return &repository.Performance{TeamId: p.TeamId, Result: p.Result}
		})
		game, err := e.gameService.SetPerformances(gameId, performances)
		if err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		c.JSON(200, toGameResponse(game))
	}
}

func (e *GameController) scoreGameHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		gameId, err := strconv.Atoi(c.Param("game_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.scoreService.ScoreGame(gameId); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"message": "game scored"})
	}
}

func (e *GameController) resetGameHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		gameId, err := strconv.Atoi(c.Param("game_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.scoreService.ResetGame(gameId); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"message": "game reset"})
	}
}

func (e *GameController) harvestGameHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		gameId, err := strconv.Atoi(c.Param("game_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		game, err := e.gameService.GetGameById(gameId)
		if err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		if game.VkPostId == nil {
			c.JSON(400, gin.H{"error": "game has no vk post"})
			return
		}
		harvested, err := e.harvestService.HarvestGame(game)
		if err != nil {
			c.JSON(502, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"harvested": harvested})
	}
}

func (e *GameController) getGameStandingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		gameId, err := strconv.Atoi(c.Param("game_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		rows, err := e.scoreService.StandingsForGame(gameId)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, rows)
	}
}

func (e *GameController) setActiveHandler(isActive bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Ids []int `json:"ids" binding:"required"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.gameService.SetGamesActive(body.Ids, isActive); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"updated": len(body.Ids)})
	}
}
