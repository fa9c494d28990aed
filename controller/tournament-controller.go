package controller

import (
	"strconv"
	"time"

	"sovabet/repository"
	"sovabet/scoring"
	"sovabet/service"
	"sovabet/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TournamentController struct {
	tournamentService *service.TournamentService
	scoreService      *scoring.ScoreService
}

func NewTournamentController(db *gorm.DB) *TournamentController {
	return &TournamentController{
		tournamentService: service.NewTournamentService(db),
		scoreService:      scoring.NewScoreService(db),
	}
}

func setupTournamentController(db *gorm.DB) []RouteInfo {
	e := NewTournamentController(db)
	basePath := "tournaments"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getTournamentsHandler()},
		{Method: "PUT", Path: "", HandlerFunc: e.createTournamentHandler()},
		{Method: "GET", Path: "/:tournament_id", HandlerFunc: e.getTournamentHandler()},
		{Method: "PATCH", Path: "/:tournament_id", HandlerFunc: e.updateTournamentHandler()},
		{Method: "DELETE", Path: "/:tournament_id", HandlerFunc: e.deleteTournamentHandler()},
		{Method: "POST", Path: "/activate", HandlerFunc: e.setActiveHandler(true)},
		{Method: "POST", Path: "/deactivate", HandlerFunc: e.setActiveHandler(false)},
		{Method: "POST", Path: "/:tournament_id/score", HandlerFunc: e.scoreTournamentHandler()},
		{Method: "POST", Path: "/:tournament_id/reset", HandlerFunc: e.resetTournamentHandler()},
		{Method: "GET", Path: "/:tournament_id/standings", HandlerFunc: e.getTournamentStandingsHandler(), Cached: true},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

type TournamentCreate struct {
	Name      string    `json:"name" binding:"required"`
	Info      string    `json:"info"`
	SeasonId  int       `json:"season_id" binding:"required"`
	StartedAt time.Time `json:"started_at" binding:"required"`
}

type TournamentResponse struct {
	Id        int       `json:"id"`
	Name      string    `json:"name"`
	Info      string    `json:"info"`
	SeasonId  int       `json:"season_id"`
	StartedAt time.Time `json:"started_at"`
	IsActive  bool      `json:"is_active"`
}

func toTournamentResponse(tournament *repository.Tournament) *TournamentResponse {
	return &TournamentResponse{
		Id:        tournament.Id,
		Name:      tournament.Name,
		Info:      tournament.Info,
		SeasonId:  tournament.SeasonId,
		StartedAt: tournament.StartedAt,
		IsActive:  tournament.IsActive,
	}
}

func (e *TournamentController) getTournamentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var seasonId *int
		if value := c.Query("season_id"); value != "" {
			id, err := strconv.Atoi(value)
			if err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			seasonId = &id
		}
		tournaments, err := e.tournamentService.GetTournaments(seasonId, activeQuery(c))
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(tournaments, toTournamentResponse))
	}
}

func (e *TournamentController) getTournamentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tournamentId, err := strconv.Atoi(c.Param("tournament_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		tournament, err := e.tournamentService.GetTournamentById(tournamentId)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(404, gin.H{"error": "Tournament not found"})
			} else {
				c.JSON(500, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(200, toTournamentResponse(tournament))
	}
}

func (e *TournamentController) createTournamentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tournament TournamentCreate
		if err := c.BindJSON(&tournament); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		dbtournament, err := e.tournamentService.SaveTournament(&repository.Tournament{
			Name:      tournament.Name,
			Info:      tournament.Info,
			SeasonId:  tournament.SeasonId,
			StartedAt: tournament.StartedAt,
			IsActive:  true,
		})
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(201, toTournamentResponse(dbtournament))
	}
}

func (e *TournamentController) updateTournamentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tournamentId, err := strconv.Atoi(c.Param("tournament_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		tournament, err := e.tournamentService.GetTournamentById(tournamentId)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(404, gin.H{"error": "Tournament not found"})
			} else {
				c.JSON(500, gin.H{"error": err.Error()})
			}
			return
		}
		var update struct {
			Name      *string    `json:"name"`
			Info      *string    `json:"info"`
			StartedAt *time.Time `json:"started_at"`
			IsActive  *bool      `json:"is_active"`
		}
		if err := c.BindJSON(&update); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if update.Name != nil {
			tournament.Name = *update.Name
		}
		if update.Info != nil {
			tournament.Info = *update.Info
		}
		if update.StartedAt != nil {
			tournament.StartedAt = *update.StartedAt
		}
		if update.IsActive != nil {
			tournament.IsActive = *update.IsActive
		}
		dbtournament, err := e.tournamentService.SaveTournament(tournament)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, toTournamentResponse(dbtournament))
	}
}

func (e *TournamentController) deleteTournamentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tournamentId, err := strconv.Atoi(c.Param("tournament_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.tournamentService.DeleteTournament(tournamentId); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(204, nil)
	}
}

func (e *TournamentController) scoreTournamentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tournamentId, err := strconv.Atoi(c.Param("tournament_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.scoreService.ScoreTournament(tournamentId); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"message": "tournament scored"})
	}
}

func (e *TournamentController) resetTournamentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tournamentId, err := strconv.Atoi(c.Param("tournament_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.scoreService.ResetTournament(tournamentId); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"message": "tournament reset"})
	}
}

func (e *TournamentController) getTournamentStandingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tournamentId, err := strconv.Atoi(c.Param("tournament_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		rows, err := e.scoreService.StandingsForTournament(tournamentId)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, rows)
	}
}

func (e *TournamentController) setActiveHandler(isActive bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Ids []int `json:"ids" binding:"required"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.tournamentService.SetTournamentsActive(body.Ids, isActive); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"updated": len(body.Ids)})
	}
}
