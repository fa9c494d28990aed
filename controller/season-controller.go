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

type SeasonController struct {
	seasonService *service.SeasonService
	scoreService  *scoring.ScoreService
}

func NewSeasonController(db *gorm.DB) *SeasonController {
	return &SeasonController{
		seasonService: service.NewSeasonService(db),
		scoreService:  scoring.NewScoreService(db),
	}
}

func setupSeasonController(db *gorm.DB) []RouteInfo {
	e := NewSeasonController(db)
	basePath := "seasons"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getSeasonsHandler()},
		{Method: "PUT", Path: "", HandlerFunc: e.createSeasonHandler()},
		{Method: "GET", Path: "/:season_id", HandlerFunc: e.getSeasonHandler()},
		{Method: "PATCH", Path: "/:season_id", HandlerFunc: e.updateSeasonHandler()},
		{Method: "DELETE", Path: "/:season_id", HandlerFunc: e.deleteSeasonHandler()},
		{Method: "POST", Path: "/activate", HandlerFunc: e.setActiveHandler(true)},
		{Method: "POST", Path: "/deactivate", HandlerFunc: e.setActiveHandler(false)},
		{Method: "POST", Path: "/:season_id/score", HandlerFunc: e.scoreSeasonHandler()},
		{Method: "POST", Path: "/:season_id/reset", HandlerFunc: e.resetSeasonHandler()},
		{Method: "GET", Path: "/:season_id/standings", HandlerFunc: e.getSeasonStandingsHandler(), Cached: true},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

type SeasonCreate struct {
	Name      string    `json:"name" binding:"required"`
	Info      string    `json:"info"`
	StartedAt time.Time `json:"started_at" binding:"required"`
}

type SeasonResponse struct {
	Id        int       `json:"id"`
	Name      string    `json:"name"`
	Info      string    `json:"info"`
	StartedAt time.Time `json:"started_at"`
	IsActive  bool      `json:"is_active"`
}

func toSeasonResponse(season *repository.Season) *SeasonResponse {
	return &SeasonResponse{
		Id:        season.Id,
		Name:      season.Name,
		Info:      season.Info,
		StartedAt: season.StartedAt,
		IsActive:  season.IsActive,
	}
}

func (e *SeasonController) getSeasonsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		seasons, err := e.seasonService.GetSeasons(activeQuery(c))
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(seasons, toSeasonResponse))
	}
}

func (e *SeasonController) getSeasonHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		seasonId, err := strconv.Atoi(c.Param("season_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		season, err := e.seasonService.GetSeasonById(seasonId)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(404, gin.H{"error": "Season not found"})
			} else {
				c.JSON(500, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(200, toSeasonResponse(season))
	}
}

func (e *SeasonController) createSeasonHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var season SeasonCreate
		if err := c.BindJSON(&season); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		dbseason, err := e.seasonService.SaveSeason(&repository.Season{
			Name:      season.Name,
			Info:      season.Info,
			StartedAt: season.StartedAt,
			IsActive:  true,
		})
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(201, toSeasonResponse(dbseason))
	}
}

func (e *SeasonController) updateSeasonHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		seasonId, err := strconv.Atoi(c.Param("season_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		season, err := e.seasonService.GetSeasonById(seasonId)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(404, gin.H{"error": "Season not found"})
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
			season.Name = *update.Name
		}
		if update.Info != nil {
			season.Info = *update.Info
		}
		if update.StartedAt != nil {
			season.StartedAt = *update.StartedAt
		}
		if update.IsActive != nil {
			season.IsActive = *update.IsActive
		}
		season, err = e.seasonService.SaveSeason(season)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, toSeasonResponse(season))
	}
}

func (e *SeasonController) deleteSeasonHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		seasonId, err := strconv.Atoi(c.Param("season_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.seasonService.DeleteSeason(seasonId); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(204, nil)
	}
}

func (e *SeasonController) scoreSeasonHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		seasonId, err := strconv.Atoi(c.Param("season_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.scoreService.ScoreSeason(seasonId); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"message": "season scored"})
	}
}

func (e *SeasonController) resetSeasonHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		seasonId, err := strconv.Atoi(c.Param("season_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.scoreService.ResetSeason(seasonId); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"message": "season reset"})
	}
}

func (e *SeasonController) getSeasonStandingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		seasonId, err := strconv.Atoi(c.Param("season_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		rows, err := e.scoreService.StandingsForSeason(seasonId)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, rows)
	}
}

func (e *SeasonController) setActiveHandler(isActive bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Ids []int `json:"ids" binding:"required"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.seasonService.SetSeasonsActive(body.Ids, isActive); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"updated": len(body.Ids)})
	}
}
