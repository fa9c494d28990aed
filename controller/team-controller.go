package controller

import (
	"strconv"

	"sovabet/app_error"
	"sovabet/repository"
	"sovabet/service"
	"sovabet/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TeamController struct {
	teamService *service.TeamService
}

func NewTeamController(db *gorm.DB) *TeamController {
	return &TeamController{
		teamService: service.NewTeamService(db),
	}
}

func setupTeamController(db *gorm.DB) []RouteInfo {
	e := NewTeamController(db)
	basePath := "teams"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getTeamsHandler()},
		{Method: "PUT", Path: "", HandlerFunc: e.createTeamHandler()},
		{Method: "GET", Path: "/:team_id", HandlerFunc: e.getTeamHandler()},
		{Method: "PATCH", Path: "/:team_id", HandlerFunc: e.updateTeamHandler()},
		{Method: "DELETE", Path: "/:team_id", HandlerFunc: e.deleteTeamHandler()},
		{Method: "POST", Path: "/activate", HandlerFunc: e.setActiveHandler(true)},
		{Method: "POST", Path: "/deactivate", HandlerFunc: e.setActiveHandler(false)},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

type TeamCreate struct {
	Name string `json:"name" binding:"required"`
	Info string `json:"info"`
}

type TeamResponse struct {
	Id       int    `json:"id"`
	Name     string `json:"name"`
	Info     string `json:"info"`
	IsActive bool   `json:"is_active"`
}

func toTeamResponse(team *repository.Team) *TeamResponse {
	return &TeamResponse{
		Id:       team.Id,
		Name:     team.Name,
		Info:     team.Info,
		IsActive: team.IsActive,
	}
}

func (e *TeamController) getTeamsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		teams, err := e.teamService.GetTeams(activeQuery(c))
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(teams, toTeamResponse))
	}
}

func (e *TeamController) getTeamHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		teamId, err := strconv.Atoi(c.Param("team_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		team, err := e.teamService.GetTeamById(teamId)
		if err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		c.JSON(200, toTeamResponse(team))
	}
}

func (e *TeamController) createTeamHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var team TeamCreate
		if err := c.BindJSON(&team); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		dbteam, err := e.teamService.SaveTeam(&repository.Team{
			Name:     team.Name,
			Info:     team.Info,
			IsActive: true,
		})
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(201, toTeamResponse(dbteam))
	}
}

func (e *TeamController) updateTeamHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		teamId, err := strconv.Atoi(c.Param("team_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		team, err := e.teamService.GetTeamById(teamId)
		if err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		var update struct {
			Name     *string `json:"name"`
			Info     *string `json:"info"`
			IsActive *bool   `json:"is_active"`
		}
		if err := c.BindJSON(&update); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if update.Name != nil {
			team.Name = *update.Name
		}
		if update.Info != nil {
			team.Info = *update.Info
		}
		if update.IsActive != nil {
			team.IsActive = *update.IsActive
		}
		team, err = e.teamService.SaveTeam(team)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, toTeamResponse(team))
	}
}

func (e *TeamController) deleteTeamHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		teamId, err := strconv.Atoi(c.Param("team_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		// fails with 409 while performances or events reference the team
		if err := e.teamService.DeleteTeam(teamId); err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		c.JSON(204, nil)
	}
}

func (e *TeamController) setActiveHandler(isActive bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Ids []int `json:"ids" binding:"required"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.teamService.SetTeamsActive(body.Ids, isActive); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"updated": len(body.Ids)})
	}
}
