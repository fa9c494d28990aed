package controller

import (
	"strconv"
	"time"

	"sovabet/app_error"
	"sovabet/repository"
	"sovabet/scoring"
	"sovabet/service"
	"sovabet/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PredictionController struct {
	predictionService *service.PredictionService
	scoreService      *scoring.ScoreService
}

func NewPredictionController(db *gorm.DB) *PredictionController {
	return &PredictionController{
		predictionService: service.NewPredictionService(db),
		scoreService:      scoring.NewScoreService(db),
	}
}

func setupPredictionController(db *gorm.DB) []RouteInfo {
	e := NewPredictionController(db)
	basePath := "predictions"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getPredictionsHandler()},
		{Method: "PUT", Path: "", HandlerFunc: e.createPredictionHandler()},
		{Method: "GET", Path: "/:prediction_id", HandlerFunc: e.getPredictionHandler()},
		{Method: "DELETE", Path: "/:prediction_id", HandlerFunc: e.deletePredictionHandler()},
		{Method: "POST", Path: "/:prediction_id/score", HandlerFunc: e.scorePredictionHandler()},
		{Method: "POST", Path: "/:prediction_id/reset", HandlerFunc: e.resetPredictionHandler()},
		{Method: "POST", Path: "/activate", HandlerFunc: e.setActiveHandler(true)},
		{Method: "POST", Path: "/deactivate", HandlerFunc: e.setActiveHandler(false)},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

type PredictionEventCreate struct {
	TeamId int               `json:"team_id" binding:"required"`
	Result repository.Result `json:"result" binding:"required"`
}

type PredictionCreate struct {
	PredictorId int                     `json:"predictor_id" binding:"required"`
	GameId      int                     `json:"game_id" binding:"required"`
	SubmittedAt time.Time               `json:"submitted_at" binding:"required"`
	Events      []PredictionEventCreate `json:"events"`
}

type PredictionEventResponse struct {
	Id       int               `json:"id"`
	TeamId   int               `json:"team_id"`
	TeamName string            `json:"team_name"`
	Result   repository.Result `json:"result"`
	Points   float64           `json:"points"`
}

type PredictionResponse struct {
	Id           int                        `json:"id"`
	PredictorId  int                        `json:"predictor_id"`
	GameId       int                        `json:"game_id"`
	SubmittedAt  time.Time                  `json:"submitted_at"`
	IsActive     bool                       `json:"is_active"`
	TotalPoints  float64                    `json:"total_points"`
	Winners      int                        `json:"winners"`
	RunnersUp    int                        `json:"runners_up"`
	ThirdPlaces  int                        `json:"third_places"`
	PrizeWinners int                        `json:"prize_winners"`
	Events       []*PredictionEventResponse `json:"events"`
}

func toPredictionEventResponse(event *repository.PredictionEvent) *PredictionEventResponse {
	response := &PredictionEventResponse{
		Id:     event.Id,
		TeamId: event.TeamId,
		Result: event.Result,
		Points: event.Points,
	}
	if event.Team != nil {
		response.TeamName = event.Team.Name
	}
	return response
}

func toPredictionResponse(prediction *repository.Prediction) *PredictionResponse {
	return &PredictionResponse{
		Id:           prediction.Id,
		PredictorId:  prediction.PredictorId,
		GameId:       prediction.GameId,
		SubmittedAt:  prediction.SubmittedAt,
		IsActive:     prediction.IsActive,
		TotalPoints:  prediction.TotalPoints,
		Winners:      prediction.Winners,
		RunnersUp:    prediction.RunnersUp,
		ThirdPlaces:  prediction.ThirdPlaces,
		PrizeWinners: prediction.PrizeWinners,
		Events:       utils.Map(prediction.Events, toPredictionEventResponse),
	}
}

func (e *PredictionController) getPredictionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var gameId *int
		if value := c.Query("game_id"); value != "" {
			id, err := strconv.Atoi(value)
			if err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			gameId = &id
		}
		predictions, err := e.predictionService.GetPredictions(gameId, activeQuery(c))
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(predictions, toPredictionResponse))
	}
}

func (e *PredictionController) getPredictionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		predictionId, err := strconv.Atoi(c.Param("prediction_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		prediction, err := e.predictionService.GetPredictionById(predictionId)
		if err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		c.JSON(200, toPredictionResponse(prediction))
	}
}

func (e *PredictionController) createPredictionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body PredictionCreate
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		events := utils.Map(body.Events, func(event PredictionEventCreate) *repository.PredictionEvent {
			return &repository.PredictionEvent{TeamId: event.TeamId, Result: event.Result}
		})
		prediction, err := e.predictionService.CreatePrediction(&repository.Prediction{
			PredictorId: body.PredictorId,
			GameId:      body.GameId,
			SubmittedAt: body.SubmittedAt,
		}, events)
		if err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		c.JSON(201, toPredictionResponse(prediction))
	}
}

func (e *PredictionController) deletePredictionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		predictionId, err := strconv.Atoi(c.Param("prediction_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.predictionService.DeletePrediction(predictionId); err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		c.JSON(204, nil)
	}
}

func (e *PredictionController) scorePredictionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		predictionId, err := strconv.Atoi(c.Param("prediction_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.scoreService.ScorePrediction(predictionId); err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "prediction scored"})
	}
}

func (e *PredictionController) resetPredictionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		predictionId, err := strconv.Atoi(c.Param("prediction_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.scoreService.ResetPrediction(predictionId); err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "prediction reset"})
	}
}

func (e *PredictionController) setActiveHandler(isActive bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Ids []int `json:"ids" binding:"required"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.predictionService.SetPredictionsActive(body.Ids, isActive); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"updated": len(body.Ids)})
	}
}
