package controller

import (
	"errors"
	"io"
	"strconv"
	"time"

	"sovabet/app_error"
	"sovabet/repository"
	"sovabet/service"
	"sovabet/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RawPredictionController struct {
	rawPredictionService *service.RawPredictionService
	ingestionService     *service.IngestionService
}

func NewRawPredictionController(db *gorm.DB) *RawPredictionController {
	return &RawPredictionController{
		rawPredictionService: service.NewRawPredictionService(db),
		ingestionService:     service.NewIngestionService(db),
	}
}

func setupRawPredictionController(db *gorm.DB) []RouteInfo {
	e := NewRawPredictionController(db)
	basePath := "raw-predictions"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getRawPredictionsHandler()},
		{Method: "PUT", Path: "", HandlerFunc: e.createRawPredictionHandler()},
		{Method: "GET", Path: "/:raw_prediction_id", HandlerFunc: e.getRawPredictionHandler()},
		{Method: "PATCH", Path: "/:raw_prediction_id", HandlerFunc: e.updateRawPredictionHandler()},
		{Method: "DELETE", Path: "/:raw_prediction_id", HandlerFunc: e.deleteRawPredictionHandler()},
		{Method: "POST", Path: "/process", HandlerFunc: e.processRawPredictionsHandler()},
		{Method: "POST", Path: "/activate", HandlerFunc: e.setActiveHandler(true)},
		{Method: "POST", Path: "/deactivate", HandlerFunc: e.setActiveHandler(false)},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

type RawPredictionCreate struct {
	Name       string    `json:"name" binding:"required"`
	VkId       *int64    `json:"vk_id"`
	Timestamp  time.Time `json:"timestamp" binding:"required"`
	Text       string    `json:"text"`
	Game       string    `json:"game" binding:"required"`
	Winner     string    `json:"winner"`
	RunnerUp   string    `json:"runner_up"`
	ThirdPlace string    `json:"third_place"`
}

type RawPredictionResponse struct {
	Id         int       `json:"id"`
	Name       string    `json:"name"`
	VkId       *int64    `json:"vk_id"`
	Timestamp  time.Time `json:"timestamp"`
	Text       string    `json:"text"`
	Game       string    `json:"game"`
	Winner     string    `json:"winner"`
	RunnerUp   string    `json:"runner_up"`
	ThirdPlace string    `json:"third_place"`
	Note       string    `json:"note"`
	IsActive   bool      `json:"is_active"`
}

func toRawPredictionResponse(raw *repository.RawPrediction) *RawPredictionResponse {
	return &RawPredictionResponse{
		Id:         raw.Id,
		Name:       raw.Name,
		VkId:       raw.VkId,
		Timestamp:  raw.Timestamp,
		Text:       raw.Text,
		Game:       raw.Game,
		Winner:     raw.Winner,
		RunnerUp:   raw.RunnerUp,
		ThirdPlace: raw.ThirdPlace,
		Note:       raw.Note,
		IsActive:   raw.IsActive,
	}
}

func (e *RawPredictionController) getRawPredictionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		raws, err := e.rawPredictionService.GetRawPredictions(activeQuery(c))
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(raws, toRawPredictionResponse))
	}
}

func (e *RawPredictionController) getRawPredictionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawPredictionId, err := strconv.Atoi(c.Param("raw_prediction_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		raw, err := e.rawPredictionService.GetRawPredictionById(rawPredictionId)
		if err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		c.JSON(200, toRawPredictionResponse(raw))
	}
}

func (e *RawPredictionController) createRawPredictionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body RawPredictionCreate
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		raw, err := e.rawPredictionService.SaveRawPrediction(&repository.RawPrediction{
			Name:       body.Name,
			VkId:       body.VkId,
			Timestamp:  body.Timestamp,
			Text:       body.Text,
			Game:       body.Game,
			Winner:     body.Winner,
			RunnerUp:   body.RunnerUp,
			ThirdPlace: body.ThirdPlace,
			IsActive:   true,
		})
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(201, toRawPredictionResponse(raw))
	}
}

// updateRawPredictionHandler is the correction path: admins fix the
// game reference or team names of a rejected raw prediction, then run
// processing again.
func (e *RawPredictionController) updateRawPredictionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawPredictionId, err := strconv.Atoi(c.Param("raw_prediction_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		raw, err := e.rawPredictionService.GetRawPredictionById(rawPredictionId)
		if err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		var update struct {
			Name       *string `json:"name"`
			Game       *string `json:"game"`
			Winner     *string `json:"winner"`
			RunnerUp   *string `json:"runner_up"`
			ThirdPlace *string `json:"third_place"`
			IsActive   *bool   `json:"is_active"`
		}
		if err := c.BindJSON(&update); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if update.Name != nil {
			raw.Name = *update.Name
		}
		if update.Game != nil {
			raw.Game = *update.Game
		}
		if update.Winner != nil {
			raw.Winner = *update.Winner
		}
		if update.RunnerUp != nil {
			raw.RunnerUp = *update.RunnerUp
		}
		if update.ThirdPlace != nil {
			raw.ThirdPlace = *update.ThirdPlace
		}
		if update.IsActive != nil {
			raw.IsActive = *update.IsActive
		}
		raw, err = e.rawPredictionService.SaveRawPrediction(raw)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, toRawPredictionResponse(raw))
	}
}

func (e *RawPredictionController) deleteRawPredictionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawPredictionId, err := strconv.Atoi(c.Param("raw_prediction_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.rawPredictionService.DeleteRawPrediction(rawPredictionId); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(204, nil)
	}
}

// processRawPredictionsHandler ingests either an explicit selection or,
// with an empty body, all currently active raw predictions.
func (e *RawPredictionController) processRawPredictionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Ids []int `json:"ids"`
		}
		if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		var succeeded, total int
		var err error
		if len(body.Ids) > 0 {
			succeeded, total, err = e.ingestionService.ProcessRawPredictionsByIds(body.Ids)
		} else {
			succeeded, total, err = e.ingestionService.ProcessActiveRawPredictions()
		}
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"succeeded": succeeded, "total": total})
	}
}

func (e *RawPredictionController) setActiveHandler(isActive bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Ids []int `json:"ids" binding:"required"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.rawPredictionService.SetRawPredictionsActive(body.Ids, isActive); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"updated": len(body.Ids)})
	}
}
