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

type PredictorController struct {
	predictorService *service.PredictorService
}

func NewPredictorController(db *gorm.DB) *PredictorController {
	return &PredictorController{
		predictorService: service.NewPredictorService(db),
	}
}

func setupPredictorController(db *gorm.DB) []RouteInfo {
	e := NewPredictorController(db)
	basePath := "predictors"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getPredictorsHandler()},
		{Method: "PUT", Path: "", HandlerFunc: e.createPredictorHandler()},
		{Method: "GET", Path: "/:predictor_id", HandlerFunc: e.getPredictorHandler()},
		{Method: "PATCH", Path: "/:predictor_id", HandlerFunc: e.updatePredictorHandler()},
		{Method: "DELETE", Path: "/:predictor_id", HandlerFunc: e.deletePredictorHandler()},
		{Method: "POST", Path: "/activate", HandlerFunc: e.setActiveHandler(true)},
		{Method: "POST", Path: "/deactivate", HandlerFunc: e.setActiveHandler(false)},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

type PredictorCreate struct {
	Name string `json:"name" binding:"required"`
	Info string `json:"info"`
	VkId *int64 `json:"vk_id"`
}

type PredictorResponse struct {
	Id       int    `json:"id"`
	Name     string `json:"name"`
	Info     string `json:"info"`
	VkId     *int64 `json:"vk_id"`
	IsActive bool   `json:"is_active"`
}

func toPredictorResponse(predictor *repository.Predictor) *PredictorResponse {
	return &PredictorResponse{
		Id:       predictor.Id,
		Name:     predictor.Name,
		Info:     predictor.Info,
		VkId:     predictor.VkId,
		IsActive: predictor.IsActive,
	}
}

func (e *PredictorController) getPredictorsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		predictors, err := e.predictorService.GetPredictors(activeQuery(c))
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(predictors, toPredictorResponse))
	}
}

func (e *PredictorController) getPredictorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		predictorId, err := strconv.Atoi(c.Param("predictor_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		predictor, err := e.predictorService.GetPredictorById(predictorId)
		if err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		c.JSON(200, toPredictorResponse(predictor))
	}
}

func (e *PredictorController) createPredictorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var predictor PredictorCreate
		if err := c.BindJSON(&predictor); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		dbpredictor, err := e.predictorService.SavePredictor(&repository.Predictor{
			Name:     predictor.Name,
			Info:     predictor.Info,
			VkId:     predictor.VkId,
			IsActive: true,
		})
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(201, toPredictorResponse(dbpredictor))
	}
}

func (e *PredictorController) updatePredictorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		predictorId, err := strconv.Atoi(c.Param("predictor_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		predictor, err := e.predictorService.GetPredictorById(predictorId)
		if err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		var update struct {
			Name     *string `json:"name"`
			Info     *string `json:"info"`
			VkId     *int64  `json:"vk_id"`
			IsActive *bool   `json:"is_active"`
		}
		if err := c.BindJSON(&update); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if update.Name != nil {
			predictor.Name = *update.Name
		}
		if update.Info != nil {
			predictor.Info = *update.Info
		}
		if update.VkId != nil {
			predictor.VkId = update.VkId
		}
		if update.IsActive != nil {
			predictor.IsActive = *update.IsActive
		}
		predictor, err = e.predictorService.SavePredictor(predictor)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, toPredictorResponse(predictor))
	}
}

func (e *PredictorController) deletePredictorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		predictorId, err := strconv.Atoi(c.Param("predictor_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.predictorService.DeletePredictor(predictorId); err != nil {
			app_error.FromStoreError(c, err)
			return
		}
		c.JSON(204, nil)
	}
}

func (e *PredictorController) setActiveHandler(isActive bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Ids []int `json:"ids" binding:"required"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.predictorService.SetPredictorsActive(body.Ids, isActive); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"updated": len(body.Ids)})
	}
}
