package controller

import (
	"time"

	"github.com/gin-contrib/cache"
	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RouteInfo struct {
	Method      string
	Path        string
	HandlerFunc gin.HandlerFunc
	Cached      bool
}

func SetRoutes(r *gin.Engine, db *gorm.DB, cacheStore persistence.CacheStore) {
	routes := make([]RouteInfo, 0)
	routes = append(routes, setupSeasonController(db)...)
	routes = append(routes, setupTournamentController(db)...)
	routes = append(routes, setupGameController(db)...)
	routes = append(routes, setupTeamController(db)...)
	routes = append(routes, setupPredictorController(db)...)
	routes = append(routes, setupPredictionController(db)...)
	routes = append(routes, setupRawPredictionController(db)...)
	for _, route := range routes {
		handler := route.HandlerFunc
		if route.Cached {
			handler = cache.CachePage(cacheStore, 30*time.Second, handler)
		}
		r.Handle(route.Method, "/api/"+route.Path, handler)
	}
}

// activeQuery reads the optional ?active=true|false list filter.
func activeQuery(c *gin.Context) *bool {
	switch c.Query("active") {
	case "true":
		active := true
		return &active
	case "false":
		active := false
		return &active
	default:
		return nil
	}
}
