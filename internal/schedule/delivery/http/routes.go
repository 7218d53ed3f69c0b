package http

import (
	"github.com/gin-gonic/gin"

	"study-scheduler/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods. Every
// route requires a caller identity.
func RegisterRoutes(rg *gin.RouterGroup, h Handler, mw middleware.Middleware) {
	rg.POST("/conflicts", mw.UserScope(), h.DetectConflicts)
	rg.POST("/allocate", mw.UserScope(), h.Allocate)

	resolutions := rg.Group("/resolutions")
	{
		resolutions.POST("", mw.UserScope(), h.SaveResolution)
		resolutions.GET("/ignored", mw.UserScope(), h.ListIgnored)
	}
}
