package http

import (
	"github.com/gin-gonic/gin"

	"study-scheduler/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
func RegisterRoutes(rg *gin.RouterGroup, h Handler, mw middleware.Middleware) {
	scheduled := rg.Group("/scheduled")
	{
		scheduled.POST("", mw.UserScope(), h.Schedule)
		scheduled.GET("", mw.UserScope(), h.List)
		scheduled.DELETE("/:id", mw.UserScope(), h.Cancel)
	}
}

// RegisterInternalRoutes maps the operational endpoints. These are
// guarded by the internal key, not a user scope.
func RegisterInternalRoutes(rg *gin.RouterGroup, h Handler, mw middleware.Middleware) {
	rg.POST("/dispatch/run", mw.InternalAuth(), h.RunDispatch)
}
