package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	notificationHTTP "study-scheduler/internal/notification/delivery/http"
	scheduleHTTP "study-scheduler/internal/schedule/delivery/http"
)

func (srv *HTTPServer) mapHandlers() error {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()

	return nil
}

func (srv *HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(srv.middleware.RateLimit())
}

func (srv *HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers all domain routes.
func (srv *HTTPServer) registerDomainRoutes() {
	ctx := context.Background()

	api := srv.gin.Group("/api/v1")

	scheduleHTTP.RegisterRoutes(api.Group("/schedule"), srv.scheduleHandler, srv.middleware)
	srv.l.Infof(ctx, "Schedule routes registered under /api/v1/schedule")

	notificationHTTP.RegisterRoutes(api.Group("/notifications"), srv.notificationHandler, srv.middleware)
	srv.l.Infof(ctx, "Notification routes registered under /api/v1/notifications")

	internal := srv.gin.Group("/internal")
	notificationHTTP.RegisterInternalRoutes(internal, srv.notificationHandler, srv.middleware)
	srv.l.Infof(ctx, "Internal dispatch trigger registered at POST /internal/dispatch/run")
}
