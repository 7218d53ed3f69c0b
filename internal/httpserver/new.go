package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	"study-scheduler/internal/middleware"
	notificationHTTP "study-scheduler/internal/notification/delivery/http"
	scheduleHTTP "study-scheduler/internal/schedule/delivery/http"
	"study-scheduler/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	middleware middleware.Middleware

	// Schedule domain
	scheduleHandler scheduleHTTP.Handler

	// Notification domain
	notificationHandler notificationHTTP.Handler
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	Middleware middleware.Middleware

	ScheduleHandler     scheduleHTTP.Handler
	NotificationHandler notificationHTTP.Handler
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:                   logger,
		gin:                 gin.Default(),
		port:                cfg.Port,
		mode:                cfg.Mode,
		environment:         cfg.Environment,
		middleware:          cfg.Middleware,
		scheduleHandler:     cfg.ScheduleHandler,
		notificationHandler: cfg.NotificationHandler,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.scheduleHandler == nil {
		return errors.New("schedule handler is required")
	}
	if srv.notificationHandler == nil {
		return errors.New("notification handler is required")
	}
	return nil
}
