package http

import (
	"github.com/gin-gonic/gin"

	"study-scheduler/internal/notification"
	"study-scheduler/pkg/log"
)

// Handler is the public interface for the notification HTTP delivery layer.
type Handler interface {
	Schedule(c *gin.Context)
	List(c *gin.Context)
	Cancel(c *gin.Context)
	RunDispatch(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc notification.UseCase
}

// New creates a new HTTP handler for the notification domain.
func New(l log.Logger, uc notification.UseCase) Handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
