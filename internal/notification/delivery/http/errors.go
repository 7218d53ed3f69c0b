package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"study-scheduler/internal/notification"
	"study-scheduler/pkg/response"
)

// mapError translates domain errors into HTTP responses. Anything not
// explicitly mapped is an internal error: the message is not leaked.
func (h *handler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, notification.ErrEmptyTitle),
		errors.Is(err, notification.ErrZeroScheduleTime),
		errors.Is(err, notification.ErrInvalidFrequency):
		response.Error(c, err, nil)
	case errors.Is(err, notification.ErrNotFound):
		response.NotFound(c, err)
	case errors.Is(err, notification.ErrNotPending):
		response.Conflict(c, err)
	default:
		response.InternalError(c, err)
	}
}
