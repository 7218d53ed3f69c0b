package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"study-scheduler/internal/schedule"
	"study-scheduler/pkg/response"
)

// mapError translates domain errors into HTTP responses. Anything not
// explicitly mapped is an internal error: the message is not leaked.
func (h *handler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, schedule.ErrInvalidWindow),
		errors.Is(err, schedule.ErrInvalidDuration),
		errors.Is(err, schedule.ErrInvalidChunkBounds),
		errors.Is(err, schedule.ErrInvalidResolution),
		errors.Is(err, schedule.ErrSamePairItem):
		response.Error(c, err, nil)
	default:
		response.InternalError(c, err)
	}
}
