package http

import (
	"github.com/gin-gonic/gin"

	"study-scheduler/internal/schedule"
	"study-scheduler/pkg/log"
)

// Handler is the public interface for the schedule HTTP delivery layer.
type Handler interface {
	DetectConflicts(c *gin.Context)
	Allocate(c *gin.Context)
	SaveResolution(c *gin.Context)
	ListIgnored(c *gin.Context)
}

type handler struct {
	l      log.Logger
	uc     schedule.UseCase
	chunks schedule.ChunkBounds
}

// New creates a new HTTP handler for the schedule domain. chunks is the
// chunk sizing applied when a request does not override it.
func New(l log.Logger, uc schedule.UseCase, chunks schedule.ChunkBounds) Handler {
	if chunks.Min <= 0 || chunks.Max <= 0 {
		chunks = schedule.DefaultChunkBounds
	}
	return &handler{
		l:      l,
		uc:     uc,
		chunks: chunks,
	}
}
