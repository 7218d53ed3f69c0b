package http

import (
	"errors"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"study-scheduler/internal/middleware"
	"study-scheduler/internal/schedule"
	"study-scheduler/pkg/response"
)

// DetectConflicts godoc
// @Summary     Detect scheduling conflicts
// @Description Normalizes the submitted items and returns clusters of mutually overlapping intervals within the window.
// @Tags        Schedule
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string    true "Caller user id"
// @Param       body      body   detectReq true "Items and visible window"
// @Success     200 {object} detectResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/schedule/conflicts [POST]
func (h *handler) DetectConflicts(c *gin.Context) {
	ctx := c.Request.Context()
	sc := middleware.GetScope(c)

	req, err := h.processDetectReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.Detect(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "schedule.delivery.http.DetectConflicts: uc.Detect: %v", err)
		h.mapError(c, err)
		return
	}

	response.OK(c, h.newDetectResp(output))
}

// Allocate godoc
// @Summary     Allocate study time
// @Description Packs the requested duration into free time before the deadline. An expected failure (deadline passed, insufficient capacity) comes back as a 200 with allocated=false and the partial result attached.
// @Tags        Schedule
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string      true "Caller user id"
// @Param       body      body   allocateReq true "Allocation request"
// @Success     200 {object} allocateResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/schedule/allocate [POST]
func (h *handler) Allocate(c *gin.Context) {
	ctx := c.Request.Context()
	sc := middleware.GetScope(c)

	req, err := h.processAllocateReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	now := time.Now()

	busy, err := h.uc.CollectBusy(ctx, sc, now, req.Deadline)
	if err != nil {
		h.l.Errorf(ctx, "schedule.delivery.http.Allocate: uc.CollectBusy: %v", err)
		h.mapError(c, err)
		return
	}
	busy = append(busy, req.hardWindows()...)

	output, err := h.uc.Allocate(ctx, sc, schedule.AllocateInput{
		Subject:         req.Subject,
		DurationMinutes: req.DurationMinutes,
		Deadline:        req.Deadline,
		Busy:            busy,
		Chunks:          h.chunkBounds(req),
		Priority:        req.Priority,
		Now:             now,
	})
	if err != nil {
		var allocErr *schedule.AllocationError
		if errors.As(err, &allocErr) {
			response.OK(c, h.newAllocateFailureResp(allocErr))
			return
		}
		h.l.Errorf(ctx, "schedule.delivery.http.Allocate: uc.Allocate: %v", err)
		h.mapError(c, err)
		return
	}

	response.OK(c, h.newAllocateResp(output))
}

// SaveResolution godoc
// @Summary     Save a conflict resolution
// @Description Records how the user resolved one conflicting pair (ignored, rescheduled or deleted).
// @Tags        Schedule
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string            true "Caller user id"
// @Param       body      body   saveResolutionReq true "Resolution"
// @Success     200 {object} response.Resp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/schedule/resolutions [POST]
func (h *handler) SaveResolution(c *gin.Context) {
	ctx := c.Request.Context()
	sc := middleware.GetScope(c)

	req, err := h.processSaveResolutionReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	if err := h.uc.SaveResolution(ctx, sc, req.toInput()); err != nil {
		h.l.Errorf(ctx, "schedule.delivery.http.SaveResolution: uc.SaveResolution: %v", err)
		h.mapError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListIgnored godoc
// @Summary     List ignored conflict pairs
// @Description Returns the canonical pair ids the caller chose to ignore.
// @Tags        Schedule
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string true "Caller user id"
// @Success     200 {object} ignoredResp
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/schedule/resolutions/ignored [GET]
func (h *handler) ListIgnored(c *gin.Context) {
	ctx := c.Request.Context()
	sc := middleware.GetScope(c)

	ignored, err := h.uc.IgnoredPairs(ctx, sc)
	if err != nil {
		h.l.Errorf(ctx, "schedule.delivery.http.ListIgnored: uc.IgnoredPairs: %v", err)
		h.mapError(c, err)
		return
	}

	pairs := make([]string, 0, len(ignored))
	for pair := range ignored {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)

	response.OK(c, ignoredResp{Pairs: pairs, Count: len(pairs)})
}
