package http

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"study-scheduler/internal/middleware"
	"study-scheduler/pkg/response"
)

// Schedule godoc
// @Summary     Schedule a notification
// @Description Creates a pending notification to be dispatched at its scheduled time, optionally recurring.
// @Tags        Notifications
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string      true "Caller user id"
// @Param       body      body   scheduleReq true "Notification"
// @Success     200 {object} scheduledResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/notifications/scheduled [POST]
func (h *handler) Schedule(c *gin.Context) {
	ctx := c.Request.Context()
	sc := middleware.GetScope(c)

	req, err := h.processScheduleReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	created, err := h.uc.Schedule(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "notification.delivery.http.Schedule: uc.Schedule: %v", err)
		h.mapError(c, err)
		return
	}

	response.OK(c, newScheduledResp(created))
}

// List godoc
// @Summary     List scheduled notifications
// @Description Returns the caller's scheduled notifications, optionally filtered by status.
// @Tags        Notifications
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string true  "Caller user id"
// @Param       status    query  string false "Filter by status (pending/delivered/cancelled)"
// @Param       limit     query  int    false "Page size (default: 50)"
// @Success     200 {object} listResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/notifications/scheduled [GET]
func (h *handler) List(c *gin.Context) {
	ctx := c.Request.Context()
	sc := middleware.GetScope(c)

	req, err := h.processListReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.List(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "notification.delivery.http.List: uc.List: %v", err)
		h.mapError(c, err)
		return
	}

	response.OK(c, h.newListResp(output))
}

// Cancel godoc
// @Summary     Cancel a scheduled notification
// @Description Transitions a pending notification to cancelled. Already delivered or cancelled records are a conflict.
// @Tags        Notifications
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string true "Caller user id"
// @Param       id        path   string true "Scheduled notification id"
// @Success     200 {object} response.Resp
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     409 {object} response.Resp "Conflict - not pending"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/notifications/scheduled/{id} [DELETE]
func (h *handler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()
	sc := middleware.GetScope(c)

	id := c.Param("id")
	if id == "" {
		response.Error(c, errors.New("id is required"), nil)
		return
	}

	if err := h.uc.Cancel(ctx, sc, id); err != nil {
		h.l.Errorf(ctx, "notification.delivery.http.Cancel: uc.Cancel: %v", err)
		h.mapError(c, err)
		return
	}

	response.OK(c, nil)
}

// RunDispatch godoc
// @Summary     Run a dispatch cycle
// @Description Manually triggers one dispatch cycle over all due pending notifications. Internal use only.
// @Tags        Internal
// @Accept      json
// @Produce     json
// @Param       X-Internal-Key header string true "Internal API key"
// @Success     200 {object} cycleResp
// @Failure     401 {object} response.Resp "Unauthorized"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /internal/dispatch/run [POST]
func (h *handler) RunDispatch(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.uc.RunDispatchCycle(ctx, time.Now())
	if err != nil {
		h.l.Errorf(ctx, "notification.delivery.http.RunDispatch: uc.RunDispatchCycle: %v", err)
		h.mapError(c, err)
		return
	}

	response.OK(c, h.newCycleResp(result))
}
