package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"study-scheduler/internal/model"
	"study-scheduler/internal/notification"
)

// --- Request DTOs ---

type recurringReq struct {
	Frequency string     `json:"frequency" binding:"required"`
	EndDate   *time.Time `json:"end_date"`
}

type scheduleReq struct {
	Title        string        `json:"title"         binding:"required,max=255"`
	Message      string        `json:"message"       binding:"max=2000"`
	Type         string        `json:"type"`
	Link         string        `json:"link"`
	ScheduledFor time.Time     `json:"scheduled_for" binding:"required"`
	Recurring    *recurringReq `json:"recurring"`
}

func (r scheduleReq) toInput() notification.ScheduleInput {
	input := notification.ScheduleInput{
		Title:        r.Title,
		Message:      r.Message,
		Type:         r.Type,
		Link:         r.Link,
		ScheduledFor: r.ScheduledFor,
	}
	if r.Recurring != nil {
		input.Recurring = &model.Recurrence{
			Frequency: model.Frequency(r.Recurring.Frequency),
			EndDate:   r.Recurring.EndDate,
		}
	}
	return input
}

func (h *handler) processScheduleReq(c *gin.Context) (scheduleReq, error) {
	var req scheduleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return scheduleReq{}, err
	}
	return req, nil
}

type listReq struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
}

func (r listReq) toInput() notification.ListInput {
	limit := r.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return notification.ListInput{
		Status: model.NotificationStatus(r.Status),
		Limit:  limit,
	}
}

func (h *handler) processListReq(c *gin.Context) (listReq, error) {
	var req listReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return listReq{}, err
	}
	return req, nil
}

// --- Response DTOs ---

type scheduledResp struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Message      string            `json:"message,omitempty"`
	Type         string            `json:"type,omitempty"`
	Link         string            `json:"link,omitempty"`
	ScheduledFor time.Time         `json:"scheduled_for"`
	Status       string            `json:"status"`
	Recurring    *model.Recurrence `json:"recurring,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

func newScheduledResp(n model.ScheduledNotification) scheduledResp {
	return scheduledResp{
		ID:           n.ID,
		Title:        n.Title,
		Message:      n.Message,
		Type:         n.Type,
		Link:         n.Link,
		ScheduledFor: n.ScheduledFor,
		Status:       string(n.Status),
		Recurring:    n.Recurring,
		CreatedAt:    n.CreatedAt,
	}
}

type listResp struct {
	Notifications []scheduledResp `json:"notifications"`
	Count         int             `json:"count"`
}

func (h *handler) newListResp(out notification.ListOutput) listResp {
	notifications := make([]scheduledResp, len(out.Notifications))
	for i, n := range out.Notifications {
		notifications[i] = newScheduledResp(n)
	}
	return listResp{
		Notifications: notifications,
		Count:         out.Count,
	}
}

type cycleResp struct {
	Delivered        int                      `json:"delivered"`
	RecurringSpawned int                      `json:"recurring_spawned"`
	Errors           []notification.ItemError `json:"errors,omitempty"`
}

func (h *handler) newCycleResp(result notification.CycleResult) cycleResp {
	return cycleResp{
		Delivered:        result.Delivered,
		RecurringSpawned: result.RecurringSpawned,
		Errors:           result.Errors,
	}
}
