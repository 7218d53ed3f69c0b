package notification

import (
	"time"

	"study-scheduler/internal/model"
)

// ScheduleInput creates a new pending scheduled notification.
type ScheduleInput struct {
	Title        string
	Message      string
	Type         string
	Link         string
	ScheduledFor time.Time
	Recurring    *model.Recurrence
}

// ListInput filters the caller's scheduled notifications.
type ListInput struct {
	Status model.NotificationStatus // optional
	Limit  int
}

// ListOutput is the scheduled-notification listing result.
type ListOutput struct {
	Notifications []model.ScheduledNotification
	Count         int
}

// ItemError is a per-notification dispatch failure. Failures are
// collected, never allowed to abort sibling processing.
type ItemError struct {
	NotificationID string `json:"notification_id"`
	Reason         string `json:"reason"`
}

// CycleResult summarizes one dispatch cycle.
type CycleResult struct {
	Delivered        int         `json:"delivered"`
	RecurringSpawned int         `json:"recurring_spawned"`
	Errors           []ItemError `json:"errors,omitempty"`
}
