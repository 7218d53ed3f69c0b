package model

import "time"

// NotificationStatus is the lifecycle state of a scheduled notification.
// delivered and cancelled are terminal; only pending records are
// eligible for dispatch.
type NotificationStatus string

const (
	NotificationPending   NotificationStatus = "pending"
	NotificationDelivered NotificationStatus = "delivered"
	NotificationCancelled NotificationStatus = "cancelled"
)

// Frequency of a recurring notification.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Recurrence produces a successor notification at a fixed frequency
// until the optional end date.
type Recurrence struct {
	Frequency Frequency  `json:"frequency"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// ScheduledNotification is a notification waiting for its dispatch time.
// A pending recurring notification that fires spawns a new pending
// record for the next occurrence; the original becomes delivered and is
// retained as history.
type ScheduledNotification struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	Title        string             `json:"title"`
	Message      string             `json:"message"`
	Type         string             `json:"type"`
	Link         string             `json:"link,omitempty"`
	ScheduledFor time.Time          `json:"scheduled_for"`
	Status       NotificationStatus `json:"status"`
	Recurring    *Recurrence        `json:"recurring,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// Notification is the in-app artifact created when a scheduled
// notification is delivered. This is the authoritative side effect of a
// dispatch; push delivery is best-effort on top.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
