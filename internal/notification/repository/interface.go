package repository

import (
	"context"
	"time"

	"study-scheduler/internal/model"
)

// Repository is the persistence interface for scheduled notifications,
// their delivered in-app artifacts, and device push registrations.
//
// The store is assumed to provide field-equality queries, per-record
// conditional updates, and batched writes. No cross-record transactions
// are required: exactly-once dispatch rests entirely on
// TransitionStatus's compare-and-swap semantics.
type Repository interface {
	Insert(ctx context.Context, n model.ScheduledNotification) (string, error)
	Get(ctx context.Context, id string) (model.ScheduledNotification, error)
	List(ctx context.Context, opt ListOptions) ([]model.ScheduledNotification, error)

	// ListDue returns pending notifications with scheduledFor <= now.
	ListDue(ctx context.Context, now time.Time) ([]model.ScheduledNotification, error)

	// TransitionStatus atomically moves a record from `from` to `to`.
	// Returns false without error when the record is no longer in
	// `from`: the concurrent winner already handled it.
	TransitionStatus(ctx context.Context, id string, from, to model.NotificationStatus) (bool, error)

	BatchDelete(ctx context.Context, ids []string) error

	// InsertInApp records the delivered in-app notification artifact.
	InsertInApp(ctx context.Context, n model.Notification) (string, error)

	// DeviceTokens returns the user's push-enabled device tokens.
	DeviceTokens(ctx context.Context, userID string) ([]string, error)
}
