package notification

import (
	"context"
	"time"

	"study-scheduler/internal/model"
)

// UseCase defines the business logic interface for scheduled
// notifications and their recurring dispatch.
type UseCase interface {
	// Schedule creates a new pending notification.
	Schedule(ctx context.Context, sc model.Scope, input ScheduleInput) (model.ScheduledNotification, error)

	// List returns the caller's scheduled notifications.
	List(ctx context.Context, sc model.Scope, input ListInput) (ListOutput, error)

	// Cancel transitions a pending notification to cancelled. Losing a
	// race against a concurrent dispatch is not an error: the record
	// already reached a terminal state.
	Cancel(ctx context.Context, sc model.Scope, id string) error

	// RunDispatchCycle delivers every due pending notification exactly
	// once and spawns successors for recurring ones. Per-item failures
	// are collected in the result, never aborting the batch.
	RunDispatchCycle(ctx context.Context, now time.Time) (CycleResult, error)
}
