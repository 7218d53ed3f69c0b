package notification

import "errors"

// Domain-specific errors for the notification package.
var (
	ErrEmptyTitle       = errors.New("notification title is empty")
	ErrZeroScheduleTime = errors.New("scheduled time is not set")
	ErrInvalidFrequency = errors.New("unknown recurrence frequency")
	ErrNotFound         = errors.New("scheduled notification not found")
	ErrNotPending       = errors.New("notification is not pending")
)
