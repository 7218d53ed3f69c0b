package repository

import "study-scheduler/internal/model"

// ListOptions holds the parameters for listing scheduled notifications.
type ListOptions struct {
	UserID string
	Status model.NotificationStatus // optional: filter by status
	Limit  int                      // max results (default 50)
}
