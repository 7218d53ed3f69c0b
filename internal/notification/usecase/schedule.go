package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"study-scheduler/internal/model"
	"study-scheduler/internal/notification"
	"study-scheduler/internal/notification/repository"
)

func (uc *implUseCase) Schedule(ctx context.Context, sc model.Scope, input notification.ScheduleInput) (model.ScheduledNotification, error) {
	if input.Title == "" {
		return model.ScheduledNotification{}, notification.ErrEmptyTitle
	}
	if input.ScheduledFor.IsZero() {
		return model.ScheduledNotification{}, notification.ErrZeroScheduleTime
	}
	if input.Recurring != nil && !input.Recurring.Frequency.Valid() {
		return model.ScheduledNotification{}, notification.ErrInvalidFrequency
	}

	n := model.ScheduledNotification{
		ID:           uuid.NewString(),
		UserID:       sc.UserID,
		Title:        input.Title,
		Message:      input.Message,
		Type:         input.Type,
		Link:         input.Link,
		ScheduledFor: input.ScheduledFor,
		Status:       model.NotificationPending,
		Recurring:    input.Recurring,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := uc.repo.Insert(ctx, n); err != nil {
		uc.l.Errorf(ctx, "notification.usecase.Schedule.Insert: %v", err)
		return model.ScheduledNotification{}, err
	}

	return n, nil
}

func (uc *implUseCase) List(ctx context.Context, sc model.Scope, input notification.ListInput) (notification.ListOutput, error) {
	list, err := uc.repo.List(ctx, repository.ListOptions{
		UserID: sc.UserID,
		Status: input.Status,
		Limit:  input.Limit,
	})
	if err != nil {
		uc.l.Errorf(ctx, "notification.usecase.List.List: %v", err)
		return notification.ListOutput{}, err
	}

	return notification.ListOutput{
		Notifications: list,
		Count:         len(list),
	}, nil
}

func (uc *implUseCase) Cancel(ctx context.Context, sc model.Scope, id string) error {
	n, err := uc.repo.Get(ctx, id)
	if err != nil {
		uc.l.Errorf(ctx, "notification.usecase.Cancel.Get: %v", err)
		return err
	}
	// Zero-value means missing; a foreign record is indistinguishable
	// from a missing one to the caller.
	if n.ID == "" || n.UserID != sc.UserID {
		return notification.ErrNotFound
	}
	if n.Status != model.NotificationPending {
		return notification.ErrNotPending
	}

	ok, err := uc.repo.TransitionStatus(ctx, id, model.NotificationPending, model.NotificationCancelled)
	if err != nil {
		uc.l.Errorf(ctx, "notification.usecase.Cancel.TransitionStatus: %v", err)
		return err
	}
	if !ok {
		// A dispatch cycle delivered the record between the read and the
		// swap. Terminal either way; cancellation is a no-op.
		uc.l.Debugf(ctx, "Cancel: %s reached a terminal state concurrently", id)
	}

	return nil
}
