package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"study-scheduler/internal/model"
	"study-scheduler/internal/notification"
)

// RunDispatchCycle processes every due pending notification. Items are
// independent: each runs on the worker pool with its own error
// collection, and no failure aborts a sibling.
//
// Exactly-once delivery across overlapping cycles rests on claiming the
// record first: the conditional pending -> delivered transition has one
// winner, and a loser walks away treating the item as already handled.
func (uc *implUseCase) RunDispatchCycle(ctx context.Context, now time.Time) (notification.CycleResult, error) {
	due, err := uc.repo.ListDue(ctx, now)
	if err != nil {
		return notification.CycleResult{}, fmt.Errorf("failed to query due notifications: %w", err)
	}
	if len(due) == 0 {
		return notification.CycleResult{}, nil
	}

	uc.l.Infof(ctx, "RunDispatchCycle: %d due notifications at %s", len(due), now.Format(time.RFC3339))

	var (
		mu     sync.Mutex
		result notification.CycleResult
		wg     sync.WaitGroup
		sem    = make(chan struct{}, uc.workers)
	)

	for _, n := range due {
		wg.Add(1)
		sem <- struct{}{}
		go func(n model.ScheduledNotification) {
			defer wg.Done()
			defer func() { <-sem }()

			delivered, spawned, itemErr := uc.processOne(ctx, n)

			mu.Lock()
			defer mu.Unlock()
			if delivered {
				result.Delivered++
			}
			if spawned {
				result.RecurringSpawned++
			}
			if itemErr != nil {
				result.Errors = append(result.Errors, notification.ItemError{
					NotificationID: n.ID,
					Reason:         itemErr.Error(),
				})
			}
		}(n)
	}
	wg.Wait()

	uc.l.Infof(ctx, "RunDispatchCycle: delivered=%d recurring_spawned=%d errors=%d",
		result.Delivered, result.RecurringSpawned, len(result.Errors))

	return result, nil
}

// processOne handles a single due notification: claim, record in-app,
// push best-effort, spawn the recurring successor.
func (uc *implUseCase) processOne(ctx context.Context, n model.ScheduledNotification) (delivered, spawned bool, err error) {
	claimed, err := uc.repo.TransitionStatus(ctx, n.ID, model.NotificationPending, model.NotificationDelivered)
	if err != nil {
		return false, false, fmt.Errorf("claim failed: %w", err)
	}
	if !claimed {
		// Another cycle, or a concurrent cancellation, got there first.
		// The record is terminal either way: nothing left to do.
		uc.l.Debugf(ctx, "processOne: %s already handled, skipping", n.ID)
		return false, false, nil
	}

	if _, insertErr := uc.repo.InsertInApp(ctx, model.Notification{
		ID:        uuid.NewString(),
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Link:      n.Link,
		CreatedAt: time.Now().UTC(),
	}); insertErr != nil {
		// The claim already landed; report the lost artifact but keep
		// going so a recurring series is not silently broken.
		err = fmt.Errorf("in-app insert failed: %w", insertErr)
	}

	uc.sendPush(ctx, n)

	spawned, spawnErr := uc.spawnNext(ctx, n)
	if spawnErr != nil && err == nil {
		err = spawnErr
	}

	return true, spawned, err
}

// sendPush is best-effort. A user without registered push-enabled
// devices simply gets no push; transport failures are logged, never
// propagated.
func (uc *implUseCase) sendPush(ctx context.Context, n model.ScheduledNotification) {
	if uc.push == nil {
		return
	}

	tokens, err := uc.repo.DeviceTokens(ctx, n.UserID)
	if err != nil {
		uc.l.Warnf(ctx, "sendPush: token lookup failed for %s (non-fatal): %v", n.ID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	data := map[string]string{"type": n.Type, "link": n.Link}
	if err := uc.push.Deliver(ctx, tokens, n.Title, n.Message, data); err != nil {
		uc.l.Warnf(ctx, "sendPush: delivery failed for %s (non-fatal): %v", n.ID, err)
	}
}

// spawnNext creates the successor record for a recurring notification.
// The next time is computed from the original scheduledFor, and no
// child is spawned past the recurrence end date.
func (uc *implUseCase) spawnNext(ctx context.Context, n model.ScheduledNotification) (bool, error) {
	if n.Recurring == nil {
		return false, nil
	}

	next, err := NextOccurrence(n.ScheduledFor, n.Recurring.Frequency)
	if err != nil {
		return false, fmt.Errorf("next occurrence: %w", err)
	}
	if n.Recurring.EndDate != nil && next.After(*n.Recurring.EndDate) {
		return false, nil
	}

	child := n
	child.ID = uuid.NewString()
	child.ScheduledFor = next
	child.Status = model.NotificationPending
	child.CreatedAt = time.Now().UTC()

	if _, err := uc.repo.Insert(ctx, child); err != nil {
		return false, fmt.Errorf("spawn insert failed: %w", err)
	}

	uc.l.Debugf(ctx, "spawnNext: %s -> %s at %s", n.ID, child.ID, next.Format(time.RFC3339))
	return true, nil
}
