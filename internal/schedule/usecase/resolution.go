package usecase

import (
	"context"
	"fmt"

	"study-scheduler/internal/model"
	"study-scheduler/internal/schedule"
	"study-scheduler/internal/schedule/repository"
)

// SaveResolution persists a user decision about one conflicting pair
// and invalidates the cached ignore set for that user.
func (uc *implUseCase) SaveResolution(ctx context.Context, sc model.Scope, input schedule.SaveResolutionInput) error {
	if !input.Type.Valid() {
		return schedule.ErrInvalidResolution
	}
	if input.Item1ID == "" || input.Item2ID == "" || input.Item1ID == input.Item2ID {
		return schedule.ErrSamePairItem
	}

	pairID := schedule.PairID(input.Item1ID, input.Item2ID)
	err := uc.repo.SaveResolution(ctx, repository.SaveResolutionOptions{
		UserID:         sc.UserID,
		PairID:         pairID,
		Item1ID:        input.Item1ID,
		Item2ID:        input.Item2ID,
		ResolutionType: string(input.Type),
	})
	if err != nil {
		return fmt.Errorf("failed to save resolution: %w", err)
	}

	uc.ignored.Remove(sc.UserID)
	uc.l.Infof(ctx, "SaveResolution: user=%s pair=%s type=%s", sc.UserID, pairID, input.Type)
	return nil
}

// IgnoredPairs returns the user's ignored pair ids, serving repeated
// detect calls from the cache.
func (uc *implUseCase) IgnoredPairs(ctx context.Context, sc model.Scope) (map[string]struct{}, error) {
	if cached, ok := uc.ignored.Get(sc.UserID); ok {
		return cached, nil
	}

	pairIDs, err := uc.repo.ListIgnoredPairIDs(ctx, sc.UserID)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(pairIDs))
	for _, id := range pairIDs {
		set[id] = struct{}{}
	}
	uc.ignored.Add(sc.UserID, set)
	return set, nil
}
