package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"study-scheduler/internal/model"
	"study-scheduler/internal/schedule"
)

func TestSaveResolution(t *testing.T) {
	sc := model.Scope{UserID: "u1"}

	t.Run("persists canonical pair id", func(t *testing.T) {
		repo := &mockResolutionRepo{}
		uc := newUseCase(t, repo)

		err := uc.SaveResolution(context.Background(), sc, schedule.SaveResolutionInput{
			Item1ID: "zebra",
			Item2ID: "apple",
			Type:    schedule.ResolutionIgnored,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.saved) != 1 {
			t.Fatalf("expected 1 save, got %d", len(repo.saved))
		}
		if repo.saved[0].PairID != "apple_zebra" {
			t.Errorf("expected sorted pair id apple_zebra, got %s", repo.saved[0].PairID)
		}
		if repo.saved[0].UserID != "u1" {
			t.Errorf("expected user scoping, got %s", repo.saved[0].UserID)
		}
	})

	t.Run("invalid type", func(t *testing.T) {
		uc := newUseCase(t, &mockResolutionRepo{})
		err := uc.SaveResolution(context.Background(), sc, schedule.SaveResolutionInput{
			Item1ID: "a", Item2ID: "b", Type: "postponed",
		})
		if !errors.Is(err, schedule.ErrInvalidResolution) {
			t.Errorf("expected ErrInvalidResolution, got %v", err)
		}
	})

	t.Run("pair must be two distinct items", func(t *testing.T) {
		uc := newUseCase(t, &mockResolutionRepo{})
		err := uc.SaveResolution(context.Background(), sc, schedule.SaveResolutionInput{
			Item1ID: "a", Item2ID: "a", Type: schedule.ResolutionIgnored,
		})
		if !errors.Is(err, schedule.ErrSamePairItem) {
			t.Errorf("expected ErrSamePairItem, got %v", err)
		}
		err = uc.SaveResolution(context.Background(), sc, schedule.SaveResolutionInput{
			Item1ID: "", Item2ID: "b", Type: schedule.ResolutionIgnored,
		})
		if !errors.Is(err, schedule.ErrSamePairItem) {
			t.Errorf("expected ErrSamePairItem for empty id, got %v", err)
		}
	})

	t.Run("invalidates the cached ignore set", func(t *testing.T) {
		repo := &mockResolutionRepo{}
		uc := newUseCase(t, repo)
		ctx := context.Background()

		if _, err := uc.IgnoredPairs(ctx, sc); err != nil {
			t.Fatalf("warm-up load: %v", err)
		}
		if _, err := uc.IgnoredPairs(ctx, sc); err != nil {
			t.Fatalf("cached load: %v", err)
		}
		if repo.listCalls != 1 {
			t.Fatalf("expected the second load served from cache, got %d repo calls", repo.listCalls)
		}

		err := uc.SaveResolution(ctx, sc, schedule.SaveResolutionInput{
			Item1ID: "a", Item2ID: "b", Type: schedule.ResolutionIgnored,
		})
		if err != nil {
			t.Fatalf("save: %v", err)
		}

		set, err := uc.IgnoredPairs(ctx, sc)
		if err != nil {
			t.Fatalf("reload: %v", err)
		}
		if repo.listCalls != 2 {
			t.Errorf("expected a fresh repo load after save, got %d calls", repo.listCalls)
		}
		if _, ok := set[schedule.PairID("a", "b")]; !ok {
			t.Errorf("expected the new pair in the reloaded set, got %v", set)
		}
	})

	t.Run("end to end: ignoring a pair hides its cluster", func(t *testing.T) {
		repo := &mockResolutionRepo{}
		uc := newUseCase(t, repo)
		ctx := context.Background()

		input := schedule.DetectInput{
			Items: schedule.NormalizeInput{Events: []schedule.EventItem{
				timedEvent("event1", "2026-03-10T10:00:00Z", "2026-03-10T11:00:00Z"),
				timedEvent("event2", "2026-03-10T10:30:00Z", "2026-03-10T11:30:00Z"),
			}},
			Window: schedule.Window{
				Start: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
				End:   time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
			},
		}

		out, err := uc.Detect(ctx, sc, input)
		if err != nil {
			t.Fatalf("first detect: %v", err)
		}
		if len(out.Clusters) != 1 {
			t.Fatalf("expected 1 cluster before ignoring, got %d", len(out.Clusters))
		}

		err = uc.SaveResolution(ctx, sc, schedule.SaveResolutionInput{
			Item1ID: "event1", Item2ID: "event2", Type: schedule.ResolutionIgnored,
		})
		if err != nil {
			t.Fatalf("save resolution: %v", err)
		}

		out, err = uc.Detect(ctx, sc, input)
		if err != nil {
			t.Fatalf("second detect: %v", err)
		}
		if len(out.Clusters) != 0 {
			t.Errorf("expected the ignored cluster suppressed, got %d", len(out.Clusters))
		}
	})
}
