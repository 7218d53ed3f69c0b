package usecase_test

import (
	"context"
	"testing"
	"time"

	"study-scheduler/internal/model"
	"study-scheduler/internal/schedule"
)

func TestNormalize(t *testing.T) {
	ctx := context.Background()

	t.Run("task slots become intervals", func(t *testing.T) {
		uc := newUseCase(t, &mockResolutionRepo{})
		out := uc.Normalize(ctx, schedule.NormalizeInput{
			Tasks: []schedule.TaskItem{{
				ID:    "t1",
				Title: "essay",
				TimeSlots: []schedule.TimeSlot{
					{StartDate: "2026-03-10T09:00:00Z", EndDate: "2026-03-10T10:00:00Z"},
					{StartDate: "2026-03-11T09:00:00Z"},
				},
			}},
		})
		if len(out.Intervals) != 2 {
			t.Fatalf("expected 2 intervals, got %d", len(out.Intervals))
		}
		first := out.Intervals[0]
		if first.Kind != model.KindTask || first.End == nil {
			t.Errorf("unexpected first interval: %+v", first)
		}
		second := out.Intervals[1]
		if second.End != nil {
			t.Errorf("slot without end must be a point, got end %v", second.End)
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		uc := newUseCase(t, &mockResolutionRepo{})
		out := uc.Normalize(ctx, schedule.NormalizeInput{
			Tasks: []schedule.TaskItem{{
				ID:        "t1",
				TimeSlots: []schedule.TimeSlot{{StartDate: "2026-03-10T09:00:00Z"}},
			}},
		})
		if len(out.Intervals) != 1 {
			t.Fatalf("expected 1 interval, got %d", len(out.Intervals))
		}
		iv := out.Intervals[0]
		if iv.Source != model.SourceManual {
			t.Errorf("expected manual source default, got %s", iv.Source)
		}
		if iv.Priority != model.PriorityMedium {
			t.Errorf("expected medium priority default, got %s", iv.Priority)
		}
	})

	t.Run("malformed timestamp drops item with warning", func(t *testing.T) {
		uc := newUseCase(t, &mockResolutionRepo{})
		out := uc.Normalize(ctx, schedule.NormalizeInput{
			Events: []schedule.EventItem{
				{ID: "bad", Name: "bad", StartTime: "not-a-time"},
				{ID: "good", Name: "good", StartTime: "2026-03-10T09:00:00Z", EndTime: "2026-03-10T10:00:00Z"},
			},
		})
		if len(out.Intervals) != 1 || out.Intervals[0].ID != "good" {
			t.Errorf("expected only the good event, got %+v", out.Intervals)
		}
		if len(out.Warnings) != 1 {
			t.Fatalf("expected 1 warning, got %d", len(out.Warnings))
		}
		w := out.Warnings[0]
		if w.ItemID != "bad" || w.Field != "start_time" || w.Value != "not-a-time" {
			t.Errorf("unexpected warning: %+v", w)
		}
	})

	t.Run("inverted bounds corrected to zero duration", func(t *testing.T) {
		uc := newUseCase(t, &mockResolutionRepo{})
		out := uc.Normalize(ctx, schedule.NormalizeInput{
			Events: []schedule.EventItem{{
				ID: "e1", Name: "e1",
				StartTime: "2026-03-10T10:00:00Z",
				EndTime:   "2026-03-10T09:00:00Z",
			}},
		})
		if len(out.Intervals) != 1 {
			t.Fatalf("expected 1 interval, got %d", len(out.Intervals))
		}
		iv := out.Intervals[0]
		if iv.End == nil || !iv.End.Equal(iv.Start) {
			t.Errorf("expected end clamped to start, got %+v", iv)
		}
	})

	t.Run("external all-day exclusive end converted to inclusive", func(t *testing.T) {
		uc := newUseCase(t, &mockResolutionRepo{})
		out := uc.Normalize(ctx, schedule.NormalizeInput{
			Events: []schedule.EventItem{{
				ID: "trip", Name: "trip",
				StartTime: "2026-03-10", EndTime: "2026-03-12",
				IsAllDay: true, Source: model.SourceExternalCalendar,
			}},
		})
		if len(out.Intervals) != 1 {
			t.Fatalf("expected 1 interval, got %d", len(out.Intervals))
		}
		if got := out.Intervals[0].EndDate(); got != "2026-03-11" {
			t.Errorf("expected inclusive end 2026-03-11, got %s", got)
		}
	})

	t.Run("manual all-day end kept as-is", func(t *testing.T) {
		uc := newUseCase(t, &mockResolutionRepo{})
		out := uc.Normalize(ctx, schedule.NormalizeInput{
			Events: []schedule.EventItem{{
				ID: "fair", Name: "fair",
				StartTime: "2026-03-10", EndTime: "2026-03-11",
				IsAllDay: true,
			}},
		})
		if got := out.Intervals[0].EndDate(); got != "2026-03-11" {
			t.Errorf("manual all-day end must not shift, got %s", got)
		}
	})

	t.Run("session derives end from duration", func(t *testing.T) {
		uc := newUseCase(t, &mockResolutionRepo{})
		out := uc.Normalize(ctx, schedule.NormalizeInput{
			Sessions: []schedule.SessionItem{
				{ID: "s1", Subject: "math", ScheduledFor: "2026-03-10T16:00:00Z", DurationMinutes: 90},
				{ID: "s2", Subject: "bio", ScheduledFor: "2026-03-10T19:00:00Z"},
			},
		})
		if len(out.Intervals) != 2 {
			t.Fatalf("expected 2 intervals, got %d", len(out.Intervals))
		}
		want1 := time.Date(2026, 3, 10, 17, 30, 0, 0, time.UTC)
		if !out.Intervals[0].End.Equal(want1) {
			t.Errorf("expected 90m session end %s, got %s", want1, out.Intervals[0].End)
		}
		want2 := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
		if !out.Intervals[1].End.Equal(want2) {
			t.Errorf("expected default 60m session end %s, got %s", want2, out.Intervals[1].End)
		}
	})

	t.Run("deadline surfaces as point, external midnight is all-day", func(t *testing.T) {
		uc := newUseCase(t, &mockResolutionRepo{})
		out := uc.Normalize(ctx, schedule.NormalizeInput{
			Tasks: []schedule.TaskItem{
				{ID: "t1", Title: "essay", Deadline: "2026-03-10T17:00:00Z"},
				{ID: "t2", Title: "reading", Deadline: "2026-03-11T00:00:00Z", Source: model.SourceExternalCalendar},
			},
		})
		if len(out.Intervals) != 0 {
			t.Errorf("deadline-only tasks must not produce intervals, got %d", len(out.Intervals))
		}
		if len(out.Deadlines) != 2 {
			t.Fatalf("expected 2 deadline points, got %d", len(out.Deadlines))
		}
		if out.Deadlines[0].AllDay {
			t.Errorf("timed deadline must not be all-day")
		}
		if !out.Deadlines[1].AllDay {
			t.Errorf("external midnight deadline must be all-day")
		}
	})

	t.Run("offset-less timestamps use the configured timezone", func(t *testing.T) {
		loc := time.FixedZone("ICT", 7*3600)
		uc := newUseCaseIn(t, loc)
		out := uc.Normalize(ctx, schedule.NormalizeInput{
			Events: []schedule.EventItem{{
				ID: "e1", Name: "e1", StartTime: "2026-03-10T09:00:00",
			}},
		})
		if len(out.Intervals) != 1 {
			t.Fatalf("expected 1 interval, got %d", len(out.Intervals))
		}
		want := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)
		if !out.Intervals[0].Start.Equal(want) {
			t.Errorf("expected %s, got %s", want, out.Intervals[0].Start)
		}
	})
}
