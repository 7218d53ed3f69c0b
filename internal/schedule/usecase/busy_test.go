package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"study-scheduler/internal/model"
	"study-scheduler/internal/schedule/usecase"
)

type mockCalendar struct {
	windows []model.BusyWindow
	fail    bool
	calls   int
}

func (m *mockCalendar) FreeBusy(ctx context.Context, calendarID string, from, to time.Time) ([]model.BusyWindow, error) {
	m.calls++
	if m.fail {
		return nil, errors.New("calendar error")
	}
	return m.windows, nil
}

type mockFeed struct {
	windows []model.BusyWindow
	fail    bool
}

func (m *mockFeed) BusyWindows(ctx context.Context, feedURL string, from, to time.Time) ([]model.BusyWindow, error) {
	if m.fail {
		return nil, errors.New("feed error")
	}
	return m.windows, nil
}

func TestCollectBusy(t *testing.T) {
	sc := model.Scope{UserID: "u1"}
	// Mon 2026-03-02 .. Wed 2026-03-04
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	countLabel := func(windows []model.BusyWindow, label string) int {
		n := 0
		for _, w := range windows {
			if w.Label == label {
				n++
			}
		}
		return n
	}

	t.Run("recurring soft windows expand over the range", func(t *testing.T) {
		uc, err := usecase.New(&mockLogger{}, &mockResolutionRepo{}, nil, nil, usecase.Config{Timezone: time.UTC})
		if err != nil {
			t.Fatalf("usecase.New: %v", err)
		}

		windows, err := uc.CollectBusy(context.Background(), sc, from, to)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Mon and Tue are school days inside the range.
		if got := countLabel(windows, usecase.LabelSchoolHours); got != 2 {
			t.Errorf("expected 2 school windows, got %d", got)
		}
		// Sun, Mon and Tue nights all intersect the range.
		if got := countLabel(windows, usecase.LabelSleep); got != 3 {
			t.Errorf("expected 3 sleep windows, got %d", got)
		}
		for _, w := range windows {
			if w.Hard {
				t.Errorf("recurring window %s must be soft", w.Label)
			}
		}
	})

	t.Run("weekend has no school window", func(t *testing.T) {
		uc, err := usecase.New(&mockLogger{}, &mockResolutionRepo{}, nil, nil, usecase.Config{Timezone: time.UTC})
		if err != nil {
			t.Fatalf("usecase.New: %v", err)
		}

		sat := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
		sun := time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC)
		windows, err := uc.CollectBusy(context.Background(), sc, sat, sun)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := countLabel(windows, usecase.LabelSchoolHours); got != 0 {
			t.Errorf("expected no school windows on a weekend, got %d", got)
		}
	})

	t.Run("overnight sleep covers the morning after", func(t *testing.T) {
		uc, err := usecase.New(&mockLogger{}, &mockResolutionRepo{}, nil, nil, usecase.Config{Timezone: time.UTC})
		if err != nil {
			t.Fatalf("usecase.New: %v", err)
		}

		// A range starting at 05:00 must still be covered by the sleep
		// window that began at 22:00 the previous night.
		morning := time.Date(2026, 3, 2, 5, 0, 0, 0, time.UTC)
		windows, err := uc.CollectBusy(context.Background(), sc, morning, morning.Add(4*time.Hour))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		found := false
		for _, w := range windows {
			if w.Label == usecase.LabelSleep && !w.Start.After(morning) && w.End.After(morning) {
				found = true
			}
		}
		if !found {
			t.Error("expected the overnight sleep window to cover 05:00")
		}
	})

	t.Run("merges calendar and feed windows", func(t *testing.T) {
		cal := &mockCalendar{windows: []model.BusyWindow{
			{Start: from.Add(10 * time.Hour), End: from.Add(11 * time.Hour), Hard: true, Label: "calendar"},
		}}
		feed := &mockFeed{windows: []model.BusyWindow{
			{Start: from.Add(16 * time.Hour), End: from.Add(17 * time.Hour), Hard: true, Label: "feed"},
		}}
		uc, err := usecase.New(&mockLogger{}, &mockResolutionRepo{}, cal, feed, usecase.Config{
			CalendarID: "primary",
			FeedURL:    "https://school.example/timetable.ics",
			Timezone:   time.UTC,
		})
		if err != nil {
			t.Fatalf("usecase.New: %v", err)
		}

		windows, err := uc.CollectBusy(context.Background(), sc, from, to)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if countLabel(windows, "calendar") != 1 || countLabel(windows, "feed") != 1 {
			t.Errorf("expected calendar and feed windows present, got %+v", windows)
		}
		if cal.calls != 1 {
			t.Errorf("expected 1 calendar call, got %d", cal.calls)
		}
	})

	t.Run("calendar failure is fatal", func(t *testing.T) {
		uc, err := usecase.New(&mockLogger{}, &mockResolutionRepo{}, &mockCalendar{fail: true}, nil, usecase.Config{
			CalendarID: "primary",
			Timezone:   time.UTC,
		})
		if err != nil {
			t.Fatalf("usecase.New: %v", err)
		}
		if _, err := uc.CollectBusy(context.Background(), sc, from, to); err == nil {
			t.Error("expected error when the calendar read fails")
		}
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		uc, err := usecase.New(&mockLogger{}, &mockResolutionRepo{}, nil, nil, usecase.Config{Timezone: time.UTC})
		if err != nil {
			t.Fatalf("usecase.New: %v", err)
		}
		if _, err := uc.CollectBusy(context.Background(), sc, to, from); err == nil {
			t.Error("expected error for an inverted range")
		}
	})
}
