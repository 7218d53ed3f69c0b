package usecase_test

import (
	"errors"
	"testing"
	"time"

	"study-scheduler/internal/model"
	"study-scheduler/internal/notification"
	"study-scheduler/internal/notification/usecase"
)

func TestNextOccurrence(t *testing.T) {
	base := time.Date(2026, 1, 15, 7, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		from time.Time
		freq model.Frequency
		want time.Time
	}{
		{"daily", base, model.FrequencyDaily, time.Date(2026, 1, 16, 7, 30, 0, 0, time.UTC)},
		{"weekly", base, model.FrequencyWeekly, time.Date(2026, 1, 22, 7, 30, 0, 0, time.UTC)},
		{"monthly", base, model.FrequencyMonthly, time.Date(2026, 2, 15, 7, 30, 0, 0, time.UTC)},
		{
			"monthly rolls over short months",
			time.Date(2026, 1, 31, 7, 30, 0, 0, time.UTC),
			model.FrequencyMonthly,
			time.Date(2026, 3, 3, 7, 30, 0, 0, time.UTC),
		},
		{
			"daily across month boundary",
			time.Date(2026, 2, 28, 22, 0, 0, 0, time.UTC),
			model.FrequencyDaily,
			time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := usecase.NextOccurrence(tc.from, tc.freq)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}

	t.Run("unknown frequency", func(t *testing.T) {
		_, err := usecase.NextOccurrence(base, "hourly")
		if !errors.Is(err, notification.ErrInvalidFrequency) {
			t.Errorf("expected ErrInvalidFrequency, got %v", err)
		}
	})

	// Chained occurrences stay anchored on the original wall-clock time:
	// no per-step drift accumulates over a long series.
	t.Run("no drift over a long daily series", func(t *testing.T) {
		cur := base
		for i := 0; i < 365; i++ {
			next, err := usecase.NextOccurrence(cur, model.FrequencyDaily)
			if err != nil {
				t.Fatalf("step %d: %v", i, err)
			}
			cur = next
		}
		if cur.Hour() != 7 || cur.Minute() != 30 {
			t.Errorf("wall-clock drifted to %02d:%02d", cur.Hour(), cur.Minute())
		}
		want := base.AddDate(1, 0, 0)
		if !cur.Equal(want) {
			t.Errorf("after 365 days got %s, want %s", cur, want)
		}
	})
}
