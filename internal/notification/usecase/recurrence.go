package usecase

import (
	"time"

	"study-scheduler/internal/model"
	"study-scheduler/internal/notification"
)

// NextOccurrence advances a scheduled time by one recurrence interval.
// The input is always the record's original scheduledFor, never the
// dispatch time, so missed cycles can never drift the series.
//
// Monthly addition preserves the day of month; a day that does not
// exist in the target month rolls over (Jan 31 + 1 month lands in early
// March), matching time.Time.AddDate.
func NextOccurrence(t time.Time, f model.Frequency) (time.Time, error) {
	switch f {
	case model.FrequencyDaily:
		return t.AddDate(0, 0, 1), nil
	case model.FrequencyWeekly:
		return t.AddDate(0, 0, 7), nil
	case model.FrequencyMonthly:
		return t.AddDate(0, 1, 0), nil
	default:
		return time.Time{}, notification.ErrInvalidFrequency
	}
}
