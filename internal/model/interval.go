package model

import "time"

// IntervalKind tags which item kind an Interval was normalized from.
type IntervalKind string

const (
	KindTask     IntervalKind = "task"
	KindEvent    IntervalKind = "event"
	KindSession  IntervalKind = "session"
	KindReminder IntervalKind = "reminder"
)

// Priority of the underlying item, used for conflict display ordering.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank maps a priority to a sortable weight (higher = more urgent).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// Interval provenance tags.
const (
	SourceManual           = "manual"
	SourceExternalCalendar = "external-calendar"
)

const dateLayout = "2006-01-02"

// Interval is the normalized time range shared by the conflict detector
// and the allocator. Timestamps keep the UTC offset the source supplied;
// they are never reprojected to another zone.
//
// All-day intervals carry calendar dates, not instants. A multi-day
// all-day interval uses an inclusive end date: normalization converts
// exclusive day-after bounds from external sources before an Interval
// is ever constructed.
type Interval struct {
	ID       string       `json:"id"`
	Kind     IntervalKind `json:"kind"`
	Start    time.Time    `json:"start"`
	End      *time.Time   `json:"end,omitempty"`
	AllDay   bool         `json:"all_day"`
	Source   string       `json:"source"`
	Priority Priority     `json:"priority"`
}

// EndOrStart returns the interval end, falling back to the start for
// zero-duration intervals.
func (iv Interval) EndOrStart() time.Time {
	if iv.End != nil {
		return *iv.End
	}
	return iv.Start
}

// StartDate returns the start as a calendar-date string in the
// interval's own offset.
func (iv Interval) StartDate() string {
	return iv.Start.Format(dateLayout)
}

// EndDate returns the (inclusive) end as a calendar-date string in the
// interval's own offset.
func (iv Interval) EndDate() string {
	return iv.EndOrStart().Format(dateLayout)
}

// Overlaps reports whether two intervals share time. The test is
// inclusive on both bounds. If either side is all-day the comparison is
// done on calendar-date strings so timezone boundaries cannot produce
// false negatives or positives.
func (iv Interval) Overlaps(other Interval) bool {
	if iv.AllDay || other.AllDay {
		return iv.StartDate() <= other.EndDate() && iv.EndDate() >= other.StartDate()
	}
	return !iv.Start.After(other.EndOrStart()) && !iv.EndOrStart().Before(other.Start)
}

// BusyWindow is an allocator input representing time that is either
// unavailable (hard: calendar events, existing sessions) or discouraged
// (soft: sleep schedule, school hours).
type BusyWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Hard  bool      `json:"hard"`
	Label string    `json:"label,omitempty"` // e.g. "school-hours", "sleep"
}

// Duration of the window; zero when bounds are inverted.
func (w BusyWindow) Duration() time.Duration {
	if w.End.Before(w.Start) {
		return 0
	}
	return w.End.Sub(w.Start)
}
