package schedule

import (
	"fmt"
	"time"

	"study-scheduler/internal/model"
)

// TimeSlot is a raw task time-slot sub-range as the UI submits it.
// Timestamps arrive as RFC3339 strings so a malformed value can be
// reported instead of rejected at bind time.
type TimeSlot struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
}

// TaskItem is a raw task as the UI submits it.
type TaskItem struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Deadline  string         `json:"deadline,omitempty"`
	TimeSlots []TimeSlot     `json:"time_slots,omitempty"`
	Priority  model.Priority `json:"priority,omitempty"`
	Source    string         `json:"source,omitempty"`
}

// EventItem is a raw calendar event as the UI or a calendar sync submits it.
// For all-day events sourced externally, EndTime is the exclusive
// day-after date; normalization converts it to an inclusive bound.
type EventItem struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	StartTime string         `json:"start_time"`
	EndTime   string         `json:"end_time,omitempty"`
	IsAllDay  bool           `json:"is_all_day"`
	Priority  model.Priority `json:"priority,omitempty"`
	Source    string         `json:"source,omitempty"`
}

// SessionItem is a raw study session.
type SessionItem struct {
	ID              string         `json:"id"`
	Subject         string         `json:"subject"`
	ScheduledFor    string         `json:"scheduled_for"`
	DurationMinutes int            `json:"duration_minutes,omitempty"`
	Priority        model.Priority `json:"priority,omitempty"`
	Source          string         `json:"source,omitempty"`
}

// ReminderItem is a raw reminder. Reminders are advisory instants and
// never participate in conflict detection.
type ReminderItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ReminderTime string `json:"reminder_time"`
	Source       string `json:"source,omitempty"`
}

// NormalizeInput bundles the four raw item kinds.
type NormalizeInput struct {
	Tasks     []TaskItem     `json:"tasks,omitempty"`
	Events    []EventItem    `json:"events,omitempty"`
	Sessions  []SessionItem  `json:"sessions,omitempty"`
	Reminders []ReminderItem `json:"reminders,omitempty"`
}

// DeadlinePoint is a task deadline surfaced as a zero-duration point.
// Deadlines are listed, never treated as blocking ranges.
type DeadlinePoint struct {
	TaskID string    `json:"task_id"`
	Title  string    `json:"title"`
	Due    time.Time `json:"due"`
	AllDay bool      `json:"all_day"`
}

// ParseWarning records an item dropped during normalization because a
// timestamp failed to parse. Dropping is non-fatal to the batch.
type ParseWarning struct {
	Kind   model.IntervalKind `json:"kind"`
	ItemID string             `json:"item_id"`
	Field  string             `json:"field"`
	Value  string             `json:"value"`
	Reason string             `json:"reason"`
}

// NormalizeOutput is the normalized view of a raw item batch.
type NormalizeOutput struct {
	Intervals []model.Interval `json:"intervals"`
	Deadlines []DeadlinePoint  `json:"deadlines"`
	Warnings  []ParseWarning   `json:"warnings,omitempty"`
}

// Window is the visible date window conflicts are computed over.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DetectInput is the conflict detection request.
type DetectInput struct {
	Items  NormalizeInput
	Window Window
}

// ConflictCluster is a maximal set of intervals with transitive time
// overlap. ID is the sorted concatenation of member ids so the same
// cluster is identified consistently across recomputations. Members are
// ordered highest priority first, then earliest start.
type ConflictCluster struct {
	ID      string           `json:"id"`
	Members []model.Interval `json:"members"`
}

// DetectOutput is the conflict detection result.
type DetectOutput struct {
	Clusters  []ConflictCluster `json:"clusters"`
	Deadlines []DeadlinePoint   `json:"deadlines"`
	Warnings  []ParseWarning    `json:"warnings,omitempty"`
}

// ChunkBounds limits the size of allocated study chunks, in minutes.
type ChunkBounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DefaultChunkBounds is the 45–90 minute session sizing used when the
// caller does not override it.
var DefaultChunkBounds = ChunkBounds{Min: 45, Max: 90}

// AllocateInput is the interval allocation request.
type AllocateInput struct {
	Subject         string
	DurationMinutes int
	Deadline        time.Time
	Busy            []model.BusyWindow
	Chunks          ChunkBounds
	Priority        model.Priority
	Now             time.Time
}

// AllocateOutput is a successful (possibly relaxed) allocation.
// RelaxedConstraints names the soft-window labels that had to be
// encroached on to fit the requested duration.
type AllocateOutput struct {
	Chunks             []model.Interval `json:"chunks"`
	AllocatedMinutes   int              `json:"allocated_minutes"`
	RelaxedConstraints []string         `json:"relaxed_constraints,omitempty"`
}

// AllocationReason classifies an allocation failure.
type AllocationReason string

const (
	AllocationDeadlinePassed       AllocationReason = "deadline_passed"
	AllocationInsufficientCapacity AllocationReason = "insufficient_capacity"
)

// AllocationError is an expected, recoverable allocation outcome the
// caller must branch on. For insufficient capacity the partial
// allocation is attached so the caller can offer it to the user, along
// with any soft constraints that were already relaxed trying to fit it.
type AllocationError struct {
	Reason             AllocationReason
	Partial            []model.Interval
	AllocatedMinutes   int
	RequiredMinutes    int
	RelaxedConstraints []string
}

func (e *AllocationError) Error() string {
	if e.Reason == AllocationDeadlinePassed {
		return "allocation failed: deadline has already passed"
	}
	return fmt.Sprintf("allocation failed: only %d of %d required minutes fit before the deadline",
		e.AllocatedMinutes, e.RequiredMinutes)
}

// ResolutionType records how the user resolved a conflicting pair.
type ResolutionType string

const (
	ResolutionIgnored     ResolutionType = "ignored"
	ResolutionRescheduled ResolutionType = "rescheduled"
	ResolutionDeleted     ResolutionType = "deleted"
)

// Valid reports whether t is a known resolution type.
func (t ResolutionType) Valid() bool {
	switch t {
	case ResolutionIgnored, ResolutionRescheduled, ResolutionDeleted:
		return true
	}
	return false
}

// SaveResolutionInput records a user decision about one conflicting pair.
// Keying is pairwise so the decision survives cluster recomputation even
// if a third item later joins the same time slot.
type SaveResolutionInput struct {
	Item1ID string
	Item2ID string
	Type    ResolutionType
}
