package usecase

import (
	"context"
	"time"

	"study-scheduler/internal/model"
	"study-scheduler/internal/schedule"
)

// timestamp layouts accepted at the normalization boundary, tried in
// order. Offset-less values are interpreted in the configured timezone,
// matching what the user sees in the UI.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

const dateLayout = "2006-01-02"

// Normalize converts raw tasks, events, sessions, and reminders into
// the common interval model. A malformed timestamp drops that item with
// a warning; the rest of the batch is unaffected.
func (uc *implUseCase) Normalize(ctx context.Context, input schedule.NormalizeInput) schedule.NormalizeOutput {
	var out schedule.NormalizeOutput

	for _, t := range input.Tasks {
		uc.normalizeTask(t, &out)
	}
	for _, e := range input.Events {
		uc.normalizeEvent(e, &out)
	}
	for _, s := range input.Sessions {
		uc.normalizeSession(s, &out)
	}
	for _, r := range input.Reminders {
		uc.normalizeReminder(r, &out)
	}

	if len(out.Warnings) > 0 {
		uc.l.Warnf(ctx, "Normalize: dropped %d malformed items of %d",
			len(out.Warnings),
			len(input.Tasks)+len(input.Events)+len(input.Sessions)+len(input.Reminders))
	}

	return out
}

// normalizeTask emits one interval per time slot. A task without slots
// but with a deadline surfaces only as a zero-duration deadline point;
// it never blocks a time range.
func (uc *implUseCase) normalizeTask(t schedule.TaskItem, out *schedule.NormalizeOutput) {
	for _, slot := range t.TimeSlots {
		start, err := uc.parseTimestamp(slot.StartDate)
		if err != nil {
			out.Warnings = append(out.Warnings, warning(model.KindTask, t.ID, "start_date", slot.StartDate, err))
			continue
		}

		iv := model.Interval{
			ID:       t.ID,
			Kind:     model.KindTask,
			Start:    start,
			Source:   sourceOrManual(t.Source),
			Priority: priorityOrMedium(t.Priority),
		}
		if slot.EndDate != "" {
			end, endErr := uc.parseTimestamp(slot.EndDate)
			if endErr != nil {
				out.Warnings = append(out.Warnings, warning(model.KindTask, t.ID, "end_date", slot.EndDate, endErr))
				continue
			}
			if end.Before(start) {
				// Producer corrects inverted bounds; the detector never sees them.
				end = start
			}
			iv.End = &end
		}
		out.Intervals = append(out.Intervals, iv)
	}

	if t.Deadline == "" {
		return
	}
	due, err := uc.parseTimestamp(t.Deadline)
	if err != nil {
		out.Warnings = append(out.Warnings, warning(model.KindTask, t.ID, "deadline", t.Deadline, err))
		return
	}

	// Externally-synced tasks due exactly at midnight are date-only
	// deadlines in the source system; surface them as all-day.
	allDay := t.Source == model.SourceExternalCalendar &&
		due.Hour() == 0 && due.Minute() == 0

	out.Deadlines = append(out.Deadlines, schedule.DeadlinePoint{
		TaskID: t.ID,
		Title:  t.Title,
		Due:    due,
		AllDay: allDay,
	})
}

// normalizeEvent keeps timed events in the source's UTC offset. All-day
// events become inclusive calendar-date bounds: an external exclusive
// day-after end date is converted here, once, so downstream logic only
// ever sees inclusive bounds.
func (uc *implUseCase) normalizeEvent(e schedule.EventItem, out *schedule.NormalizeOutput) {
	start, err := uc.parseTimestamp(e.StartTime)
	if err != nil {
		out.Warnings = append(out.Warnings, warning(model.KindEvent, e.ID, "start_time", e.StartTime, err))
		return
	}

	iv := model.Interval{
		ID:       e.ID,
		Kind:     model.KindEvent,
		Start:    start,
		AllDay:   e.IsAllDay,
		Source:   sourceOrManual(e.Source),
		Priority: priorityOrMedium(e.Priority),
	}

	if e.EndTime != "" {
		end, endErr := uc.parseTimestamp(e.EndTime)
		if endErr != nil {
			out.Warnings = append(out.Warnings, warning(model.KindEvent, e.ID, "end_time", e.EndTime, endErr))
			return
		}
		if e.IsAllDay && iv.Source == model.SourceExternalCalendar && end.After(start) {
			// Exclusive day-after boundary -> inclusive end date.
			end = end.AddDate(0, 0, -1)
		}
		if end.Before(start) {
			end = start
		}
		iv.End = &end
	}

	out.Intervals = append(out.Intervals, iv)
}

// normalizeSession derives the end from scheduledFor + duration.
// Missing duration defaults to one hour.
func (uc *implUseCase) normalizeSession(s schedule.SessionItem, out *schedule.NormalizeOutput) {
	start, err := uc.parseTimestamp(s.ScheduledFor)
	if err != nil {
		out.Warnings = append(out.Warnings, warning(model.KindSession, s.ID, "scheduled_for", s.ScheduledFor, err))
		return
	}

	duration := s.DurationMinutes
	if duration <= 0 {
		duration = 60
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	out.Intervals = append(out.Intervals, model.Interval{
		ID:       s.ID,
		Kind:     model.KindSession,
		Start:    start,
		End:      &end,
		Source:   sourceOrManual(s.Source),
		Priority: priorityOrMedium(s.Priority),
	})
}

// normalizeReminder emits a zero-duration instant. Reminders are
// advisory: the detector excludes them from its candidate set entirely.
func (uc *implUseCase) normalizeReminder(r schedule.ReminderItem, out *schedule.NormalizeOutput) {
	at, err := uc.parseTimestamp(r.ReminderTime)
	if err != nil {
		out.Warnings = append(out.Warnings, warning(model.KindReminder, r.ID, "reminder_time", r.ReminderTime, err))
		return
	}

	out.Intervals = append(out.Intervals, model.Interval{
		ID:       r.ID,
		Kind:     model.KindReminder,
		Start:    at,
		Source:   sourceOrManual(r.Source),
		Priority: model.PriorityMedium,
	})
}

func (uc *implUseCase) parseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			} else {
				lastErr = err
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, uc.cfg.Timezone); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

func warning(kind model.IntervalKind, id, field, value string, err error) schedule.ParseWarning {
	return schedule.ParseWarning{
		Kind:   kind,
		ItemID: id,
		Field:  field,
		Value:  value,
		Reason: err.Error(),
	}
}

func sourceOrManual(s string) string {
	if s == "" {
		return model.SourceManual
	}
	return s
}

func priorityOrMedium(p model.Priority) model.Priority {
	if p == "" {
		return model.PriorityMedium
	}
	return p
}
