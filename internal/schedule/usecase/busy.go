package usecase

import (
	"context"
	"fmt"
	"time"

	"study-scheduler/internal/model"
)

// CollectBusy assembles the busy-window snapshot for an allocation:
// hard windows from the external calendar and the subscribed ICS feed,
// plus the user's recurring soft windows (school hours on weekdays, the
// sleep schedule every night). Collaborator failures are fatal here;
// allocating against an incomplete picture would double-book the user.
func (uc *implUseCase) CollectBusy(ctx context.Context, sc model.Scope, from, to time.Time) ([]model.BusyWindow, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("busy range end %s is before start %s", to, from)
	}

	var windows []model.BusyWindow

	if uc.calendar != nil && uc.cfg.CalendarID != "" {
		busy, err := uc.calendar.FreeBusy(ctx, uc.cfg.CalendarID, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to read calendar busy time: %w", err)
		}
		windows = append(windows, busy...)
	}

	if uc.feed != nil && uc.cfg.FeedURL != "" {
		busy, err := uc.feed.BusyWindows(ctx, uc.cfg.FeedURL, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to read ICS feed busy time: %w", err)
		}
		windows = append(windows, busy...)
	}

	windows = append(windows, uc.recurringSoftWindows(from, to)...)

	uc.l.Debugf(ctx, "CollectBusy: user=%s windows=%d range=%s..%s",
		sc.UserID, len(windows), from.Format(time.RFC3339), to.Format(time.RFC3339))

	return windows, nil
}

// recurringSoftWindows expands the configured school-hours and sleep
// templates over each day in [from, to]. The sleep window crosses
// midnight, so it is anchored on its start day and runs into the next.
func (uc *implUseCase) recurringSoftWindows(from, to time.Time) []model.BusyWindow {
	var windows []model.BusyWindow

	schoolStart, okSchoolStart := parseClock(uc.cfg.SchoolStart)
	schoolEnd, okSchoolEnd := parseClock(uc.cfg.SchoolEnd)
	sleepStart, okSleepStart := parseClock(uc.cfg.SleepStart)
	sleepEnd, okSleepEnd := parseClock(uc.cfg.SleepEnd)

	loc := uc.cfg.Timezone
	// Start one day early so an overnight sleep window that began
	// before `from` still covers the morning hours.
	day := from.In(loc).AddDate(0, 0, -1)
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)

	for !day.After(to.In(loc)) {
		if okSchoolStart && okSchoolEnd && isSchoolDay(day.Weekday()) {
			windows = appendClipped(windows, model.BusyWindow{
				Start: day.Add(schoolStart),
				End:   day.Add(schoolEnd),
				Label: LabelSchoolHours,
			}, from, to)
		}
		if okSleepStart && okSleepEnd {
			end := day.Add(sleepEnd)
			if sleepEnd <= sleepStart {
				end = end.AddDate(0, 0, 1) // overnight
			}
			windows = appendClipped(windows, model.BusyWindow{
				Start: day.Add(sleepStart),
				End:   end,
				Label: LabelSleep,
			}, from, to)
		}
		day = day.AddDate(0, 0, 1)
	}

	return windows
}

func isSchoolDay(d time.Weekday) bool {
	return d != time.Saturday && d != time.Sunday
}

// parseClock converts "HH:MM" into an offset from midnight.
func parseClock(s string) (time.Duration, bool) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, true
}

func appendClipped(windows []model.BusyWindow, w model.BusyWindow, from, to time.Time) []model.BusyWindow {
	if !w.End.After(from) || !w.Start.Before(to) {
		return windows
	}
	return append(windows, w)
}
