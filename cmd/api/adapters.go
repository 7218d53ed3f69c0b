package main

import (
	"context"
	"time"

	"study-scheduler/internal/model"
	"study-scheduler/pkg/gcalendar"
	"study-scheduler/pkg/ics"
)

// Busy-window labels for externally sourced busy time.
const (
	labelCalendar = "calendar"
	labelICSFeed  = "ics-feed"
)

// calendarBusyAdapter maps Google Calendar free/busy periods onto the
// allocator's busy-window model. External busy time is always hard.
type calendarBusyAdapter struct {
	client *gcalendar.Client
}

func (a calendarBusyAdapter) FreeBusy(ctx context.Context, calendarID string, from, to time.Time) ([]model.BusyWindow, error) {
	periods, err := a.client.FreeBusy(ctx, calendarID, from, to)
	if err != nil {
		return nil, err
	}

	windows := make([]model.BusyWindow, 0, len(periods))
	for _, p := range periods {
		windows = append(windows, model.BusyWindow{
			Start: p.Start,
			End:   p.End,
			Hard:  true,
			Label: labelCalendar,
		})
	}
	return windows, nil
}

// feedBusyAdapter maps expanded ICS feed occurrences onto busy windows.
type feedBusyAdapter struct {
	client *ics.Client
}

func (a feedBusyAdapter) BusyWindows(ctx context.Context, feedURL string, from, to time.Time) ([]model.BusyWindow, error) {
	periods, err := a.client.BusyPeriods(ctx, feedURL, from, to)
	if err != nil {
		return nil, err
	}

	windows := make([]model.BusyWindow, 0, len(periods))
	for _, p := range periods {
		windows = append(windows, model.BusyWindow{
			Start: p.Start,
			End:   p.End,
			Hard:  true,
			Label: labelICSFeed,
		})
	}
	return windows, nil
}
