package ics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
)

const (
	defaultTimeout = 15 * time.Second

	// maxOccurrences caps recurrence expansion per event so a
	// malformed unbounded rule cannot blow up a request.
	maxOccurrences = 1000
)

// Period is one busy range extracted from a feed event. All-day events
// cover whole days in the feed's own timezone.
type Period struct {
	Start   time.Time
	End     time.Time
	Summary string
	AllDay  bool
}

// Client fetches and expands ICS feeds (subscribed school timetables,
// exported calendars).
type Client struct {
	http *http.Client
}

// NewClient creates an ICS feed client. A zero timeout uses the default.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// BusyPeriods fetches the feed and returns every event occurrence
// intersecting [from, to], with recurring events expanded. A single
// malformed event is skipped; a malformed feed is an error.
func (c *Client) BusyPeriods(ctx context.Context, feedURL string, from, to time.Time) ([]Period, error) {
	if feedURL == "" {
		return nil, errors.New("feed url is required")
	}
	if to.Before(from) {
		return nil, fmt.Errorf("feed range end %s is before start %s", to, from)
	}

	body, err := c.fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ICS feed: %w", err)
	}

	var periods []Period
	for _, ev := range cal.Events() {
		periods = append(periods, expandEvent(ev, from, to)...)
	}
	return periods, nil
}

func (c *Client) fetch(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ICS feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ICS feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read ICS feed body: %w", err)
	}
	return body, nil
}

// expandEvent turns one VEVENT into occurrences within [from, to].
// Events missing a parseable start are skipped.
func expandEvent(ev *ical.VEvent, from, to time.Time) []Period {
	start, err := ev.GetStartAt()
	if err != nil {
		return nil
	}

	allDay := isAllDay(ev)

	end, err := ev.GetEndAt()
	if err != nil || !end.After(start) {
		if allDay {
			end = start.Add(24 * time.Hour)
		} else {
			end = start
		}
	}

	summary := ""
	if p := ev.GetProperty(ical.ComponentPropertySummary); p != nil {
		summary = p.Value
	}

	rruleProp := ev.GetProperty(ical.ComponentPropertyRrule)
	if rruleProp == nil {
		if start.After(to) || end.Before(from) {
			return nil
		}
		return []Period{{Start: start, End: end, Summary: summary, AllDay: allDay}}
	}

	rule, err := rrule.StrToRRule(rruleProp.Value)
	if err != nil {
		return nil
	}
	rule.DTStart(start)

	var set rrule.Set
	set.RRule(rule)
	for _, ex := range exDates(ev, start.Location()) {
		set.ExDate(ex)
	}

	duration := end.Sub(start)
	// Widen the query so an occurrence that started before `from` but
	// is still running is not missed.
	occStarts := set.Between(from.Add(-duration).In(start.Location()), to.In(start.Location()), true)
	if len(occStarts) > maxOccurrences {
		occStarts = occStarts[:maxOccurrences]
	}

	var out []Period
	for _, occStart := range occStarts {
		occEnd := occStart.Add(duration)
		if occStart.After(to) || occEnd.Before(from) {
			continue
		}
		out = append(out, Period{Start: occStart, End: occEnd, Summary: summary, AllDay: allDay})
	}
	return out
}

// isAllDay reports whether DTSTART is a date, not a date-time.
func isAllDay(ev *ical.VEvent) bool {
	p := ev.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// exDates collects EXDATE values, tolerating the common DATE, local
// DATE-TIME, and UTC forms.
func exDates(ev *ical.VEvent, loc *time.Location) []time.Time {
	var out []time.Time
	for _, p := range ev.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part, loc); err == nil {
				out = append(out, t.In(loc))
			}
		}
	}
	return out
}

func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}
