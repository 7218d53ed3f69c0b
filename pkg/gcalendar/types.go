package gcalendar

import "time"

// BusyPeriod is one busy range reported by the freebusy query.
type BusyPeriod struct {
	Start time.Time
	End   time.Time
}

// PatchEventRequest moves or renames an existing Google Calendar event.
// Zero-value fields are left untouched.
type PatchEventRequest struct {
	CalendarID string
	EventID    string
	Summary    string
	StartTime  time.Time
	EndTime    time.Time
	Timezone   string // e.g. "Asia/Ho_Chi_Minh"
}

// Event is a simplified representation of a Google Calendar event.
type Event struct {
	ID        string
	Summary   string
	HtmlLink  string
	StartTime time.Time
	EndTime   time.Time
}
