package usecase

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"study-scheduler/internal/model"
	"study-scheduler/internal/schedule/repository"
	pkgLog "study-scheduler/pkg/log"
)

// CalendarBusyReader supplies read-only busy intervals from the
// external calendar provider.
type CalendarBusyReader interface {
	FreeBusy(ctx context.Context, calendarID string, from, to time.Time) ([]model.BusyWindow, error)
}

// FeedBusyReader supplies busy intervals from a subscribed ICS feed.
type FeedBusyReader interface {
	BusyWindows(ctx context.Context, feedURL string, from, to time.Time) ([]model.BusyWindow, error)
}

// Busy-window labels for the user's recurring soft windows.
const (
	LabelSchoolHours = "school-hours"
	LabelSleep       = "sleep"
)

// Config holds the scheduling policies the use case applies.
type Config struct {
	CalendarID string // external calendar to read busy time from ("" disables)
	FeedURL    string // optional ICS busy feed ("" disables)

	// Recurring soft windows, HH:MM in Timezone. School hours apply on
	// weekdays; the sleep window may cross midnight.
	SchoolStart string
	SchoolEnd   string
	SleepStart  string
	SleepEnd    string

	// RelaxOrder is the order soft constraints are given up in when the
	// deadline cannot otherwise be met. Policy, not law: configurable.
	RelaxOrder []string

	IgnoreCacheSize int
	Timezone        *time.Location
}

type implUseCase struct {
	l        pkgLog.Logger
	repo     repository.Repository
	calendar CalendarBusyReader
	feed     FeedBusyReader
	cfg      Config

	// ignored caches each user's ignored pair set; invalidated on write.
	ignored *lru.Cache[string, map[string]struct{}]
}

// New creates a new schedule UseCase instance. calendar and feed may be
// nil when the corresponding collaborator is not configured.
func New(
	l pkgLog.Logger,
	repo repository.Repository,
	calendar CalendarBusyReader,
	feed FeedBusyReader,
	cfg Config,
) (*implUseCase, error) {
	if cfg.SchoolStart == "" {
		cfg.SchoolStart = "08:00"
	}
	if cfg.SchoolEnd == "" {
		cfg.SchoolEnd = "15:00"
	}
	if cfg.SleepStart == "" {
		cfg.SleepStart = "22:00"
	}
	if cfg.SleepEnd == "" {
		cfg.SleepEnd = "07:00"
	}
	if len(cfg.RelaxOrder) == 0 {
		cfg.RelaxOrder = []string{LabelSchoolHours, LabelSleep}
	}
	if cfg.IgnoreCacheSize <= 0 {
		cfg.IgnoreCacheSize = 256
	}
	if cfg.Timezone == nil {
		cfg.Timezone = time.Local
	}

	cache, err := lru.New[string, map[string]struct{}](cfg.IgnoreCacheSize)
	if err != nil {
		return nil, err
	}

	return &implUseCase{
		l:        l,
		repo:     repo,
		calendar: calendar,
		feed:     feed,
		cfg:      cfg,
		ignored:  cache,
	}, nil
}
