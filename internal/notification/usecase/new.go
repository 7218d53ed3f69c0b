package usecase

import (
	"context"

	"study-scheduler/internal/notification/repository"
	pkgLog "study-scheduler/pkg/log"
)

// PushSender is the fire-and-forget push transport. Delivery failures
// are logged and swallowed by the caller; the in-app record is the
// authoritative side effect.
type PushSender interface {
	Deliver(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}

type implUseCase struct {
	l       pkgLog.Logger
	repo    repository.Repository
	push    PushSender
	workers int
}

// New creates a new notification UseCase instance. push may be nil when
// no push transport is configured.
func New(l pkgLog.Logger, repo repository.Repository, push PushSender, workers int) *implUseCase {
	if workers <= 0 {
		workers = 8
	}
	return &implUseCase{
		l:       l,
		repo:    repo,
		push:    push,
		workers: workers,
	}
}
