package schedule

import (
	"context"
	"time"

	"study-scheduler/internal/model"
)

// UseCase defines the business logic interface for the scheduling core.
type UseCase interface {
	// Normalize converts the four raw item kinds into the common
	// interval model. Malformed items are dropped and reported as
	// warnings, never aborting the batch.
	Normalize(ctx context.Context, input NormalizeInput) NormalizeOutput

	// Detect returns clusters of mutually overlapping intervals within
	// the visible window, with the caller's ignored pairs applied.
	Detect(ctx context.Context, sc model.Scope, input DetectInput) (DetectOutput, error)

	// Allocate packs the required study duration into free time before
	// the deadline. DeadlinePassed and InsufficientCapacity come back as
	// *AllocationError; the caller persists the returned chunks.
	Allocate(ctx context.Context, sc model.Scope, input AllocateInput) (AllocateOutput, error)

	// CollectBusy assembles the busy-window snapshot for an allocation:
	// caller-known hard windows plus external calendar busy time and the
	// user's recurring soft windows.
	CollectBusy(ctx context.Context, sc model.Scope, from, to time.Time) ([]model.BusyWindow, error)

	// SaveResolution persists a user decision about a conflicting pair.
	SaveResolution(ctx context.Context, sc model.Scope, input SaveResolutionInput) error

	// IgnoredPairs returns the caller's ignored pair ids.
	IgnoredPairs(ctx context.Context, sc model.Scope) (map[string]struct{}, error)
}
