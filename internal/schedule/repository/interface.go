package repository

import "context"

// Repository is the persistence interface for conflict resolutions.
// A resolution is keyed by user + canonical pair id so a decision
// survives cluster recomputation.
type Repository interface {
	SaveResolution(ctx context.Context, opt SaveResolutionOptions) error
	ListIgnoredPairIDs(ctx context.Context, userID string) ([]string, error)
	DeleteResolutions(ctx context.Context, userID string, pairIDs []string) error
}
