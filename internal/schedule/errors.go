package schedule

import "errors"

// Domain-specific errors for the schedule package.
var (
	ErrInvalidWindow      = errors.New("window end is before window start")
	ErrInvalidDuration    = errors.New("required duration must be positive")
	ErrInvalidChunkBounds = errors.New("chunk bounds are invalid")
	ErrInvalidResolution  = errors.New("unknown resolution type")
	ErrSamePairItem       = errors.New("a conflict pair needs two distinct items")
)
