package repository

// SaveResolutionOptions holds the parameters for persisting a conflict
// resolution. PairID is the canonical sorted id of the two items.
type SaveResolutionOptions struct {
	UserID         string
	PairID         string
	Item1ID        string
	Item2ID        string
	ResolutionType string
}
