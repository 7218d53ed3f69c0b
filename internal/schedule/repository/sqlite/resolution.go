package sqlite

import (
	"context"
	"strings"
	"time"

	repo "study-scheduler/internal/schedule/repository"
)

// SaveResolution upserts a resolution record keyed by user + pair id,
// so re-resolving the same pair replaces the previous decision.
func (r *implRepository) SaveResolution(ctx context.Context, opt repo.SaveResolutionOptions) error {
	const query = `
		INSERT INTO conflict_resolutions (id, user_id, pair_id, item1_id, item2_id, resolution_type, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			resolution_type = excluded.resolution_type,
			resolved_at     = excluded.resolved_at`

	id := opt.UserID + "_" + opt.PairID
	_, err := r.db.ExecContext(ctx, query,
		id, opt.UserID, opt.PairID, opt.Item1ID, opt.Item2ID,
		opt.ResolutionType, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("SaveResolution"), err)
		return repo.ErrFailedToSave
	}
	return nil
}

// ListIgnoredPairIDs returns the canonical pair ids the user chose to
// ignore. Other resolution types do not suppress future detection.
func (r *implRepository) ListIgnoredPairIDs(ctx context.Context, userID string) ([]string, error) {
	const query = `
		SELECT pair_id FROM conflict_resolutions
		WHERE user_id = ? AND resolution_type = 'ignored'`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListIgnoredPairIDs"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var pairIDs []string
	for rows.Next() {
		var pairID string
		if err := rows.Scan(&pairID); err != nil {
			return nil, repo.ErrFailedToList
		}
		pairIDs = append(pairIDs, pairID)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListIgnoredPairIDs"), err)
		return nil, repo.ErrFailedToList
	}
	return pairIDs, nil
}

// DeleteResolutions removes resolutions for the given pair ids in one
// batched statement.
func (r *implRepository) DeleteResolutions(ctx context.Context, userID string, pairIDs []string) error {
	if len(pairIDs) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(pairIDs)), ",")
	query := `DELETE FROM conflict_resolutions WHERE user_id = ? AND pair_id IN (` + placeholders + `)`

	args := make([]any, 0, len(pairIDs)+1)
	args = append(args, userID)
	for _, id := range pairIDs {
		args = append(args, id)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeleteResolutions"), err)
		return repo.ErrFailedToDelete
	}
	return nil
}
