package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"study-scheduler/internal/model"
	repo "study-scheduler/internal/notification/repository"
)

const scheduledColumns = `id, user_id, title, message, type, link, scheduled_for, status, recur_frequency, recur_end_date, created_at`

// Insert stores a new scheduled notification and returns its id.
func (r *implRepository) Insert(ctx context.Context, n model.ScheduledNotification) (string, error) {
	const query = `
		INSERT INTO scheduled_notifications
			(` + scheduledColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var frequency, endDate sql.NullString
	if n.Recurring != nil {
		frequency = sql.NullString{String: string(n.Recurring.Frequency), Valid: true}
		if n.Recurring.EndDate != nil {
			endDate = sql.NullString{String: n.Recurring.EndDate.UTC().Format(time.RFC3339), Valid: true}
		}
	}

	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.UserID, n.Title, n.Message, n.Type, n.Link,
		n.ScheduledFor.UTC().Format(time.RFC3339), string(n.Status),
		frequency, endDate,
		n.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("Insert"), err)
		return "", repo.ErrFailedToInsert
	}
	return n.ID, nil
}

// Get retrieves one scheduled notification. Returns a zero-value record
// (ID == "") when not found, not an error.
func (r *implRepository) Get(ctx context.Context, id string) (model.ScheduledNotification, error) {
	const query = `SELECT ` + scheduledColumns + ` FROM scheduled_notifications WHERE id = ? LIMIT 1`

	n, err := r.scanOne(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return model.ScheduledNotification{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("Get"), err)
		return model.ScheduledNotification{}, repo.ErrFailedToGet
	}
	return n, nil
}

// List returns the user's scheduled notifications, newest first.
func (r *implRepository) List(ctx context.Context, opt repo.ListOptions) ([]model.ScheduledNotification, error) {
	query := `SELECT ` + scheduledColumns + ` FROM scheduled_notifications WHERE user_id = ?`
	args := []any{opt.UserID}

	if opt.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(opt.Status))
	}

	limit := opt.Limit
	if limit <= 0 {
		limit = 50
	}
	query += ` ORDER BY scheduled_for DESC LIMIT ?`
	args = append(args, limit)

	return r.queryMany(ctx, "List", query, args...)
}

// ListDue returns every pending notification whose scheduled time has
// arrived, ordered oldest first so backlog drains in schedule order.
func (r *implRepository) ListDue(ctx context.Context, now time.Time) ([]model.ScheduledNotification, error) {
	const query = `
		SELECT ` + scheduledColumns + ` FROM scheduled_notifications
		WHERE status = 'pending' AND scheduled_for <= ?
		ORDER BY scheduled_for ASC`

	return r.queryMany(ctx, "ListDue", query, now.UTC().Format(time.RFC3339))
}

// TransitionStatus is the conditional status update the dispatch
// engine's exactly-once guarantee rests on: the write only lands if the
// record is still in `from`, and a lost race reports false, no error.
func (r *implRepository) TransitionStatus(ctx context.Context, id string, from, to model.NotificationStatus) (bool, error) {
	const query = `
		UPDATE scheduled_notifications
		SET status = ?, modified_at = ?
		WHERE id = ? AND status = ?`

	res, err := r.db.ExecContext(ctx, query,
		string(to), time.Now().UTC().Format(time.RFC3339), id, string(from))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("TransitionStatus"), err)
		return false, repo.ErrFailedToTransition
	}
	affected, err := res.RowsAffected()
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("TransitionStatus"), err)
		return false, repo.ErrFailedToTransition
	}
	return affected == 1, nil
}

// BatchDelete removes scheduled notifications in one statement.
func (r *implRepository) BatchDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := `DELETE FROM scheduled_notifications WHERE id IN (` + placeholders + `)`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("BatchDelete"), err)
		return repo.ErrFailedToDelete
	}
	return nil
}

// InsertInApp records the delivered in-app artifact.
func (r *implRepository) InsertInApp(ctx context.Context, n model.Notification) (string, error) {
	const query = `
		INSERT INTO notifications (id, user_id, title, message, type, link, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)`

	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.UserID, n.Title, n.Message, n.Type, n.Link,
		n.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("InsertInApp"), err)
		return "", repo.ErrFailedToInsert
	}
	return n.ID, nil
}

// DeviceTokens returns the user's push-enabled device tokens.
func (r *implRepository) DeviceTokens(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT token FROM device_tokens WHERE user_id = ? AND push_enabled = 1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeviceTokens"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, repo.ErrFailedToList
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeviceTokens"), err)
		return nil, repo.ErrFailedToList
	}
	return tokens, nil
}

func (r *implRepository) queryMany(ctx context.Context, method, query string, args ...any) ([]model.ScheduledNotification, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn(method), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var out []model.ScheduledNotification
	for rows.Next() {
		n, scanErr := r.scanRow(rows)
		if scanErr != nil {
			r.l.Errorf(ctx, "%s: %v", r.dsn(method), scanErr)
			return nil, repo.ErrFailedToList
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn(method), err)
		return nil, repo.ErrFailedToList
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *implRepository) scanOne(row *sql.Row) (model.ScheduledNotification, error) {
	return scanScheduled(row)
}

func (r *implRepository) scanRow(rows *sql.Rows) (model.ScheduledNotification, error) {
	return scanScheduled(rows)
}

func scanScheduled(s rowScanner) (model.ScheduledNotification, error) {
	var (
		n                          model.ScheduledNotification
		scheduledFor, createdAt    string
		status, frequency, endDate sql.NullString
	)
	if err := s.Scan(
		&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Link,
		&scheduledFor, &status, &frequency, &endDate, &createdAt,
	); err != nil {
		return model.ScheduledNotification{}, err
	}

	n.Status = model.NotificationStatus(status.String)

	t, err := time.Parse(time.RFC3339, scheduledFor)
	if err != nil {
		return model.ScheduledNotification{}, err
	}
	n.ScheduledFor = t

	if c, err := time.Parse(time.RFC3339, createdAt); err == nil {
		n.CreatedAt = c
	}

	if frequency.Valid && frequency.String != "" {
		rec := &model.Recurrence{Frequency: model.Frequency(frequency.String)}
		if endDate.Valid && endDate.String != "" {
			if e, err := time.Parse(time.RFC3339, endDate.String); err == nil {
				rec.EndDate = &e
			}
		}
		n.Recurring = rec
	}
	return n, nil
}
