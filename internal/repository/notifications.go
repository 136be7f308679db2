package repository

import (
	"context"
	"fmt"
	"time"

	"kennelbook.io/kennelbook/internal/domain"
)

const notificationColumns = `id, type, title, message, resource_type,
	resource_id, read, read_at, created_at`

func scanNotification(row interface{ Scan(dest ...any) error }) (*domain.Notification, error) {
	var n domain.Notification
	err := row.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.ResourceType,
		&n.ResourceID, &n.Read, &n.ReadAt, &n.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

// InsertNotification adds one inbox entry.
func (s *Store) InsertNotification(ctx context.Context, n *domain.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO notifications (id, type, title, message, resource_type,
			resource_id, read, read_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		n.ID, n.Type, n.Title, n.Message, n.ResourceType,
		n.ResourceID, n.Read, n.ReadAt, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListNotifications returns inbox entries newest first.
func (s *Store) ListNotifications(ctx context.Context, unreadOnly bool) ([]*domain.Notification, error) {
	q := `SELECT ` + notificationColumns + ` FROM notifications`
	if unreadOnly {
		q += ` WHERE NOT read`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead marks one entry read. Idempotent on already-read rows.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE notifications SET read = TRUE, read_at = COALESCE(read_at, $2)
		WHERE id = $1`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReadNotificationsBefore removes read entries older than the cutoff
// and returns how many were deleted.
func (s *Store) DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM notifications WHERE read AND created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete read notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}

// HasNotificationSince reports whether an entry of the given type already
// exists for the resource at or after since. Scans use it to avoid
// re-alerting on the same cycle every run.
func (s *Store) HasNotificationSince(ctx context.Context, typ, resourceID string, since time.Time) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE type = $1 AND resource_id = $2 AND created_at >= $3
		)`, typ, resourceID, since).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check notification: %w", err)
	}
	return exists, nil
}
