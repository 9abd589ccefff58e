package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/devdocs/internal/repository"
)

// compile-time check that *DB implements repository.AuditRepository
var _ repository.AuditRepository = (*DB)(nil)

// RecordEngagement appends one audit row. The ID and timestamp are assigned
// here if the caller left them empty.
func (db *DB) RecordEngagement(ctx context.Context, event *repository.EngagementEvent) error {
	if event.ID == "" {
		event.ID = xid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO engagement_events
			(id, kind, user_uid, application_uid, app_publish_failed, user_publish_failed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.Kind,
		event.UserUID,
		event.ApplicationUID,
		event.AppPublishFailed,
		event.UserPublishFailed,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: recording engagement event: %w", err)
	}
	return nil
}

// RecentEvents returns up to limit events, newest first.
func (db *DB) RecentEvents(ctx context.Context, limit int) ([]repository.EngagementEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, kind, user_uid, application_uid, app_publish_failed, user_publish_failed, created_at
		 FROM engagement_events
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing engagement events: %w", err)
	}
	defer rows.Close()

	var events []repository.EngagementEvent
	for rows.Next() {
		var e repository.EngagementEvent
		if err := rows.Scan(
			&e.ID,
			&e.Kind,
			&e.UserUID,
			&e.ApplicationUID,
			&e.AppPublishFailed,
			&e.UserPublishFailed,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning engagement event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating engagement events: %w", err)
	}

	return events, nil
}
