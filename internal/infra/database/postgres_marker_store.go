// internal/infra/database/postgres_marker_store.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pet_care_notifier/internal/domain/reminder"
)

var _ reminder.MarkerStore = (*PostgresMarkerStore)(nil)

// PostgresMarkerStore persists dedup markers in the reminder_markers table.
// The (owner_id, marker_key) primary key makes MarkFired a single atomic
// check-and-set: concurrent evaluators racing on the same key see exactly one
// successful insert.
type PostgresMarkerStore struct {
	db *sql.DB
}

func NewPostgresMarkerStore(db *sql.DB) *PostgresMarkerStore {
	return &PostgresMarkerStore{db: db}
}

func (s *PostgresMarkerStore) Fired(ctx context.Context, ownerID, key string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM reminder_markers WHERE owner_id = $1 AND marker_key = $2)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, ownerID, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking reminder marker: %w", err)
	}
	return exists, nil
}

func (s *PostgresMarkerStore) MarkFired(ctx context.Context, ownerID, key string) (bool, error) {
	query := `INSERT INTO reminder_markers (owner_id, marker_key, created_at)
               VALUES ($1, $2, NOW())
               ON CONFLICT (owner_id, marker_key) DO NOTHING`
	res, err := s.db.ExecContext(ctx, query, ownerID, key)
	if err != nil {
		return false, fmt.Errorf("error setting reminder marker: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error checking reminder marker insert: %w", err)
	}
	return affected == 1, nil
}

func (s *PostgresMarkerStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM reminder_markers WHERE created_at < $1`
	res, err := s.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("error deleting stale reminder markers: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error counting deleted reminder markers: %w", err)
	}
	return removed, nil
}
