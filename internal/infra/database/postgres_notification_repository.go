// internal/infra/database/postgres_notification_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"pet_care_notifier/internal/domain/notification"
)

var ErrNotificationNotFound = fmt.Errorf("notification not found")

var _ notification.Repository = (*PostgresNotificationRepository)(nil)

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// Create inserts the notification and trims the owner's list to the retention
// cap in one transaction, dropping the oldest entries beyond the cap.
func (r *PostgresNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for notification create: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	insert := `INSERT INTO notifications (id, owner_id, title, message, severity, read, created_at)
                VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := txn.ExecContext(ctx, insert, n.ID, n.OwnerID, n.Title, n.Message, n.Severity, n.Read, n.CreatedAt); err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}

	trim := `DELETE FROM notifications
              WHERE owner_id = $1
                AND id NOT IN (
                    SELECT id FROM notifications
                     WHERE owner_id = $1
                     ORDER BY created_at DESC, id DESC
                     LIMIT $2)`
	if _, err := txn.ExecContext(ctx, trim, n.OwnerID, notification.RecentLimit); err != nil {
		return fmt.Errorf("error trimming notifications for owner %s: %w", n.OwnerID, err)
	}

	return txn.Commit()
}

func (r *PostgresNotificationRepository) ListRecent(ctx context.Context, ownerID string, limit int) ([]*notification.Notification, error) {
	query := `SELECT id, owner_id, title, message, severity, read, created_at
               FROM notifications
               WHERE owner_id = $1
               ORDER BY created_at DESC, id DESC
               LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent notifications: %w", err)
	}
	defer rows.Close()

	out := make([]*notification.Notification, 0)
	for rows.Next() {
		n := notification.Notification{}
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Message, &n.Severity, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return out, nil
}

func (r *PostgresNotificationRepository) UnreadCount(ctx context.Context, ownerID string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE owner_id = $1 AND read = FALSE`
	var count int
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting unread notifications: %w", err)
	}
	return count, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, ownerID, id string) error {
	query := `UPDATE notifications SET read = TRUE WHERE owner_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, ownerID, id)
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking marked rows: %w", err)
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *PostgresNotificationRepository) ClearAll(ctx context.Context, ownerID string) error {
	query := `DELETE FROM notifications WHERE owner_id = $1`
	if _, err := r.db.ExecContext(ctx, query, ownerID); err != nil {
		return fmt.Errorf("error clearing notifications for owner %s: %w", ownerID, err)
	}
	return nil
}
