// internal/infra/database/postgres_account_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pet_care_notifier/internal/domain/account"
)

var ErrAccountNotFound = fmt.Errorf("account not found")
var ErrDuplicateAccount = fmt.Errorf("account with this ID already exists")

var _ account.Repository = (*PostgresAccountRepository)(nil)

type PostgresAccountRepository struct {
	db *sql.DB
}

func NewPostgresAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, a *account.Account) error {
	query := `INSERT INTO accounts (id, display_name, email, is_active, telegram_chat_id,
                                    routine_reminders, upcoming_reminders, vaccine_reminders)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
               RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.DisplayName, a.Email, a.IsActive, a.TelegramChatID,
		a.Prefs.RoutineEnabled, a.Prefs.UpcomingEnabled, a.Prefs.VaccineEnabled,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "accounts_pkey") {
			return ErrDuplicateAccount
		}
		return fmt.Errorf("error creating account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	query := `SELECT id, display_name, email, is_active, telegram_chat_id,
                     routine_reminders, upcoming_reminders, vaccine_reminders,
                     created_at, updated_at
               FROM accounts WHERE id = $1`
	a := account.Account{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.DisplayName, &a.Email, &a.IsActive, &a.TelegramChatID,
		&a.Prefs.RoutineEnabled, &a.Prefs.UpcomingEnabled, &a.Prefs.VaccineEnabled,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("error getting account by ID: %w", err)
	}
	return &a, nil
}

func (r *PostgresAccountRepository) Update(ctx context.Context, a *account.Account) error {
	query := `UPDATE accounts
               SET display_name = $1, email = $2, is_active = $3, telegram_chat_id = $4,
                   routine_reminders = $5, upcoming_reminders = $6, vaccine_reminders = $7,
                   updated_at = NOW()
               WHERE id = $8
               RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		a.DisplayName, a.Email, a.IsActive, a.TelegramChatID,
		a.Prefs.RoutineEnabled, a.Prefs.UpcomingEnabled, a.Prefs.VaccineEnabled,
		a.ID,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrAccountNotFound
		}
		return fmt.Errorf("error updating account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) ListActive(ctx context.Context) ([]*account.Account, error) {
	query := `SELECT id, display_name, email, is_active, telegram_chat_id,
                     routine_reminders, upcoming_reminders, vaccine_reminders,
                     created_at, updated_at
               FROM accounts WHERE is_active = TRUE ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying active accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]*account.Account, 0)
	for rows.Next() {
		a := account.Account{}
		if err := rows.Scan(
			&a.ID, &a.DisplayName, &a.Email, &a.IsActive, &a.TelegramChatID,
			&a.Prefs.RoutineEnabled, &a.Prefs.UpcomingEnabled, &a.Prefs.VaccineEnabled,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning account row: %w", err)
		}
		accounts = append(accounts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}
