package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aethelgard/game-backend/internal/domain"
)

// AccountRepository implements account persistence for PostgreSQL
type AccountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetByDiscordID finds an account by its Discord user ID.
// Returns domain.ErrPlayerNotFound when no account exists.
func (r *AccountRepository) GetByDiscordID(ctx context.Context, discordID string) (*domain.Account, error) {
	query := `
		SELECT account_id, discord_id, username, email, created_at
		FROM accounts
		WHERE discord_id = $1
	`
	var account domain.Account
	err := r.db.QueryRow(ctx, query, discordID).Scan(
		&account.ID,
		&account.DiscordID,
		&account.Username,
		&account.Email,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}

// Create inserts a new account. The discord_id unique constraint is the
// core invariant; a duplicate insert surfaces as domain.ErrAccountExists.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (discord_id, username, email)
		VALUES ($1, $2, $3)
		RETURNING account_id, created_at
	`
	err := r.db.QueryRow(ctx, query, account.DiscordID, account.Username, account.Email).
		Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAccountExists
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

// Delete removes an account by ID. Used as the compensating action when
// character creation fails after the account insert.
func (r *AccountRepository) Delete(ctx context.Context, accountID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
