package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"casino/database"
	"casino/domain/entities"
)

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// NewAccountRepositoryScoped creates a new account repository bound to a transaction
func NewAccountRepositoryScoped(tx Queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// GetByID retrieves an account by its ID, or nil if it does not exist
func (r *AccountRepository) GetByID(ctx context.Context, accountID string) (*entities.Account, error) {
	query := `
		SELECT id, balance, version, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var account entities.Account
	err := r.q.QueryRow(ctx, query, accountID).Scan(
		&account.ID,
		&account.Balance,
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}

	return &account, nil
}

// Create creates a new account with the given starting balance
func (r *AccountRepository) Create(ctx context.Context, accountID string, initialBalance int64) (*entities.Account, error) {
	query := `
		INSERT INTO accounts (id, balance)
		VALUES ($1, $2)
		RETURNING version, created_at, updated_at
	`

	account := &entities.Account{
		ID:      accountID,
		Balance: initialBalance,
	}
	err := r.q.QueryRow(ctx, query, accountID, initialBalance).Scan(
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", accountID, err)
	}

	return account, nil
}

// UpdateBalance writes a new balance guarded by the expected version. A
// version mismatch means another writer got there first; the caller re-reads
// and retries.
func (r *AccountRepository) UpdateBalance(ctx context.Context, accountID string, newBalance, expectedVersion int64) error {
	query := `
		UPDATE accounts
		SET balance = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3
	`

	result, err := r.q.Exec(ctx, query, newBalance, accountID, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s version %d is stale: %w", accountID, expectedVersion, entities.ErrConcurrentModification)
	}

	return nil
}
