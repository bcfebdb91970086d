package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"casino/database"
	"casino/domain/entities"
)

// LedgerRepository implements the LedgerRepository interface over the
// append-only ledger_entries table.
type LedgerRepository struct {
	q Queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// NewLedgerRepositoryScoped creates a new ledger repository bound to a transaction
func NewLedgerRepositoryScoped(tx Queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Record appends a ledger entry. The unique credit index backs up the
// service-level idempotency check, so a replayed credit fails here rather
// than double-paying.
func (r *LedgerRepository) Record(ctx context.Context, entry *entities.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (account_id, delta, reason, round_id, ticket_id, balance_before, balance_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.AccountID,
		entry.Delta,
		entry.Reason,
		entry.RoundID,
		entry.TicketID,
		entry.BalanceBefore,
		entry.BalanceAfter,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record ledger entry for account %s: %w", entry.AccountID, err)
	}

	return nil
}

// Exists reports whether a credit with the given idempotency key was
// already recorded. ticketID is nil for round-level settlement credits.
func (r *LedgerRepository) Exists(ctx context.Context, roundID, accountID string, reason entities.EntryReason, ticketID *string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM ledger_entries
			WHERE round_id = $1 AND account_id = $2 AND reason = $3
			  AND COALESCE(ticket_id, '') = COALESCE($4, '')
		)
	`

	var exists bool
	err := r.q.QueryRow(ctx, query, roundID, accountID, reason, ticketID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ledger entry existence: %w", err)
	}

	return exists, nil
}

// GetByAccount returns the most recent entries for an account
func (r *LedgerRepository) GetByAccount(ctx context.Context, accountID string, limit int) ([]*entities.LedgerEntry, error) {
	query := `
		SELECT id, account_id, delta, reason, round_id, ticket_id, balance_before, balance_after, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	return scanLedgerEntries(rows)
}

// SumByAccount returns the sum of all deltas for an account. The result
// equals the account's balance whenever the ledger is consistent.
func (r *LedgerRepository) SumByAccount(ctx context.Context, accountID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(delta), 0)
		FROM ledger_entries
		WHERE account_id = $1
	`

	var sum int64
	if err := r.q.QueryRow(ctx, query, accountID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum ledger entries for account %s: %w", accountID, err)
	}

	return sum, nil
}

// GetByRound returns all entries produced by a round
func (r *LedgerRepository) GetByRound(ctx context.Context, roundID string) ([]*entities.LedgerEntry, error) {
	query := `
		SELECT id, account_id, delta, reason, round_id, ticket_id, balance_before, balance_after, created_at
		FROM ledger_entries
		WHERE round_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for round %s: %w", roundID, err)
	}
	defer rows.Close()

	return scanLedgerEntries(rows)
}

func scanLedgerEntries(rows pgx.Rows) ([]*entities.LedgerEntry, error) {
	var entries []*entities.LedgerEntry
	for rows.Next() {
		var entry entities.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.Delta,
			&entry.Reason,
			&entry.RoundID,
			&entry.TicketID,
			&entry.BalanceBefore,
			&entry.BalanceAfter,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}
