package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"casino/database"
	"casino/domain/entities"
)

// RoundRepository implements the RoundRepository interface
type RoundRepository struct {
	q Queryable
}

// NewRoundRepository creates a new round repository
func NewRoundRepository(db *database.DB) *RoundRepository {
	return &RoundRepository{q: db.Pool}
}

// NewRoundRepositoryScoped creates a new round repository bound to a transaction
func NewRoundRepositoryScoped(tx Queryable) *RoundRepository {
	return &RoundRepository{q: tx}
}

// Create persists a newly opened round
func (r *RoundRepository) Create(ctx context.Context, round *entities.GameRound) error {
	query := `
		INSERT INTO game_rounds (id, game_type, state, sub_state, rng_seed, progress, outcome, opened_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.Exec(ctx, query,
		round.ID,
		round.GameType,
		round.State,
		round.SubState,
		round.RngSeed,
		round.Progress,
		round.Outcome,
		round.OpenedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create round %s: %w", round.ID, err)
	}

	return nil
}

// GetByID retrieves a round by its ID, or nil if it does not exist
func (r *RoundRepository) GetByID(ctx context.Context, roundID string) (*entities.GameRound, error) {
	query := `
		SELECT id, game_type, state, sub_state, rng_seed, progress, outcome, opened_at, closed_at, settled_at
		FROM game_rounds
		WHERE id = $1
	`

	return r.scanRound(r.q.QueryRow(ctx, query, roundID), roundID)
}

// GetByIDForUpdate retrieves a round and locks its row until the enclosing
// transaction ends. Bet acceptance, betting close and settlement all read
// through this, so a bet that saw the betting state cannot commit after the
// round was closed under it.
func (r *RoundRepository) GetByIDForUpdate(ctx context.Context, roundID string) (*entities.GameRound, error) {
	query := `
		SELECT id, game_type, state, sub_state, rng_seed, progress, outcome, opened_at, closed_at, settled_at
		FROM game_rounds
		WHERE id = $1
		FOR UPDATE
	`

	return r.scanRound(r.q.QueryRow(ctx, query, roundID), roundID)
}

// GetActiveByGameType returns the non-terminal round of a shared table, or
// nil if none is open. The partial unique index guarantees at most one.
func (r *RoundRepository) GetActiveByGameType(ctx context.Context, gameType entities.GameType) (*entities.GameRound, error) {
	query := `
		SELECT id, game_type, state, sub_state, rng_seed, progress, outcome, opened_at, closed_at, settled_at
		FROM game_rounds
		WHERE game_type = $1 AND state IN ('betting', 'resolving')
	`

	return r.scanRound(r.q.QueryRow(ctx, query, gameType), string(gameType))
}

// Update persists state, sub-state, progress, outcome and timestamps
func (r *RoundRepository) Update(ctx context.Context, round *entities.GameRound) error {
	query := `
		UPDATE game_rounds
		SET state = $1, sub_state = $2, rng_seed = $3, progress = $4, outcome = $5, closed_at = $6, settled_at = $7
		WHERE id = $8
	`

	result, err := r.q.Exec(ctx, query,
		round.State,
		round.SubState,
		round.RngSeed,
		round.Progress,
		round.Outcome,
		round.ClosedAt,
		round.SettledAt,
		round.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update round %s: %w", round.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("round %s not found: %w", round.ID, entities.ErrRoundNotFound)
	}

	return nil
}

func (r *RoundRepository) scanRound(row pgx.Row, key string) (*entities.GameRound, error) {
	var round entities.GameRound
	err := row.Scan(
		&round.ID,
		&round.GameType,
		&round.State,
		&round.SubState,
		&round.RngSeed,
		&round.Progress,
		&round.Outcome,
		&round.OpenedAt,
		&round.ClosedAt,
		&round.SettledAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round %s: %w", key, err)
	}

	return &round, nil
}
