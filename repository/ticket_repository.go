package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"casino/database"
	"casino/domain/entities"
)

// TicketRepository implements the TicketRepository interface. Selections are
// stored as a jsonb map of selection key to stake.
type TicketRepository struct {
	q Queryable
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{q: db.Pool}
}

// NewTicketRepositoryScoped creates a new ticket repository bound to a transaction
func NewTicketRepositoryScoped(tx Queryable) *TicketRepository {
	return &TicketRepository{q: tx}
}

// Create persists an accepted ticket
func (r *TicketRepository) Create(ctx context.Context, ticket *entities.BetTicket) error {
	selections, err := json.Marshal(ticket.Selections)
	if err != nil {
		return fmt.Errorf("failed to marshal selections: %w", err)
	}

	query := `
		INSERT INTO bet_tickets (id, account_id, round_id, selections, total_stake, status, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.q.Exec(ctx, query,
		ticket.ID,
		ticket.AccountID,
		ticket.RoundID,
		selections,
		ticket.TotalStake,
		ticket.Status,
		ticket.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create ticket %s: %w", ticket.ID, err)
	}

	return nil
}

// GetByID retrieves a ticket by its ID, or nil if it does not exist
func (r *TicketRepository) GetByID(ctx context.Context, ticketID string) (*entities.BetTicket, error) {
	query := `
		SELECT id, account_id, round_id, selections, total_stake, status, placed_at, settled_at
		FROM bet_tickets
		WHERE id = $1
	`

	ticket, err := scanTicket(r.q.QueryRow(ctx, query, ticketID))
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %s: %w", ticketID, err)
	}
	return ticket, nil
}

// GetByRound returns all tickets of a round
func (r *TicketRepository) GetByRound(ctx context.Context, roundID string) ([]*entities.BetTicket, error) {
	query := `
		SELECT id, account_id, round_id, selections, total_stake, status, placed_at, settled_at
		FROM bet_tickets
		WHERE round_id = $1
		ORDER BY placed_at, id
	`

	return r.queryTickets(ctx, query, roundID)
}

// GetOpenByRound returns the round's tickets still awaiting settlement
func (r *TicketRepository) GetOpenByRound(ctx context.Context, roundID string) ([]*entities.BetTicket, error) {
	query := `
		SELECT id, account_id, round_id, selections, total_stake, status, placed_at, settled_at
		FROM bet_tickets
		WHERE round_id = $1 AND status = 'open'
		ORDER BY placed_at, id
	`

	return r.queryTickets(ctx, query, roundID)
}

// Update persists selections, stake and status changes
func (r *TicketRepository) Update(ctx context.Context, ticket *entities.BetTicket) error {
	selections, err := json.Marshal(ticket.Selections)
	if err != nil {
		return fmt.Errorf("failed to marshal selections: %w", err)
	}

	query := `
		UPDATE bet_tickets
		SET selections = $1, total_stake = $2, status = $3, settled_at = $4
		WHERE id = $5
	`

	result, err := r.q.Exec(ctx, query,
		selections,
		ticket.TotalStake,
		ticket.Status,
		ticket.SettledAt,
		ticket.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ticket %s: %w", ticket.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticket %s not found", ticket.ID)
	}

	return nil
}

func (r *TicketRepository) queryTickets(ctx context.Context, query, roundID string) ([]*entities.BetTicket, error) {
	rows, err := r.q.Query(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets for round %s: %w", roundID, err)
	}
	defer rows.Close()

	var tickets []*entities.BetTicket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}

	return tickets, nil
}

func scanTicket(row pgx.Row) (*entities.BetTicket, error) {
	var ticket entities.BetTicket
	var selections []byte
	err := row.Scan(
		&ticket.ID,
		&ticket.AccountID,
		&ticket.RoundID,
		&selections,
		&ticket.TotalStake,
		&ticket.Status,
		&ticket.PlacedAt,
		&ticket.SettledAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan ticket: %w", err)
	}

	if err := json.Unmarshal(selections, &ticket.Selections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal selections for ticket %s: %w", ticket.ID, err)
	}

	return &ticket, nil
}
