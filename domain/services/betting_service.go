package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"casino/domain/entities"
	"casino/domain/games"
	"casino/domain/interfaces"
)

type bettingService struct {
	registry   *games.Registry
	ticketRepo interfaces.TicketRepository
	wallet     interfaces.WalletService
}

// NewBettingService creates a new betting service
func NewBettingService(registry *games.Registry, ticketRepo interfaces.TicketRepository, wallet interfaces.WalletService) interfaces.BettingService {
	return &bettingService{
		registry:   registry,
		ticketRepo: ticketRepo,
		wallet:     wallet,
	}
}

// PlaceBet validates the request and accepts the ticket. Every rejection
// happens before any write; both writes share the caller's transaction, so
// a debit failure rolls the ticket back with it and the round is untouched.
func (s *bettingService) PlaceBet(ctx context.Context, round *entities.GameRound, req interfaces.BetRequest) (*entities.BetTicket, error) {
	if !round.IsBetting() {
		return nil, fmt.Errorf("round %s is %s, not accepting bets: %w", round.ID, round.State, entities.ErrInvalidBet)
	}

	game, err := s.registry.Get(round.GameType)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve game for round %s: %w", round.ID, err)
	}

	if err := validateSelections(game, req.Selections); err != nil {
		return nil, err
	}

	ticket := &entities.BetTicket{
		ID:         uuid.New().String(),
		AccountID:  req.AccountID,
		RoundID:    round.ID,
		Selections: req.Selections,
		Status:     entities.TicketStatusOpen,
		PlacedAt:   time.Now().UTC(),
	}
	ticket.TotalStake = ticket.SumSelections()

	// The ticket row must exist before the debit: the debit's ledger entry
	// references it by foreign key.
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	if err := s.wallet.Debit(ctx, req.AccountID, ticket.TotalStake, round.ID, ticket.ID); err != nil {
		return nil, fmt.Errorf("failed to debit stake: %w", err)
	}

	return ticket, nil
}

// validateSelections enforces the game's selection keys and table limits.
func validateSelections(game games.Game, selections map[string]int64) error {
	if len(selections) == 0 {
		return fmt.Errorf("ticket has no selections: %w", entities.ErrInvalidBet)
	}
	table := game.Table()
	for key, stake := range selections {
		if !game.ValidSelection(key) {
			return fmt.Errorf("selection %q is not on the %s table: %w", key, game.Type(), entities.ErrInvalidBet)
		}
		if stake < table.MinStake {
			return fmt.Errorf("stake %d on %q is below the table minimum %d: %w", stake, key, table.MinStake, entities.ErrInvalidBet)
		}
		if stake > table.MaxStake {
			return fmt.Errorf("stake %d on %q exceeds the table maximum %d: %w", stake, key, table.MaxStake, entities.ErrInvalidBet)
		}
	}
	return nil
}

func (s *bettingService) CancelTicket(ctx context.Context, round *entities.GameRound, ticketID string) error {
	if !round.IsBetting() {
		return fmt.Errorf("round %s is %s, cancellation closed: %w", round.ID, round.State, entities.ErrRoundClosed)
	}

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil || ticket.RoundID != round.ID {
		return fmt.Errorf("ticket %s does not belong to round %s: %w", ticketID, round.ID, entities.ErrInvalidBet)
	}
	if !ticket.IsOpen() {
		return fmt.Errorf("ticket %s is already %s: %w", ticketID, ticket.Status, entities.ErrInvalidBet)
	}

	if _, err := s.wallet.RefundTicket(ctx, ticket); err != nil {
		return fmt.Errorf("failed to refund ticket: %w", err)
	}

	now := time.Now().UTC()
	ticket.Status = entities.TicketStatusVoid
	ticket.SettledAt = &now
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}

	return nil
}

// DoubleStake performs the blackjack double down: one more debit equal to
// the original stake, then the ticket rides at twice the amount.
func (s *bettingService) DoubleStake(ctx context.Context, round *entities.GameRound, ticket *entities.BetTicket) error {
	if !ticket.IsOpen() {
		return fmt.Errorf("ticket %s is already %s: %w", ticket.ID, ticket.Status, entities.ErrInvalidBet)
	}

	if err := s.wallet.Debit(ctx, ticket.AccountID, ticket.TotalStake, round.ID, ticket.ID); err != nil {
		return fmt.Errorf("failed to debit doubled stake: %w", err)
	}

	for key := range ticket.Selections {
		ticket.Selections[key] *= 2
	}
	ticket.TotalStake *= 2
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return fmt.Errorf("failed to update doubled ticket: %w", err)
	}

	return nil
}
