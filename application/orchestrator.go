package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"casino/domain/entities"
	"casino/domain/events"
	"casino/domain/games"
	"casino/domain/interfaces"
	"casino/domain/services"
)

// settleRetries bounds how often a computed settlement is replayed against
// the ledger before the failure is surfaced. Credits are idempotent by
// (round, account, reason), so replays never double-pay.
const settleRetries = 3

// Orchestrator wires validator, RNG, state machine, payout calculator and
// ledger per round. Every operation runs in its own unit of work; events
// publish only after the transaction commits.
type Orchestrator struct {
	uowFactory UnitOfWorkFactory
	registry   *games.Registry
	clock      Clock
}

// NewOrchestrator creates a new game orchestrator
func NewOrchestrator(uowFactory UnitOfWorkFactory, registry *games.Registry, clock Clock) *Orchestrator {
	return &Orchestrator{
		uowFactory: uowFactory,
		registry:   registry,
		clock:      clock,
	}
}

// Registry exposes the game registry for callers that present tables.
func (o *Orchestrator) Registry() *games.Registry {
	return o.registry
}

// OpenRound creates a new round in the betting state.
func (o *Orchestrator) OpenRound(ctx context.Context, gameType entities.GameType) (*entities.GameRound, error) {
	if _, err := o.registry.Get(gameType); err != nil {
		return nil, err
	}

	round := &entities.GameRound{
		ID:       uuid.New().String(),
		GameType: gameType,
		State:    entities.RoundStateBetting,
		OpenedAt: o.clock.Now(),
	}

	uow := o.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.RoundRepository().Create(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}

	if err := uow.EventBus().Publish(events.RoundStateChangeEvent{
		RoundID:  round.ID,
		GameType: gameType,
		NewState: entities.RoundStateBetting,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish round state change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit round: %w", err)
	}
	return round, nil
}

// PlaceBet validates and accepts a ticket on an open round.
func (o *Orchestrator) PlaceBet(ctx context.Context, roundID string, req interfaces.BetRequest) (*entities.BetTicket, error) {
	uow := o.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := o.getRound(ctx, uow, roundID)
	if err != nil {
		return nil, err
	}

	wallet := services.NewWalletService(uow.AccountRepository(), uow.LedgerRepository(), uow.EventBus())
	if _, err := wallet.GetOrCreateAccount(ctx, req.AccountID); err != nil {
		return nil, err
	}

	betting := services.NewBettingService(o.registry, uow.TicketRepository(), wallet)
	ticket, err := betting.PlaceBet(ctx, round, req)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bet: %w", err)
	}
	return ticket, nil
}

// CancelTicket refunds a ticket while its round still accepts bets.
func (o *Orchestrator) CancelTicket(ctx context.Context, roundID, ticketID string) error {
	uow := o.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := o.getRound(ctx, uow, roundID)
	if err != nil {
		return err
	}

	wallet := services.NewWalletService(uow.AccountRepository(), uow.LedgerRepository(), uow.EventBus())
	betting := services.NewBettingService(o.registry, uow.TicketRepository(), wallet)
	if err := betting.CancelTicket(ctx, round, ticketID); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}
	return nil
}

// CloseBetting ends the betting window and draws the outcome. All accepted
// debits are already committed, so the draw strictly follows them. If the
// session finishes immediately (every game but blackjack) the round is
// settled before returning.
func (o *Orchestrator) CloseBetting(ctx context.Context, roundID string) error {
	uow := o.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := o.getRound(ctx, uow, roundID)
	if err != nil {
		return err
	}
	game, err := o.registry.Get(round.GameType)
	if err != nil {
		return err
	}

	seed, err := games.NewSeed()
	if err != nil {
		// Fail closed: no weaker generator may serve an open round.
		uow.Rollback()
		log.WithError(err).WithField("roundID", roundID).Error("RNG unavailable, voiding round")
		return o.VoidRound(ctx, roundID)
	}

	session, err := game.Begin(seed)
	if err != nil {
		uow.Rollback()
		log.WithError(err).WithField("roundID", roundID).Error("Outcome construction failed, voiding round")
		return o.VoidRound(ctx, roundID)
	}

	if err := round.BeginResolving(seed, session.SubState(), o.clock.Now()); err != nil {
		return err
	}

	finished := session.Finished()
	if finished {
		if err := fixOutcome(round, session); err != nil {
			return err
		}
	} else {
		progress, err := session.MarshalProgress()
		if err != nil {
			return fmt.Errorf("failed to marshal session progress: %w", err)
		}
		round.Progress = progress
	}

	if err := uow.RoundRepository().Update(ctx, round); err != nil {
		return fmt.Errorf("failed to update round: %w", err)
	}
	if err := uow.EventBus().Publish(events.RoundStateChangeEvent{
		RoundID:  round.ID,
		GameType: round.GameType,
		OldState: entities.RoundStateBetting,
		NewState: entities.RoundStateResolving,
		SubState: round.SubState,
	}); err != nil {
		return fmt.Errorf("failed to publish round state change: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit resolution: %w", err)
	}

	if finished {
		return o.SettleRound(ctx, roundID)
	}
	return nil
}

// PlayerAction advances an interactive round (blackjack hit/stand/double).
// Dealer auto-play is deterministic: the deck was fixed when resolving
// began, so action pacing cannot change the cards.
func (o *Orchestrator) PlayerAction(ctx context.Context, roundID string, action games.Action) error {
	uow := o.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := o.getRound(ctx, uow, roundID)
	if err != nil {
		return err
	}
	if round.State != entities.RoundStateResolving || len(round.Progress) == 0 {
		return fmt.Errorf("round %s has no player turn in state %s: %w", roundID, round.State, entities.ErrRoundClosed)
	}
	game, err := o.registry.Get(round.GameType)
	if err != nil {
		return err
	}

	session, err := game.Restore(round.Progress)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	interactive, ok := session.(games.InteractiveSession)
	if !ok {
		return fmt.Errorf("game %s does not accept player actions", round.GameType)
	}

	if action == games.ActionDouble {
		if err := o.doubleTicket(ctx, uow, round); err != nil {
			return err
		}
	}

	if err := interactive.Apply(action); err != nil {
		return err
	}

	if session.Finished() {
		if err := fixOutcome(round, session); err != nil {
			return err
		}
	} else {
		progress, err := session.MarshalProgress()
		if err != nil {
			return fmt.Errorf("failed to marshal session progress: %w", err)
		}
		round.Progress = progress
		round.SubState = session.SubState()
	}

	if err := uow.RoundRepository().Update(ctx, round); err != nil {
		return fmt.Errorf("failed to update round: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit action: %w", err)
	}

	if session.Finished() {
		return o.SettleRound(ctx, roundID)
	}
	return nil
}

// doubleTicket debits the extra stake for a double down. Single-player
// rounds carry exactly one open ticket.
func (o *Orchestrator) doubleTicket(ctx context.Context, uow UnitOfWork, round *entities.GameRound) error {
	tickets, err := uow.TicketRepository().GetOpenByRound(ctx, round.ID)
	if err != nil {
		return fmt.Errorf("failed to get round tickets: %w", err)
	}
	if len(tickets) != 1 {
		return fmt.Errorf("double requires exactly one open ticket, round %s has %d: %w", round.ID, len(tickets), entities.ErrInvalidBet)
	}
	wallet := services.NewWalletService(uow.AccountRepository(), uow.LedgerRepository(), uow.EventBus())
	betting := services.NewBettingService(o.registry, uow.TicketRepository(), wallet)
	return betting.DoubleStake(ctx, round, tickets[0])
}

// SettleRound applies the payout calculator to the stored outcome and
// credits winners. The whole operation is replayed on persistence failure
// with the same settlement data; it never re-runs the draw.
func (o *Orchestrator) SettleRound(ctx context.Context, roundID string) error {
	var lastErr error
	for attempt := 0; attempt < settleRetries; attempt++ {
		if lastErr != nil {
			log.WithError(lastErr).WithFields(log.Fields{
				"roundID": roundID,
				"attempt": attempt,
			}).Warn("Retrying settlement")
		}
		if lastErr = o.settleOnce(ctx, roundID); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("settlement of round %s failed after %d attempts: %w", roundID, settleRetries, lastErr)
}

func (o *Orchestrator) settleOnce(ctx context.Context, roundID string) error {
	uow := o.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := o.getRound(ctx, uow, roundID)
	if err != nil {
		return err
	}
	if round.IsTerminal() {
		return nil
	}
	if round.State != entities.RoundStateResolving || len(round.Outcome) == 0 {
		return fmt.Errorf("round %s is not ready to settle (state %s)", roundID, round.State)
	}

	game, err := o.registry.Get(round.GameType)
	if err != nil {
		return err
	}
	outcome, err := game.ParseOutcome(round.Outcome)
	if err != nil {
		return err
	}

	tickets, err := uow.TicketRepository().GetOpenByRound(ctx, roundID)
	if err != nil {
		return fmt.Errorf("failed to get round tickets: %w", err)
	}

	settlements := services.ComputeSettlement(game, outcome, tickets)
	wallet := services.NewWalletService(uow.AccountRepository(), uow.LedgerRepository(), uow.EventBus())
	credited := make(map[string]int64, len(settlements))
	for _, s := range settlements {
		if _, err := wallet.Credit(ctx, s.AccountID, s.Amount, s.Reason, roundID); err != nil {
			return fmt.Errorf("failed to credit settlement: %w", err)
		}
		credited[s.AccountID] = s.Amount
	}

	now := o.clock.Now()
	for _, ticket := range tickets {
		ticket.Status = entities.TicketStatusSettled
		ticket.SettledAt = &now
		if err := uow.TicketRepository().Update(ctx, ticket); err != nil {
			return fmt.Errorf("failed to settle ticket: %w", err)
		}
	}

	if err := round.MarkSettled(now); err != nil {
		return err
	}
	if err := uow.RoundRepository().Update(ctx, round); err != nil {
		return fmt.Errorf("failed to update round: %w", err)
	}

	if err := o.publishSettlement(uow, round, outcome.Describe(), tickets, credited, entities.EntryReasonPayout); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit settlement: %w", err)
	}
	return nil
}

// VoidRound forces a round into the absorbing void state and refunds every
// open ticket for its full stake.
func (o *Orchestrator) VoidRound(ctx context.Context, roundID string) error {
	var lastErr error
	for attempt := 0; attempt < settleRetries; attempt++ {
		if lastErr = o.voidOnce(ctx, roundID); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("voiding round %s failed after %d attempts: %w", roundID, settleRetries, lastErr)
}

func (o *Orchestrator) voidOnce(ctx context.Context, roundID string) error {
	uow := o.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := o.getRound(ctx, uow, roundID)
	if err != nil {
		return err
	}
	if round.IsTerminal() {
		return nil
	}

	tickets, err := uow.TicketRepository().GetOpenByRound(ctx, roundID)
	if err != nil {
		return fmt.Errorf("failed to get round tickets: %w", err)
	}

	refunds := services.ComputeRefunds(tickets)
	wallet := services.NewWalletService(uow.AccountRepository(), uow.LedgerRepository(), uow.EventBus())
	credited := make(map[string]int64, len(refunds))
	for _, r := range refunds {
		if _, err := wallet.Credit(ctx, r.AccountID, r.Amount, r.Reason, roundID); err != nil {
			return fmt.Errorf("failed to refund stake: %w", err)
		}
		credited[r.AccountID] = r.Amount
	}

	now := o.clock.Now()
	for _, ticket := range tickets {
		ticket.Status = entities.TicketStatusVoid
		ticket.SettledAt = &now
		if err := uow.TicketRepository().Update(ctx, ticket); err != nil {
			return fmt.Errorf("failed to void ticket: %w", err)
		}
	}

	if err := round.MarkVoid(now); err != nil {
		return err
	}
	if err := uow.RoundRepository().Update(ctx, round); err != nil {
		return fmt.Errorf("failed to update round: %w", err)
	}

	if err := o.publishSettlement(uow, round, "void", tickets, credited, entities.EntryReasonRefund); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit void: %w", err)
	}
	return nil
}

// publishSettlement emits one RoundSettled event per staked account, losers
// included with a zero delta.
func (o *Orchestrator) publishSettlement(uow UnitOfWork, round *entities.GameRound, outcome string, tickets []*entities.BetTicket, credited map[string]int64, reason entities.EntryReason) error {
	seen := make(map[string]bool)
	for _, ticket := range tickets {
		if seen[ticket.AccountID] {
			continue
		}
		seen[ticket.AccountID] = true
		if err := uow.EventBus().Publish(events.RoundSettledEvent{
			RoundID:   round.ID,
			GameType:  round.GameType,
			AccountID: ticket.AccountID,
			Delta:     credited[ticket.AccountID],
			Reason:    reason,
			Outcome:   outcome,
		}); err != nil {
			return fmt.Errorf("failed to publish round settled event: %w", err)
		}
	}
	return nil
}

// getRound loads the round under a row lock. Every operation that reads the
// round state holds the lock until its transaction ends, so a bet that was
// validated against the betting state can never commit after the close.
func (o *Orchestrator) getRound(ctx context.Context, uow UnitOfWork, roundID string) (*entities.GameRound, error) {
	round, err := uow.RoundRepository().GetByIDForUpdate(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	if round == nil {
		return nil, fmt.Errorf("round %s: %w", roundID, entities.ErrRoundNotFound)
	}
	return round, nil
}

func fixOutcome(round *entities.GameRound, session games.Session) error {
	data, err := session.Outcome().MarshalOutcome()
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}
	return round.FixOutcome(json.RawMessage(data))
}
