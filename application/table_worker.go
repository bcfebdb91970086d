package application

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"casino/domain/entities"
)

// TableWorker runs the shared-table round cycle for a single game type:
// open a round, hold betting open for the configured window, close and
// resolve, then pause so players can see the result before the next round.
//
// Outcomes never depend on the worker's timers. By the time a tick fires,
// every accepted debit is committed, and the draw happens strictly after.
type TableWorker struct {
	orchestrator  *Orchestrator
	uowFactory    UnitOfWorkFactory
	clock         Clock
	gameType      entities.GameType
	bettingWindow time.Duration
	settleDisplay time.Duration
}

// NewTableWorker creates a worker for one shared game table.
func NewTableWorker(orchestrator *Orchestrator, uowFactory UnitOfWorkFactory, clock Clock, gameType entities.GameType, bettingWindow, settleDisplay time.Duration) *TableWorker {
	return &TableWorker{
		orchestrator:  orchestrator,
		uowFactory:    uowFactory,
		clock:         clock,
		gameType:      gameType,
		bettingWindow: bettingWindow,
		settleDisplay: settleDisplay,
	}
}

// Start begins the table loop and returns a cleanup function.
func (w *TableWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.WithField("gameType", w.gameType).Info("Table worker started")

		if err := w.recoverActiveRound(ctx); err != nil {
			log.WithError(err).WithField("gameType", w.gameType).Error("Failed to recover active round")
		}

		for {
			if err := w.runRound(ctx, stopChan); err != nil {
				if err == errWorkerStopped {
					log.WithField("gameType", w.gameType).Info("Table worker shutting down...")
					return
				}
				log.WithError(err).WithField("gameType", w.gameType).Error("Round cycle failed")
				// Back off before retrying so a persistent failure does not spin
				select {
				case <-ctx.Done():
					return
				case <-stopChan:
					return
				case <-w.clock.After(w.settleDisplay):
				}
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

var errWorkerStopped = fmt.Errorf("table worker stopped")

// runRound executes one full open/close/settle cycle.
func (w *TableWorker) runRound(ctx context.Context, stopChan chan struct{}) error {
	round, err := w.orchestrator.OpenRound(ctx, w.gameType)
	if err != nil {
		return fmt.Errorf("failed to open round: %w", err)
	}

	log.WithFields(log.Fields{
		"gameType": w.gameType,
		"roundID":  round.ID,
		"window":   w.bettingWindow,
	}).Info("Round open for betting")

	select {
	case <-ctx.Done():
		return w.abandonRound(round.ID)
	case <-stopChan:
		return w.abandonRound(round.ID)
	case <-w.clock.After(w.bettingWindow):
	}

	if err := w.orchestrator.CloseBetting(ctx, round.ID); err != nil {
		return fmt.Errorf("failed to close betting: %w", err)
	}

	select {
	case <-ctx.Done():
		return errWorkerStopped
	case <-stopChan:
		return errWorkerStopped
	case <-w.clock.After(w.settleDisplay):
	}
	return nil
}

// abandonRound voids the open round during shutdown so stakes do not stay
// locked in a round nobody will resolve. A fresh context is used because
// the worker's own context may already be cancelled.
func (w *TableWorker) abandonRound(roundID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := w.orchestrator.VoidRound(ctx, roundID); err != nil {
		log.WithError(err).WithField("roundID", roundID).Error("Failed to void round on shutdown")
	}
	return errWorkerStopped
}

// recoverActiveRound resolves whatever round the previous process left
// behind. A round with a fixed outcome is settled from that outcome; any
// other non-terminal round is voided and refunded.
func (w *TableWorker) recoverActiveRound(ctx context.Context) error {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	round, err := uow.RoundRepository().GetActiveByGameType(ctx, w.gameType)
	uow.Rollback()
	if err != nil {
		return fmt.Errorf("failed to query active round: %w", err)
	}
	if round == nil {
		return nil
	}

	log.WithFields(log.Fields{
		"gameType": w.gameType,
		"roundID":  round.ID,
		"state":    round.State,
	}).Warn("Recovering round left from previous run")

	if round.State == entities.RoundStateResolving && len(round.Outcome) > 0 {
		return w.orchestrator.SettleRound(ctx, round.ID)
	}
	return w.orchestrator.VoidRound(ctx, round.ID)
}
