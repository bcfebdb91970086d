package services

import (
	"context"
	"errors"
	"fmt"

	"casino/config"
	"casino/domain/entities"
	"casino/domain/events"
	"casino/domain/interfaces"
)

// maxBalanceRetries bounds the optimistic-concurrency retry loop before
// ErrConcurrentModification is surfaced to the caller.
const maxBalanceRetries = 3

type walletService struct {
	accountRepo    interfaces.AccountRepository
	ledgerRepo     interfaces.LedgerRepository
	eventPublisher interfaces.EventPublisher
}

// NewWalletService creates a new wallet service
func NewWalletService(accountRepo interfaces.AccountRepository, ledgerRepo interfaces.LedgerRepository, eventPublisher interfaces.EventPublisher) interfaces.WalletService {
	return &walletService{
		accountRepo:    accountRepo,
		ledgerRepo:     ledgerRepo,
		eventPublisher: eventPublisher,
	}
}

func (s *walletService) GetOrCreateAccount(ctx context.Context, accountID string) (*entities.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account != nil {
		return account, nil
	}

	starting := config.Get().StartingBalance
	account, err = s.accountRepo.Create(ctx, accountID, starting)
	if err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", accountID, err)
	}

	// Seed the ledger so the balance always equals the sum of entries.
	if starting > 0 {
		entry := &entities.LedgerEntry{
			AccountID:     accountID,
			Delta:         starting,
			Reason:        entities.EntryReasonDeposit,
			BalanceBefore: 0,
			BalanceAfter:  starting,
		}
		if err := s.recordEntry(ctx, entry); err != nil {
			return nil, err
		}
	}

	if err := s.eventPublisher.Publish(events.AccountCreatedEvent{
		AccountID:      accountID,
		InitialBalance: starting,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish account created event: %w", err)
	}

	return account, nil
}

func (s *walletService) GetBalance(ctx context.Context, accountID string) (int64, int64, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return 0, 0, fmt.Errorf("account %s: %w", accountID, entities.ErrAccountNotFound)
	}
	return account.Balance, account.Version, nil
}

func (s *walletService) Debit(ctx context.Context, accountID string, amount int64, roundID, ticketID string) error {
	if amount <= 0 {
		return fmt.Errorf("debit amount must be positive, got %d", amount)
	}

	for attempt := 0; attempt < maxBalanceRetries; attempt++ {
		account, err := s.accountRepo.GetByID(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}
		if account == nil {
			return fmt.Errorf("account %s: %w", accountID, entities.ErrAccountNotFound)
		}
		if !account.CanAfford(amount) {
			return fmt.Errorf("balance %d cannot cover stake %d: %w", account.Balance, amount, entities.ErrInsufficientFunds)
		}

		newBalance := account.Balance - amount
		err = s.accountRepo.UpdateBalance(ctx, accountID, newBalance, account.Version)
		if errors.Is(err, entities.ErrConcurrentModification) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}

		entry := &entities.LedgerEntry{
			AccountID:     accountID,
			Delta:         -amount,
			Reason:        entities.EntryReasonBet,
			RoundID:       &roundID,
			TicketID:      &ticketID,
			BalanceBefore: account.Balance,
			BalanceAfter:  newBalance,
		}
		if err := s.recordEntry(ctx, entry); err != nil {
			return err
		}

		return s.publishBalanceChange(account.Balance, newBalance, entities.EntryReasonBet, accountID, roundID)
	}

	return fmt.Errorf("debit of %d for account %s: %w", amount, accountID, entities.ErrConcurrentModification)
}

func (s *walletService) Credit(ctx context.Context, accountID string, amount int64, reason entities.EntryReason, roundID string) (bool, error) {
	return s.credit(ctx, accountID, amount, reason, roundID, nil)
}

func (s *walletService) RefundTicket(ctx context.Context, ticket *entities.BetTicket) (bool, error) {
	return s.credit(ctx, ticket.AccountID, ticket.TotalStake, entities.EntryReasonRefund, ticket.RoundID, &ticket.ID)
}

// credit applies an idempotent credit keyed by (round, account, reason,
// ticket). A replayed settlement is detected before any balance change, so
// retrying a failed settlement can never double-pay.
func (s *walletService) credit(ctx context.Context, accountID string, amount int64, reason entities.EntryReason, roundID string, ticketID *string) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	applied, err := s.ledgerRepo.Exists(ctx, roundID, accountID, reason, ticketID)
	if err != nil {
		return false, fmt.Errorf("failed to check credit idempotency: %w", err)
	}
	if applied {
		return false, nil
	}

	for attempt := 0; attempt < maxBalanceRetries; attempt++ {
		account, err := s.accountRepo.GetByID(ctx, accountID)
		if err != nil {
			return false, fmt.Errorf("failed to get account: %w", err)
		}
		if account == nil {
			return false, fmt.Errorf("account %s: %w", accountID, entities.ErrAccountNotFound)
		}

		newBalance := account.Balance + amount
		err = s.accountRepo.UpdateBalance(ctx, accountID, newBalance, account.Version)
		if errors.Is(err, entities.ErrConcurrentModification) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("failed to update balance: %w", err)
		}

		entry := &entities.LedgerEntry{
			AccountID:     accountID,
			Delta:         amount,
			Reason:        reason,
			RoundID:       &roundID,
			TicketID:      ticketID,
			BalanceBefore: account.Balance,
			BalanceAfter:  newBalance,
		}
		if err := s.recordEntry(ctx, entry); err != nil {
			return false, err
		}

		if err := s.publishBalanceChange(account.Balance, newBalance, reason, accountID, roundID); err != nil {
			return false, err
		}
		return true, nil
	}

	return false, fmt.Errorf("credit of %d for account %s: %w", amount, accountID, entities.ErrConcurrentModification)
}

func (s *walletService) recordEntry(ctx context.Context, entry *entities.LedgerEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid ledger entry: %w", err)
	}
	if err := s.ledgerRepo.Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w: %w", entities.ErrPersistenceFailure, err)
	}
	return nil
}

func (s *walletService) publishBalanceChange(oldBalance, newBalance int64, reason entities.EntryReason, accountID, roundID string) error {
	if err := s.eventPublisher.Publish(events.BalanceChangeEvent{
		AccountID:    accountID,
		OldBalance:   oldBalance,
		NewBalance:   newBalance,
		ChangeAmount: newBalance - oldBalance,
		Reason:       reason,
		RoundID:      roundID,
	}); err != nil {
		return fmt.Errorf("failed to publish balance change event: %w", err)
	}
	return nil
}
