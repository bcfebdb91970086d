package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"casino/domain/entities"
	"casino/domain/events"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, accountID string) (*entities.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, accountID string, initialBalance int64) (*entities.Account, error) {
	args := m.Called(ctx, accountID, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, accountID string, newBalance, expectedVersion int64) error {
	args := m.Called(ctx, accountID, newBalance, expectedVersion)
	return args.Error(0)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Record(ctx context.Context, entry *entities.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) Exists(ctx context.Context, roundID, accountID string, reason entities.EntryReason, ticketID *string) (bool, error) {
	args := m.Called(ctx, roundID, accountID, reason, ticketID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) GetByAccount(ctx context.Context, accountID string, limit int) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SumByAccount(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) GetByRound(ctx context.Context, roundID string) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}

// MockRoundRepository is a mock implementation of RoundRepository
type MockRoundRepository struct {
	mock.Mock
}

func (m *MockRoundRepository) Create(ctx context.Context, round *entities.GameRound) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

func (m *MockRoundRepository) GetByID(ctx context.Context, roundID string) (*entities.GameRound, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GameRound), args.Error(1)
}

func (m *MockRoundRepository) GetByIDForUpdate(ctx context.Context, roundID string) (*entities.GameRound, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GameRound), args.Error(1)
}

func (m *MockRoundRepository) Update(ctx context.Context, round *entities.GameRound) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

func (m *MockRoundRepository) GetActiveByGameType(ctx context.Context, gameType entities.GameType) (*entities.GameRound, error) {
	args := m.Called(ctx, gameType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GameRound), args.Error(1)
}

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *entities.BetTicket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, ticketID string) (*entities.BetTicket, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BetTicket), args.Error(1)
}

func (m *MockTicketRepository) GetByRound(ctx context.Context, roundID string) ([]*entities.BetTicket, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BetTicket), args.Error(1)
}

func (m *MockTicketRepository) GetOpenByRound(ctx context.Context, roundID string) ([]*entities.BetTicket, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BetTicket), args.Error(1)
}

func (m *MockTicketRepository) Update(ctx context.Context, ticket *entities.BetTicket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockWalletService is a mock implementation of WalletService
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetOrCreateAccount(ctx context.Context, accountID string) (*entities.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockWalletService) GetBalance(ctx context.Context, accountID string) (int64, int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockWalletService) Debit(ctx context.Context, accountID string, amount int64, roundID, ticketID string) error {
	args := m.Called(ctx, accountID, amount, roundID, ticketID)
	return args.Error(0)
}

func (m *MockWalletService) Credit(ctx context.Context, accountID string, amount int64, reason entities.EntryReason, roundID string) (bool, error) {
	args := m.Called(ctx, accountID, amount, reason, roundID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletService) RefundTicket(ctx context.Context, ticket *entities.BetTicket) (bool, error) {
	args := m.Called(ctx, ticket)
	return args.Bool(0), args.Error(1)
}
