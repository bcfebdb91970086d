package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"casino/domain/entities"
	"casino/domain/events"
	"casino/domain/interfaces"
)

// fakeStore is a shared in-memory backend for the fake unit of work. It
// enforces the same guarantees the postgres layer does where the engine
// depends on them: versioned balance writes and entity copies on read, so
// mutations only land through Update.
type fakeStore struct {
	mu       sync.Mutex
	accounts map[string]*entities.Account
	rounds   map[string]*entities.GameRound
	tickets  map[string]*entities.BetTicket
	ledger   []*entities.LedgerEntry
	events   []events.Event
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: make(map[string]*entities.Account),
		rounds:   make(map[string]*entities.GameRound),
		tickets:  make(map[string]*entities.BetTicket),
	}
}

func (s *fakeStore) balance(accountID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account, ok := s.accounts[accountID]; ok {
		return account.Balance
	}
	return 0
}

func (s *fakeStore) round(roundID string) *entities.GameRound {
	s.mu.Lock()
	defer s.mu.Unlock()
	if round, ok := s.rounds[roundID]; ok {
		return cloneRound(round)
	}
	return nil
}

func (s *fakeStore) ticket(ticketID string) *entities.BetTicket {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket, ok := s.tickets[ticketID]; ok {
		return cloneTicket(ticket)
	}
	return nil
}

func (s *fakeStore) roundsInState(state entities.RoundState) []*entities.GameRound {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entities.GameRound
	for _, round := range s.rounds {
		if round.State == state {
			out = append(out, cloneRound(round))
		}
	}
	return out
}

func (s *fakeStore) publishedEvents() []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]events.Event(nil), s.events...)
}

func cloneRound(r *entities.GameRound) *entities.GameRound {
	c := *r
	return &c
}

func cloneTicket(t *entities.BetTicket) *entities.BetTicket {
	c := *t
	c.Selections = make(map[string]int64, len(t.Selections))
	for k, v := range t.Selections {
		c.Selections[k] = v
	}
	return &c
}

type fakeAccountRepo struct{ store *fakeStore }

func (r *fakeAccountRepo) GetByID(_ context.Context, accountID string) (*entities.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	account, ok := r.store.accounts[accountID]
	if !ok {
		return nil, nil
	}
	c := *account
	return &c, nil
}

func (r *fakeAccountRepo) Create(_ context.Context, accountID string, initialBalance int64) (*entities.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now().UTC()
	account := &entities.Account{
		ID:        accountID,
		Balance:   initialBalance,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.store.accounts[accountID] = account
	c := *account
	return &c, nil
}

func (r *fakeAccountRepo) UpdateBalance(_ context.Context, accountID string, newBalance, expectedVersion int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	account, ok := r.store.accounts[accountID]
	if !ok || account.Version != expectedVersion {
		return entities.ErrConcurrentModification
	}
	account.Balance = newBalance
	account.Version++
	account.UpdatedAt = time.Now().UTC()
	return nil
}

type fakeLedgerRepo struct{ store *fakeStore }

func (r *fakeLedgerRepo) Record(_ context.Context, entry *entities.LedgerEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *entry
	c.ID = int64(len(r.store.ledger) + 1)
	c.CreatedAt = time.Now().UTC()
	r.store.ledger = append(r.store.ledger, &c)
	return nil
}

func (r *fakeLedgerRepo) Exists(_ context.Context, roundID, accountID string, reason entities.EntryReason, ticketID *string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, e := range r.store.ledger {
		if e.RoundID == nil || *e.RoundID != roundID || e.AccountID != accountID || e.Reason != reason {
			continue
		}
		if coalesce(e.TicketID) == coalesce(ticketID) {
			return true, nil
		}
	}
	return false, nil
}

func coalesce(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *fakeLedgerRepo) GetByAccount(_ context.Context, accountID string, limit int) ([]*entities.LedgerEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entities.LedgerEntry
	for i := len(r.store.ledger) - 1; i >= 0 && len(out) < limit; i-- {
		if r.store.ledger[i].AccountID == accountID {
			c := *r.store.ledger[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) SumByAccount(_ context.Context, accountID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var sum int64
	for _, e := range r.store.ledger {
		if e.AccountID == accountID {
			sum += e.Delta
		}
	}
	return sum, nil
}

func (r *fakeLedgerRepo) GetByRound(_ context.Context, roundID string) ([]*entities.LedgerEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entities.LedgerEntry
	for _, e := range r.store.ledger {
		if e.RoundID != nil && *e.RoundID == roundID {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

type fakeRoundRepo struct{ store *fakeStore }

func (r *fakeRoundRepo) Create(_ context.Context, round *entities.GameRound) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.rounds[round.ID] = cloneRound(round)
	return nil
}

func (r *fakeRoundRepo) GetByID(_ context.Context, roundID string) (*entities.GameRound, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	round, ok := r.store.rounds[roundID]
	if !ok {
		return nil, nil
	}
	return cloneRound(round), nil
}

func (r *fakeRoundRepo) GetByIDForUpdate(ctx context.Context, roundID string) (*entities.GameRound, error) {
	return r.GetByID(ctx, roundID)
}

func (r *fakeRoundRepo) Update(_ context.Context, round *entities.GameRound) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.rounds[round.ID]; !ok {
		return entities.ErrRoundNotFound
	}
	r.store.rounds[round.ID] = cloneRound(round)
	return nil
}

func (r *fakeRoundRepo) GetActiveByGameType(_ context.Context, gameType entities.GameType) (*entities.GameRound, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, round := range r.store.rounds {
		if round.GameType == gameType && !round.IsTerminal() {
			return cloneRound(round), nil
		}
	}
	return nil, nil
}

type fakeTicketRepo struct{ store *fakeStore }

func (r *fakeTicketRepo) Create(_ context.Context, ticket *entities.BetTicket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, ticketID string) (*entities.BetTicket, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ticket, ok := r.store.tickets[ticketID]
	if !ok {
		return nil, nil
	}
	return cloneTicket(ticket), nil
}

func (r *fakeTicketRepo) GetByRound(_ context.Context, roundID string) ([]*entities.BetTicket, error) {
	return r.byRound(roundID, false)
}

func (r *fakeTicketRepo) GetOpenByRound(_ context.Context, roundID string) ([]*entities.BetTicket, error) {
	return r.byRound(roundID, true)
}

func (r *fakeTicketRepo) byRound(roundID string, openOnly bool) ([]*entities.BetTicket, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entities.BetTicket
	for _, ticket := range r.store.tickets {
		if ticket.RoundID != roundID {
			continue
		}
		if openOnly && !ticket.IsOpen() {
			continue
		}
		out = append(out, cloneTicket(ticket))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *entities.BetTicket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tickets[ticket.ID]; !ok {
		return fmt.Errorf("ticket %s not found", ticket.ID)
	}
	r.store.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

type fakeEventBus struct{ store *fakeStore }

func (b *fakeEventBus) Publish(event events.Event) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	b.store.events = append(b.store.events, event)
	return nil
}

// storeSnapshot captures the whole store so a rolled back unit of work can
// restore it, mirroring the atomicity of the real transaction.
type storeSnapshot struct {
	accounts map[string]*entities.Account
	rounds   map[string]*entities.GameRound
	tickets  map[string]*entities.BetTicket
	ledger   []*entities.LedgerEntry
	events   []events.Event
}

func (s *fakeStore) snapshot() *storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := &storeSnapshot{
		accounts: make(map[string]*entities.Account, len(s.accounts)),
		rounds:   make(map[string]*entities.GameRound, len(s.rounds)),
		tickets:  make(map[string]*entities.BetTicket, len(s.tickets)),
		ledger:   append([]*entities.LedgerEntry(nil), s.ledger...),
		events:   append([]events.Event(nil), s.events...),
	}
	for id, account := range s.accounts {
		c := *account
		snap.accounts[id] = &c
	}
	for id, round := range s.rounds {
		snap.rounds[id] = cloneRound(round)
	}
	for id, ticket := range s.tickets {
		snap.tickets[id] = cloneTicket(ticket)
	}
	return snap
}

func (s *fakeStore) restore(snap *storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = snap.accounts
	s.rounds = snap.rounds
	s.tickets = snap.tickets
	s.ledger = snap.ledger
	s.events = snap.events
}

// fakeUnitOfWork runs against the shared store; Begin snapshots it and
// Rollback restores the snapshot, so a failed operation leaves no partial
// writes behind, same as the real transaction.
type fakeUnitOfWork struct {
	store    *fakeStore
	snapshot *storeSnapshot
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	if u.snapshot != nil {
		return fmt.Errorf("transaction already started")
	}
	u.snapshot = u.store.snapshot()
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	if u.snapshot == nil {
		return fmt.Errorf("commit without begin")
	}
	u.snapshot = nil
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	if u.snapshot != nil {
		u.store.restore(u.snapshot)
		u.snapshot = nil
	}
	return nil
}

func (u *fakeUnitOfWork) AccountRepository() interfaces.AccountRepository {
	return &fakeAccountRepo{store: u.store}
}

func (u *fakeUnitOfWork) LedgerRepository() interfaces.LedgerRepository {
	return &fakeLedgerRepo{store: u.store}
}

func (u *fakeUnitOfWork) RoundRepository() interfaces.RoundRepository {
	return &fakeRoundRepo{store: u.store}
}

func (u *fakeUnitOfWork) TicketRepository() interfaces.TicketRepository {
	return &fakeTicketRepo{store: u.store}
}

func (u *fakeUnitOfWork) EventBus() interfaces.EventPublisher {
	return &fakeEventBus{store: u.store}
}

type fakeUowFactory struct{ store *fakeStore }

func (f *fakeUowFactory) Create() UnitOfWork {
	return &fakeUnitOfWork{store: f.store}
}

// fakeClock drives timed waits in tests. With autoFire set, every After
// channel is already fired so worker loops run without real sleeps; without
// it, After never fires and the worker parks in its select.
type fakeClock struct {
	now      time.Time
	autoFire bool
}

func newFakeClock(autoFire bool) *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), autoFire: autoFire}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	if c.autoFire {
		ch <- c.now.Add(d)
	}
	return ch
}
