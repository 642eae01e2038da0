// Package memledger provides an in-memory implementation of the account store,
// ledger engine and movement log. It satisfies the same service layer
// interfaces as the Postgres repositories and is used where a live database
// is not available, most notably in tests of the engine's concurrency
// guarantees.
package memledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pruthvirajsm/bank-ledger/internal/domain"
)

// DefaultLockWait bounds how long an operation waits for account locks before
// failing with domain.ErrBusy.
const DefaultLockWait = 3 * time.Second

type account struct {
	mu         sync.Mutex
	id         int64
	customerID int64
	kind       domain.AccountKind
	balance    decimal.Decimal
	createdAt  time.Time
}

func (a *account) snapshot() domain.Account {
	return domain.Account{
		ID:         a.id,
		CustomerID: a.customerID,
		Kind:       a.kind,
		Balance:    a.balance.String(),
		CreatedAt:  a.createdAt,
	}
}

// Store holds all in-memory state. Balance mutations lock the affected
// accounts individually; the store mutex only guards the maps and the
// append-only movement slice.
type Store struct {
	lockWait time.Duration

	mu           sync.Mutex
	nextCustomer int64
	nextAccount  int64
	nextMovement int64
	lastCommit   time.Time
	customers    map[int64]domain.Customer
	accounts     map[int64]*account
	movements    []domain.Movement
}

// New returns an empty store. A non-positive lockWait falls back to
// DefaultLockWait.
func New(lockWait time.Duration) *Store {
	if lockWait <= 0 {
		lockWait = DefaultLockWait
	}

	return &Store{
		lockWait:  lockWait,
		customers: make(map[int64]domain.Customer),
		accounts:  make(map[int64]*account),
	}
}

// Accounts returns the account store view.
func (s *Store) Accounts() *AccountStore {
	return &AccountStore{s: s}
}

// Movements returns the movement log view.
func (s *Store) Movements() *MovementLog {
	return &MovementLog{s: s}
}

// CreateCustomer registers a customer so accounts can reference it.
func (s *Store) CreateCustomer(name string) domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCustomer++
	c := domain.Customer{
		ID:        s.nextCustomer,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	s.customers[c.ID] = c

	return c
}

// Deposit credits the account and appends a DEPOSIT movement atomically.
func (s *Store) Deposit(ctx context.Context, accountID int64, amount string) (domain.LedgerTxResult, error) {
	var result domain.LedgerTxResult

	delta, err := parseAmount(amount)
	if err != nil {
		return result, err
	}

	acct, err := s.account(accountID)
	if err != nil {
		return result, err
	}

	if err := s.lockAccounts(ctx, acct); err != nil {
		return result, err
	}
	defer acct.mu.Unlock()

	acct.balance = acct.balance.Add(delta)
	result.Account = acct.snapshot()
	result.Movement = s.appendMovement(domain.Deposit, nil, &accountID, delta)

	return result, nil
}

// Withdraw debits the account and appends a WITHDRAW movement atomically.
// The balance check and the debit happen under the same account lock, so no
// interleaving can overdraw the account.
func (s *Store) Withdraw(ctx context.Context, accountID int64, amount string) (domain.LedgerTxResult, error) {
	var result domain.LedgerTxResult

	delta, err := parseAmount(amount)
	if err != nil {
		return result, err
	}

	acct, err := s.account(accountID)
	if err != nil {
		return result, err
	}

	if err := s.lockAccounts(ctx, acct); err != nil {
		return result, err
	}
	defer acct.mu.Unlock()

	if acct.balance.LessThan(delta) {
		return result, domain.ErrInsufficientFunds
	}

	acct.balance = acct.balance.Sub(delta)
	result.Account = acct.snapshot()
	result.Movement = s.appendMovement(domain.Withdraw, &accountID, nil, delta)

	return result, nil
}

// Transfer debits the source, credits the destination and appends a single
// TRANSFER movement, all under both account locks. Locks are taken in
// ascending account id order so opposing transfers cannot deadlock.
func (s *Store) Transfer(ctx context.Context, fromAccountID, toAccountID int64, amount string) (domain.TransferTxResult, error) {
	var result domain.TransferTxResult

	delta, err := parseAmount(amount)
	if err != nil {
		return result, err
	}

	if fromAccountID == toAccountID {
		return result, domain.ErrSameAccount
	}

	from, err := s.account(fromAccountID)
	if err != nil {
		return result, err
	}

	to, err := s.account(toAccountID)
	if err != nil {
		return result, err
	}

	if err := s.lockAccounts(ctx, from, to); err != nil {
		return result, err
	}
	defer from.mu.Unlock()
	defer to.mu.Unlock()

	if from.balance.LessThan(delta) {
		return result, domain.ErrInsufficientFunds
	}

	from.balance = from.balance.Sub(delta)
	to.balance = to.balance.Add(delta)

	result.FromAccount = from.snapshot()
	result.ToAccount = to.snapshot()
	result.Movement = s.appendMovement(domain.Transfer, &fromAccountID, &toAccountID, delta)

	return result, nil
}

func (s *Store) account(id int64) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return acct, nil
}

// lockAccounts acquires the given account locks in ascending id order within
// a bounded wait. On failure every lock already taken is released and
// domain.ErrBusy is returned; nothing was mutated.
func (s *Store) lockAccounts(ctx context.Context, accts ...*account) error {
	sort.Slice(accts, func(i, j int) bool { return accts[i].id < accts[j].id })

	deadline := time.Now().Add(s.lockWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	locked := make([]*account, 0, len(accts))

	for _, acct := range accts {
		for {
			if ctx.Err() != nil || !time.Now().Before(deadline) {
				for _, l := range locked {
					l.mu.Unlock()
				}

				return domain.ErrBusy
			}

			if acct.mu.TryLock() {
				locked = append(locked, acct)
				break
			}

			time.Sleep(50 * time.Microsecond)
		}
	}

	return nil
}

// appendMovement assigns the next id and a non-decreasing commit timestamp.
// Callers hold the locks of every affected account.
func (s *Store) appendMovement(kind domain.MovementKind, from, to *int64, amount decimal.Decimal) domain.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if now.Before(s.lastCommit) {
		now = s.lastCommit
	}
	s.lastCommit = now

	s.nextMovement++
	m := domain.Movement{
		ID:            s.nextMovement,
		Kind:          kind,
		FromAccountID: from,
		ToAccountID:   to,
		Amount:        amount.String(),
		CreatedAt:     now,
	}
	s.movements = append(s.movements, m)

	return m
}

func parseAmount(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}

	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}

	return d, nil
}
