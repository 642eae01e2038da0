package memledger

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pruthvirajsm/bank-ledger/internal/domain"
)

// AccountStore is the account view of the store. It satisfies the account
// service repository interface.
type AccountStore struct {
	s *Store
}

// Create creates an account for an existing customer.
func (as *AccountStore) Create(ctx context.Context, customerID int64, kind domain.AccountKind, balance string) (domain.Account, error) {
	initial, err := decimal.NewFromString(balance)
	if err != nil {
		return domain.Account{}, domain.ErrInvalidAmount
	}

	if initial.IsNegative() {
		return domain.Account{}, domain.ErrNegativeBalance
	}

	if !domain.IsSupportedKind(string(kind)) {
		return domain.Account{}, domain.ErrAccountKindInvalid
	}

	s := as.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[customerID]; !ok {
		return domain.Account{}, domain.ErrCustomerNotFound
	}

	s.nextAccount++
	acct := &account{
		id:         s.nextAccount,
		customerID: customerID,
		kind:       kind,
		balance:    initial,
		createdAt:  time.Now().UTC(),
	}
	s.accounts[acct.id] = acct

	return acct.snapshot(), nil
}

// Get returns a snapshot of the account with the given id.
func (as *AccountStore) Get(ctx context.Context, id int64) (domain.Account, error) {
	acct, err := as.s.account(id)
	if err != nil {
		return domain.Account{}, err
	}

	acct.mu.Lock()
	defer acct.mu.Unlock()

	return acct.snapshot(), nil
}

// ListByCustomer returns the accounts of the given customer in creation order.
func (as *AccountStore) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	return as.list(func(a *account) bool { return a.customerID == customerID }), nil
}

// ListByKind returns the accounts of the given kind in creation order.
func (as *AccountStore) ListByKind(ctx context.Context, kind domain.AccountKind) ([]domain.Account, error) {
	return as.list(func(a *account) bool { return a.kind == kind }), nil
}

// Count returns the total number of accounts.
func (as *AccountStore) Count(ctx context.Context) (int64, error) {
	as.s.mu.Lock()
	defer as.s.mu.Unlock()

	return int64(len(as.s.accounts)), nil
}

func (as *AccountStore) list(keep func(*account) bool) []domain.Account {
	s := as.s

	s.mu.Lock()
	matched := make([]*account, 0, len(s.accounts))
	for _, a := range s.accounts {
		if keep(a) {
			matched = append(matched, a)
		}
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].id < matched[j].id })

	items := make([]domain.Account, 0, len(matched))
	for _, a := range matched {
		a.mu.Lock()
		items = append(items, a.snapshot())
		a.mu.Unlock()
	}

	return items
}
