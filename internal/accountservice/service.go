// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pruthvirajsm/bank-ledger/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, customerID int64, kind domain.AccountKind, balance string) (domain.Account, error)
	Get(ctx context.Context, id int64) (domain.Account, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error)
	ListByKind(ctx context.Context, kind domain.AccountKind) ([]domain.Account, error)
	Count(ctx context.Context) (int64, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account business logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Create creates an account of the given kind with the given initial balance.
func (s *Service) Create(ctx context.Context, customerID int64, kind string, initialBalance string) (domain.Account, error) {
	if !domain.IsSupportedKind(kind) {
		return domain.Account{}, domain.ErrAccountKindInvalid
	}

	balance, err := decimal.NewFromString(initialBalance)
	if err != nil {
		return domain.Account{}, domain.ErrInvalidAmount
	}

	if balance.IsNegative() {
		return domain.Account{}, domain.ErrNegativeBalance
	}

	return s.repo.Create(ctx, customerID, domain.AccountKind(kind), balance.String())
}

// Get returns the account for the given account ID.
func (s *Service) Get(ctx context.Context, id int64) (domain.Account, error) {
	return s.repo.Get(ctx, id)
}

// ListByCustomer returns the accounts owned by the given customer.
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// ListByKind returns the accounts of the given kind.
func (s *Service) ListByKind(ctx context.Context, kind string) ([]domain.Account, error) {
	if !domain.IsSupportedKind(kind) {
		return nil, domain.ErrAccountKindInvalid
	}

	return s.repo.ListByKind(ctx, domain.AccountKind(kind))
}

// Count returns the total number of accounts.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
