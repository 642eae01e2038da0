// Package customerservice manages business logic layer of customers.
package customerservice

import (
	"context"
	"errors"
	"strings"

	"github.com/pruthvirajsm/bank-ledger/internal/domain"
)

// ErrEmptyName indicates a blank customer or search name.
var ErrEmptyName = errors.New("name cannot be empty")

// Repo provides data access layer interface needed by customer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package customerservice
type Repo interface {
	Create(ctx context.Context, name string, age int32, email, contactNumber string) (domain.Customer, error)
	Get(ctx context.Context, id int64) (domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (domain.Customer, error)
	SearchByName(ctx context.Context, name string) ([]domain.Customer, error)
	Update(ctx context.Context, arg domain.UpdateCustomerParams) (domain.Customer, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// AccountLister reports the accounts owned by a customer, used to refuse
// deleting a customer that still has accounts.
type AccountLister interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error)
}

// Service facilitates customer service layer logic.
type Service struct {
	repo     Repo
	accounts AccountLister
}

// New returns customer service struct to manage customer business logic.
func New(cr Repo, al AccountLister) *Service {
	return &Service{repo: cr, accounts: al}
}

// Register creates a customer with a unique email.
func (s *Service) Register(ctx context.Context, name string, age int32, email, contactNumber string) (domain.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Customer{}, ErrEmptyName
	}

	return s.repo.Create(ctx, name, age, strings.ToLower(strings.TrimSpace(email)), contactNumber)
}

// Get returns the customer with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Customer, error) {
	return s.repo.Get(ctx, id)
}

// GetByEmail returns the customer registered with the given email.
func (s *Service) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// SearchByName returns the customers whose name contains the given fragment.
func (s *Service) SearchByName(ctx context.Context, name string) ([]domain.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	return s.repo.SearchByName(ctx, name)
}

// Update overwrites the customer record with the given values.
func (s *Service) Update(ctx context.Context, arg domain.UpdateCustomerParams) (domain.Customer, error) {
	arg.Name = strings.TrimSpace(arg.Name)
	if arg.Name == "" {
		return domain.Customer{}, ErrEmptyName
	}

	arg.Email = strings.ToLower(strings.TrimSpace(arg.Email))

	return s.repo.Update(ctx, arg)
}

// Delete removes the customer unless accounts still reference it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	accounts, err := s.accounts.ListByCustomer(ctx, id)
	if err != nil {
		return err
	}

	if len(accounts) > 0 {
		return domain.ErrCustomerHasAccounts
	}

	return s.repo.Delete(ctx, id)
}

// Count returns the total number of customers.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
