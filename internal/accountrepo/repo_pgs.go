// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/pruthvirajsm/bank-ledger/internal/domain"
	"github.com/pruthvirajsm/bank-ledger/pkg/dbpkg"
	"github.com/pruthvirajsm/bank-ledger/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1
WHERE id = $2
RETURNING id, customer_id, kind, balance, created_at
`

// AddBalance applies balance += amount atomically and returns the changed account.
// The amount may be negative; a resulting negative balance is rejected by the
// accounts_balance_check constraint and reported as ErrInsufficientFunds.
func (r *RepoPGS) AddBalance(ctx context.Context, amount string, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addBalanceQuery, amount, id)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.CustomerID,
		&a.Kind,
		&a.Balance,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_balance_check" {
				return a, domain.ErrInsufficientFunds
			}

			if pqErr.Code == "55P03" { // lock_not_available
				return a, domain.ErrBusy
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const createQuery = `
INSERT INTO
    accounts (customer_id, kind, balance)
VALUES
    ($1, $2, $3)
RETURNING id, customer_id, kind, balance, created_at
`

// Create creates the account and then returns it.
func (r *RepoPGS) Create(ctx context.Context, customerID int64, kind domain.AccountKind, balance string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, customerID, kind, balance)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.CustomerID,
		&a.Kind,
		&a.Balance,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "accounts_customer_id_fkey":
				return a, domain.ErrCustomerNotFound
			case "accounts_kind_check":
				return a, domain.ErrAccountKindInvalid
			case "accounts_balance_check":
				return a, domain.ErrNegativeBalance
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT
	id, customer_id, kind, balance, created_at
FROM accounts
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.CustomerID,
		&a.Kind,
		&a.Balance,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listByCustomerQuery = `
SELECT
	id, customer_id, kind, balance, created_at
FROM accounts
WHERE customer_id = $1
ORDER BY created_at
`

// ListByCustomer returns all accounts of the given customer in creation order.
func (r *RepoPGS) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	return r.list(ctx, listByCustomerQuery, customerID)
}

const listByKindQuery = `
SELECT
	id, customer_id, kind, balance, created_at
FROM accounts
WHERE kind = $1
ORDER BY created_at
`

// ListByKind returns all accounts of the given kind in creation order.
func (r *RepoPGS) ListByKind(ctx context.Context, kind domain.AccountKind) ([]domain.Account, error) {
	return r.list(ctx, listByKindQuery, kind)
}

func (r *RepoPGS) list(ctx context.Context, query string, arg any) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.Kind, &a.Balance, &a.CreatedAt); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const countQuery = `
SELECT COUNT(*) FROM accounts
`

// Count returns the total number of accounts.
func (r *RepoPGS) Count(ctx context.Context) (int64, error) {
	l := zerolog.Ctx(ctx)

	var count int64
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return count, nil
}
