// Package customerrepo manages repository layer of customers.
package customerrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/pruthvirajsm/bank-ledger/internal/domain"
	"github.com/pruthvirajsm/bank-ledger/pkg/dbpkg"
	"github.com/pruthvirajsm/bank-ledger/pkg/errorspkg"
)

// RepoPGS facilitates customer repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns customer RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    customers (name, age, email, contact_number)
VALUES
    ($1, $2, $3, $4)
RETURNING id, name, age, email, contact_number, created_at
`

// Create creates the customer and then returns it.
func (r *RepoPGS) Create(ctx context.Context, name string, age int32, email, contactNumber string) (domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, name, age, email, contactNumber)

	c, err := scanCustomer(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "customers_email_key" {
				return c, domain.ErrEmailTaken
			}
		}

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const getQuery = `
SELECT id, name, age, email, contact_number, created_at FROM customers
WHERE id = $1
`

// Get returns the customer with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Customer, error) {
	return r.get(ctx, getQuery, id)
}

const getByEmailQuery = `
SELECT id, name, age, email, contact_number, created_at FROM customers
WHERE email = $1
`

// GetByEmail returns the customer registered with the given email.
func (r *RepoPGS) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	return r.get(ctx, getByEmailQuery, email)
}

func (r *RepoPGS) get(ctx context.Context, query string, arg any) (domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, query, arg)

	c, err := scanCustomer(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return c, domain.ErrCustomerNotFound
		}

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const searchByNameQuery = `
SELECT id, name, age, email, contact_number, created_at FROM customers
WHERE name ILIKE '%' || $1 || '%'
ORDER BY name
`

// SearchByName returns the customers whose name contains the given fragment.
func (r *RepoPGS) SearchByName(ctx context.Context, name string) ([]domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, searchByNameQuery, name)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Customer{}

	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, c)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const updateQuery = `
UPDATE customers
SET name = $2, age = $3, email = $4, contact_number = $5
WHERE id = $1
RETURNING id, name, age, email, contact_number, created_at
`

// Update overwrites the customer record with the given values.
func (r *RepoPGS) Update(ctx context.Context, arg domain.UpdateCustomerParams) (domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updateQuery, arg.ID, arg.Name, arg.Age, arg.Email, arg.ContactNumber)

	c, err := scanCustomer(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return c, domain.ErrCustomerNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "customers_email_key" {
				return c, domain.ErrEmailTaken
			}
		}

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const deleteQuery = `
DELETE FROM customers
WHERE id = $1
`

// Delete removes the customer with the given id.
// Deleting a customer that still owns accounts is rejected by the
// accounts_customer_id_fkey constraint.
func (r *RepoPGS) Delete(ctx context.Context, id int64) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_customer_id_fkey" {
				return domain.ErrCustomerHasAccounts
			}
		}

		return errorspkg.ErrInternal
	}

	affected, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if affected == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

const countQuery = `
SELECT COUNT(*) FROM customers
`

// Count returns the total number of customers.
func (r *RepoPGS) Count(ctx context.Context) (int64, error) {
	l := zerolog.Ctx(ctx)

	var count int64
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCustomer(s scanner) (domain.Customer, error) {
	var c domain.Customer

	err := s.Scan(
		&c.ID,
		&c.Name,
		&c.Age,
		&c.Email,
		&c.ContactNumber,
		&c.CreatedAt,
	)

	return c, err
}
