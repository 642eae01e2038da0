// Package movementrepo manages repository layer of movements.
package movementrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/pruthvirajsm/bank-ledger/internal/domain"
	"github.com/pruthvirajsm/bank-ledger/pkg/dbpkg"
	"github.com/pruthvirajsm/bank-ledger/pkg/errorspkg"
)

// RepoPGS facilitates movement repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns movement RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    movements (kind, from_account_id, to_account_id, amount)
VALUES
    ($1, $2, $3, $4)
RETURNING id, kind, from_account_id, to_account_id, amount, created_at
`

// Create appends the movement and returns it with its assigned id and timestamp.
// It is called by the ledger engine inside the same transaction as the balance change.
func (r *RepoPGS) Create(ctx context.Context, kind domain.MovementKind, fromAccountID, toAccountID *int64, amount string) (domain.Movement, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, kind, nullableID(fromAccountID), nullableID(toAccountID), amount)

	m, err := scanMovement(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "movements_from_account_id_fkey", "movements_to_account_id_fkey":
				return m, domain.ErrAccountNotFound
			case "movements_amount_check":
				return m, domain.ErrInvalidAmount
			}
		}

		return m, errorspkg.ErrInternal
	}

	return m, nil
}

const getQuery = `
SELECT id, kind, from_account_id, to_account_id, amount, created_at FROM movements
WHERE id = $1 LIMIT 1
`

// Get returns the movement with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Movement, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	m, err := scanMovement(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return m, domain.ErrMovementNotFound
		}

		return m, errorspkg.ErrInternal
	}

	return m, nil
}

// The serial id is the authoritative insertion sequence; timestamps can tie,
// so most-recent-first listings order by id alone.

const listByAccountQuery = `
SELECT id, kind, from_account_id, to_account_id, amount, created_at FROM movements
WHERE from_account_id = $1 OR to_account_id = $1
ORDER BY id DESC
`

// ListByAccount returns the movements where the account is source or destination,
// most recent first.
func (r *RepoPGS) ListByAccount(ctx context.Context, accountID int64) ([]domain.Movement, error) {
	return r.list(ctx, listByAccountQuery, accountID)
}

const listByKindQuery = `
SELECT id, kind, from_account_id, to_account_id, amount, created_at FROM movements
WHERE kind = $1
ORDER BY id DESC
`

// ListByKind returns the movements of the given kind, most recent first.
func (r *RepoPGS) ListByKind(ctx context.Context, kind domain.MovementKind) ([]domain.Movement, error) {
	return r.list(ctx, listByKindQuery, kind)
}

const listByTimeRangeQuery = `
SELECT id, kind, from_account_id, to_account_id, amount, created_at FROM movements
WHERE created_at BETWEEN $1 AND $2
ORDER BY id DESC
`

// ListByTimeRange returns the movements committed between since and until, most recent first.
func (r *RepoPGS) ListByTimeRange(ctx context.Context, since, until time.Time) ([]domain.Movement, error) {
	return r.list(ctx, listByTimeRangeQuery, since, until)
}

const listAmountAboveQuery = `
SELECT id, kind, from_account_id, to_account_id, amount, created_at FROM movements
WHERE amount > $1
ORDER BY amount DESC, id DESC
`

// ListAmountAbove returns the movements with amount strictly greater than the
// given threshold, largest first.
func (r *RepoPGS) ListAmountAbove(ctx context.Context, amount string) ([]domain.Movement, error) {
	return r.list(ctx, listAmountAboveQuery, amount)
}

const recentQuery = `
SELECT id, kind, from_account_id, to_account_id, amount, created_at FROM movements
ORDER BY id DESC
LIMIT $1
`

// Recent returns the most recent limit movements across all accounts.
func (r *RepoPGS) Recent(ctx context.Context, limit int32) ([]domain.Movement, error) {
	return r.list(ctx, recentQuery, limit)
}

const summarizeQuery = `
SELECT
	COUNT(*),
	COALESCE(SUM(CASE WHEN kind = 'DEPOSIT' THEN amount ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN kind = 'WITHDRAW' THEN amount ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN kind = 'TRANSFER' AND from_account_id = $1 THEN amount ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN kind = 'TRANSFER' AND to_account_id = $1 THEN amount ELSE 0 END), 0)
FROM movements
WHERE from_account_id = $1 OR to_account_id = $1
`

// Summarize aggregates the movements touching the given account.
// All totals come back as "0" when no movements exist.
func (r *RepoPGS) Summarize(ctx context.Context, accountID int64) (domain.Summary, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, summarizeQuery, accountID)

	var s domain.Summary

	err := row.Scan(
		&s.Count,
		&s.TotalDeposited,
		&s.TotalWithdrawn,
		&s.TotalSent,
		&s.TotalReceived,
	)

	if err != nil {
		l.Error().Err(err).Send()
		return s, errorspkg.ErrInternal
	}

	return s, nil
}

const countQuery = `
SELECT COUNT(*) FROM movements
`

// Count returns the total number of recorded movements.
func (r *RepoPGS) Count(ctx context.Context) (int64, error) {
	l := zerolog.Ctx(ctx)

	var count int64
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return count, nil
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...any) ([]domain.Movement, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Movement{}

	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMovement(s scanner) (domain.Movement, error) {
	var (
		m        domain.Movement
		from, to sql.NullInt64
	)

	err := s.Scan(
		&m.ID,
		&m.Kind,
		&from,
		&to,
		&m.Amount,
		&m.CreatedAt,
	)
	if err != nil {
		return m, err
	}

	if from.Valid {
		m.FromAccountID = &from.Int64
	}

	if to.Valid {
		m.ToAccountID = &to.Int64
	}

	return m, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: *id, Valid: true}
}
