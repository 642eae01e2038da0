package memledger

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pruthvirajsm/bank-ledger/internal/domain"
)

// MovementLog is the movement view of the store. It satisfies the movement
// service repository interface. Appends happen only through the ledger
// operations on Store.
type MovementLog struct {
	s *Store
}

// Get returns the movement with the given id.
func (ml *MovementLog) Get(ctx context.Context, id int64) (domain.Movement, error) {
	ml.s.mu.Lock()
	defer ml.s.mu.Unlock()

	for _, m := range ml.s.movements {
		if m.ID == id {
			return m, nil
		}
	}

	return domain.Movement{}, domain.ErrMovementNotFound
}

// ListByAccount returns the movements where the account is source or
// destination, most recent first.
func (ml *MovementLog) ListByAccount(ctx context.Context, accountID int64) ([]domain.Movement, error) {
	return ml.list(func(m domain.Movement) bool {
		return (m.FromAccountID != nil && *m.FromAccountID == accountID) ||
			(m.ToAccountID != nil && *m.ToAccountID == accountID)
	}), nil
}

// ListByKind returns the movements of the given kind, most recent first.
func (ml *MovementLog) ListByKind(ctx context.Context, kind domain.MovementKind) ([]domain.Movement, error) {
	return ml.list(func(m domain.Movement) bool { return m.Kind == kind }), nil
}

// ListByTimeRange returns the movements committed between since and until,
// most recent first.
func (ml *MovementLog) ListByTimeRange(ctx context.Context, since, until time.Time) ([]domain.Movement, error) {
	return ml.list(func(m domain.Movement) bool {
		return !m.CreatedAt.Before(since) && !m.CreatedAt.After(until)
	}), nil
}

// ListAmountAbove returns the movements with amount strictly greater than the
// given threshold, largest first.
func (ml *MovementLog) ListAmountAbove(ctx context.Context, amount string) ([]domain.Movement, error) {
	threshold, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, domain.ErrInvalidAmount
	}

	items := ml.list(func(m domain.Movement) bool {
		d, err := decimal.NewFromString(m.Amount)
		return err == nil && d.GreaterThan(threshold)
	})

	sort.SliceStable(items, func(i, j int) bool {
		di, _ := decimal.NewFromString(items[i].Amount)
		dj, _ := decimal.NewFromString(items[j].Amount)
		return di.GreaterThan(dj)
	})

	return items, nil
}

// Recent returns the most recent limit movements across all accounts.
func (ml *MovementLog) Recent(ctx context.Context, limit int32) ([]domain.Movement, error) {
	items := ml.list(func(domain.Movement) bool { return true })

	if int(limit) < len(items) {
		items = items[:limit]
	}

	return items, nil
}

// Summarize aggregates the movements touching the given account.
func (ml *MovementLog) Summarize(ctx context.Context, accountID int64) (domain.Summary, error) {
	movements, err := ml.ListByAccount(ctx, accountID)
	if err != nil {
		return domain.Summary{}, err
	}

	deposited, withdrawn := decimal.Zero, decimal.Zero
	sent, received := decimal.Zero, decimal.Zero

	for _, m := range movements {
		amount, err := decimal.NewFromString(m.Amount)
		if err != nil {
			return domain.Summary{}, err
		}

		switch m.Kind {
		case domain.Deposit:
			deposited = deposited.Add(amount)
		case domain.Withdraw:
			withdrawn = withdrawn.Add(amount)
		case domain.Transfer:
			if m.FromAccountID != nil && *m.FromAccountID == accountID {
				sent = sent.Add(amount)
			}
			if m.ToAccountID != nil && *m.ToAccountID == accountID {
				received = received.Add(amount)
			}
		}
	}

	return domain.Summary{
		Count:          int64(len(movements)),
		TotalDeposited: deposited.String(),
		TotalWithdrawn: withdrawn.String(),
		TotalSent:      sent.String(),
		TotalReceived:  received.String(),
	}, nil
}

// Count returns the total number of recorded movements.
func (ml *MovementLog) Count(ctx context.Context) (int64, error) {
	ml.s.mu.Lock()
	defer ml.s.mu.Unlock()

	return int64(len(ml.s.movements)), nil
}

// list returns matching movements most recent first (reverse append order).
func (ml *MovementLog) list(keep func(domain.Movement) bool) []domain.Movement {
	ml.s.mu.Lock()
	defer ml.s.mu.Unlock()

	items := []domain.Movement{}
	for i := len(ml.s.movements) - 1; i >= 0; i-- {
		if keep(ml.s.movements[i]) {
			items = append(items, ml.s.movements[i])
		}
	}

	return items
}
