package memledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pruthvirajsm/bank-ledger/internal/domain"
)

func seedMovements(t *testing.T, s *Store, acct, other domain.Account) []domain.Movement {
	t.Helper()

	ctx := context.Background()
	movements := make([]domain.Movement, 0, 3)

	d, err := s.Deposit(ctx, acct.ID, "100")
	require.NoError(t, err)
	movements = append(movements, d.Movement)

	w, err := s.Withdraw(ctx, acct.ID, "40")
	require.NoError(t, err)
	movements = append(movements, w.Movement)

	tr, err := s.Transfer(ctx, acct.ID, other.ID, "20")
	require.NoError(t, err)
	movements = append(movements, tr.Movement)

	return movements
}

func TestMovementGet(t *testing.T) {
	ctx := context.Background()
	s, c := newTestStore(t)
	acct := openAccount(t, s, c.ID, "0")
	other := openAccount(t, s, c.ID, "0")
	seeded := seedMovements(t, s, acct, other)

	got, err := s.Movements().Get(ctx, seeded[0].ID)
	require.NoError(t, err)
	require.Equal(t, seeded[0], got)

	_, err = s.Movements().Get(ctx, 999)
	require.ErrorIs(t, err, domain.ErrMovementNotFound)
}

func TestMovementListByKind(t *testing.T) {
	ctx := context.Background()
	s, c := newTestStore(t)
	acct := openAccount(t, s, c.ID, "0")
	other := openAccount(t, s, c.ID, "0")
	seeded := seedMovements(t, s, acct, other)

	deposits, err := s.Movements().ListByKind(ctx, domain.Deposit)
	require.NoError(t, err)
	require.Equal(t, []domain.Movement{seeded[0]}, deposits)

	transfers, err := s.Movements().ListByKind(ctx, domain.Transfer)
	require.NoError(t, err)
	require.Equal(t, []domain.Movement{seeded[2]}, transfers)
}

func TestMovementListByTimeRange(t *testing.T) {
	ctx := context.Background()
	s, c := newTestStore(t)
	acct := openAccount(t, s, c.ID, "0")
	other := openAccount(t, s, c.ID, "0")
	seeded := seedMovements(t, s, acct, other)

	first, last := seeded[0].CreatedAt, seeded[2].CreatedAt

	all, err := s.Movements().ListByTimeRange(ctx, first, last)
	require.NoError(t, err)
	require.Len(t, all, 3)

	none, err := s.Movements().ListByTimeRange(ctx, last.Add(time.Second), last.Add(time.Minute))
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestMovementListAmountAbove(t *testing.T) {
	ctx := context.Background()
	s, c := newTestStore(t)
	acct := openAccount(t, s, c.ID, "0")
	other := openAccount(t, s, c.ID, "0")
	seeded := seedMovements(t, s, acct, other)

	above, err := s.Movements().ListAmountAbove(ctx, "30")
	require.NoError(t, err)
	// Largest first, threshold is strict.
	require.Equal(t, []domain.Movement{seeded[0], seeded[1]}, above)

	none, err := s.Movements().ListAmountAbove(ctx, "100")
	require.NoError(t, err)
	require.Empty(t, none)

	_, err = s.Movements().ListAmountAbove(ctx, "!@#$")
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}
