package movementservice

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pruthvirajsm/bank-ledger/internal/domain"
)

func testMovements() []domain.Movement {
	accountID := int64(1)

	return []domain.Movement{
		{
			ID:            2,
			Kind:          domain.Withdraw,
			FromAccountID: &accountID,
			Amount:        "40",
			CreatedAt:     time.Now().Truncate(time.Second).UTC(),
		},
		{
			ID:          1,
			Kind:        domain.Deposit,
			ToAccountID: &accountID,
			Amount:      "100",
			CreatedAt:   time.Now().Truncate(time.Second).UTC(),
		},
	}
}

func TestRecent(t *testing.T) {
	movements := testMovements()

	testCases := []struct {
		name          string
		limit         int32
		buildStubs    func(repo *MockRepo)
		checkResponse func(res []domain.Movement, err error)
	}{
		{
			name:  "ZeroLimit",
			limit: 0,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Recent(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res []domain.Movement, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrInvalidLimit)
			},
		},
		{
			name:  "NegativeLimit",
			limit: -5,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Recent(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res []domain.Movement, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrInvalidLimit)
			},
		},
		{
			name:  "LimitTooLarge",
			limit: RecentLimitMax + 1,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Recent(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res []domain.Movement, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrInvalidLimit)
			},
		},
		{
			name:  "MaxLimitOK",
			limit: RecentLimitMax,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Recent(gomock.Any(), gomock.Eq(int32(RecentLimitMax))).
					Times(1).
					Return(movements, nil)
			},
			checkResponse: func(res []domain.Movement, err error) {
				require.NoError(t, err)
				require.Equal(t, movements, res)
			},
		},
		{
			name:  "OK",
			limit: 10,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Recent(gomock.Any(), gomock.Eq(int32(10))).
					Times(1).
					Return(movements, nil)
			},
			checkResponse: func(res []domain.Movement, err error) {
				require.NoError(t, err)
				require.Equal(t, movements, res)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			service := New(repo)

			tc.buildStubs(repo)

			tc.checkResponse(service.Recent(context.Background(), tc.limit))
		})
	}
}

func TestListByKind(t *testing.T) {
	movements := testMovements()

	testCases := []struct {
		name          string
		kind          string
		buildStubs    func(repo *MockRepo)
		checkResponse func(res []domain.Movement, err error)
	}{
		{
			name: "UnsupportedKind",
			kind: "REFUND",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().ListByKind(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res []domain.Movement, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrMovementKindInvalid)
			},
		},
		{
			name: "OK",
			kind: string(domain.Withdraw),
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().ListByKind(gomock.Any(), gomock.Eq(domain.Withdraw)).
					Times(1).
					Return(movements[:1], nil)
			},
			checkResponse: func(res []domain.Movement, err error) {
				require.NoError(t, err)
				require.Equal(t, movements[:1], res)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			service := New(repo)

			tc.buildStubs(repo)

			tc.checkResponse(service.ListByKind(context.Background(), tc.kind))
		})
	}
}

func TestListAmountAbove(t *testing.T) {
	movements := testMovements()

	testCases := []struct {
		name          string
		amount        string
		buildStubs    func(repo *MockRepo)
		checkResponse func(res []domain.Movement, err error)
	}{
		{
			name:   "MalformedAmount",
			amount: "!@#$",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().ListAmountAbove(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res []domain.Movement, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
			},
		},
		{
			name:   "OK",
			amount: "50",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().ListAmountAbove(gomock.Any(), gomock.Eq("50")).
					Times(1).
					Return(movements[1:], nil)
			},
			checkResponse: func(res []domain.Movement, err error) {
				require.NoError(t, err)
				require.Equal(t, movements[1:], res)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			service := New(repo)

			tc.buildStubs(repo)

			tc.checkResponse(service.ListAmountAbove(context.Background(), tc.amount))
		})
	}
}

func TestSummarize(t *testing.T) {
	summary := domain.Summary{
		Count:          3,
		TotalDeposited: "100",
		TotalWithdrawn: "40",
		TotalSent:      "20",
		TotalReceived:  "0",
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	service := New(repo)

	repo.EXPECT().Summarize(gomock.Any(), gomock.Eq(int64(1))).
		Times(1).
		Return(summary, nil)

	res, err := service.Summarize(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, summary, res)
}
