//go:build integration

package accountrepo

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pruthvirajsm/bank-ledger/internal/customerrepo"
	"github.com/pruthvirajsm/bank-ledger/internal/domain"
	"github.com/pruthvirajsm/bank-ledger/pkg/configpkg"
	"github.com/pruthvirajsm/bank-ledger/pkg/randompkg"
)

var (
	testRepo         *RepoPGS
	testCustomerRepo *customerrepo.RepoPGS
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	testDB, err := sql.Open(config.DBDriver, config.DBSource)
	if err != nil {
		log.Fatal("cannot connect to db:", err)
	}

	testRepo = NewRepoPGS(testDB)
	testCustomerRepo = customerrepo.NewRepoPGS(testDB)

	os.Exit(m.Run())
}

func createRandomCustomer(t *testing.T) domain.Customer {
	t.Helper()

	customer, err := testCustomerRepo.Create(
		context.Background(),
		randompkg.Name(),
		int32(randompkg.Intn(60)+18),
		randompkg.Email(),
		"9876543210",
	)
	require.NoError(t, err)
	require.NotEmpty(t, customer)
	require.NotZero(t, customer.ID)
	require.NotZero(t, customer.CreatedAt)

	return customer
}

func createRandomAccount(t *testing.T, customer domain.Customer) domain.Account {
	t.Helper()

	testBalance := randompkg.MoneyAmountBetween(1_000, 10_000)
	testKind := randompkg.AccountKind()

	account, err := testRepo.Create(context.Background(), customer.ID, testKind, testBalance)
	require.NoError(t, err)
	require.NotEmpty(t, account)

	require.Equal(t, customer.ID, account.CustomerID)
	require.Equal(t, testKind, account.Kind)
	require.Equal(t, testBalance, account.Balance)

	require.NotZero(t, account.ID)
	require.NotZero(t, account.CreatedAt)

	return account
}

func TestCreate(t *testing.T) {
	testCustomer := createRandomCustomer(t)
	createRandomAccount(t, testCustomer)
}

func TestCreateConstraintViolations(t *testing.T) {
	testCustomer := createRandomCustomer(t)

	type input struct {
		customerID int64
		kind       domain.AccountKind
		balance    string
	}

	testCases := []struct {
		name          string
		input         input
		checkResponse func(response domain.Account, err error)
	}{
		{
			name:  "ErrCustomerNotFound",
			input: input{-1, domain.Savings, "1000"},
			checkResponse: func(response domain.Account, err error) {
				require.ErrorIs(t, err, domain.ErrCustomerNotFound)
				require.Empty(t, response)
			},
		},
		{
			name:  "ErrAccountKindInvalid",
			input: input{testCustomer.ID, "CHECKING", "1000"},
			checkResponse: func(response domain.Account, err error) {
				require.ErrorIs(t, err, domain.ErrAccountKindInvalid)
				require.Empty(t, response)
			},
		},
		{
			name:  "ErrNegativeBalance",
			input: input{testCustomer.ID, domain.Savings, "-1000"},
			checkResponse: func(response domain.Account, err error) {
				require.ErrorIs(t, err, domain.ErrNegativeBalance)
				require.Empty(t, response)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			response, err := testRepo.Create(context.Background(), tc.input.customerID, tc.input.kind, tc.input.balance)

			tc.checkResponse(response, err)
		})
	}
}

func TestGet(t *testing.T) {
	testCustomer := createRandomCustomer(t)
	testAccount := createRandomAccount(t, testCustomer)

	account2, err := testRepo.Get(context.Background(), testAccount.ID)
	require.NoError(t, err)
	require.NotEmpty(t, account2)

	require.Equal(t, testAccount.ID, account2.ID)
	require.Equal(t, testAccount.CustomerID, account2.CustomerID)
	require.Equal(t, testAccount.Kind, account2.Kind)
	require.Equal(t, testAccount.Balance, account2.Balance)
	require.WithinDuration(t, testAccount.CreatedAt, account2.CreatedAt, time.Second)
}

func TestGetNotFound(t *testing.T) {
	account, err := testRepo.Get(context.Background(), -1)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
	require.Empty(t, account)
}

func TestListByCustomer(t *testing.T) {
	testCustomer := createRandomCustomer(t)

	created := make([]domain.Account, 0, 5)
	for i := 0; i < 5; i++ {
		created = append(created, createRandomAccount(t, testCustomer))
	}

	accounts, err := testRepo.ListByCustomer(context.Background(), testCustomer.ID)
	require.NoError(t, err)
	require.Len(t, accounts, len(created))

	for _, account := range accounts {
		require.NotEmpty(t, account)
		require.Equal(t, testCustomer.ID, account.CustomerID)
	}
}

func TestAddBalance(t *testing.T) {
	testCustomer := createRandomCustomer(t)
	testAccount := createRandomAccount(t, testCustomer)
	testAmount := randompkg.MoneyAmountBetween(100, 1_000)

	balanceBefore, err := decimal.NewFromString(testAccount.Balance)
	require.NoError(t, err)
	delta, err := decimal.NewFromString(testAmount)
	require.NoError(t, err)

	account2, err := testRepo.AddBalance(context.Background(), testAmount, testAccount.ID)
	require.NoError(t, err)
	require.NotEmpty(t, account2)

	balanceAfter, err := decimal.NewFromString(account2.Balance)
	require.NoError(t, err)

	require.Equal(t, testAccount.ID, account2.ID)
	require.True(t, balanceBefore.Add(delta).Equal(balanceAfter))
}

func TestAddBalanceInsufficientFunds(t *testing.T) {
	testCustomer := createRandomCustomer(t)
	testAccount := createRandomAccount(t, testCustomer)

	balance, err := decimal.NewFromString(testAccount.Balance)
	require.NoError(t, err)

	overdraw := "-" + balance.Add(decimal.NewFromInt(1)).String()

	account2, err := testRepo.AddBalance(context.Background(), overdraw, testAccount.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	require.Empty(t, account2)

	// The rejected debit left the balance untouched.
	account3, err := testRepo.Get(context.Background(), testAccount.ID)
	require.NoError(t, err)
	require.Equal(t, testAccount.Balance, account3.Balance)
}
