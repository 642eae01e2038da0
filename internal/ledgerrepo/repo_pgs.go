// Package ledgerrepo implements the atomic unit of work coupling balance
// changes to movement records. It is the only write path for account balances.
package ledgerrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pruthvirajsm/bank-ledger/internal/accountrepo"
	"github.com/pruthvirajsm/bank-ledger/internal/domain"
	"github.com/pruthvirajsm/bank-ledger/internal/movementrepo"
	"github.com/pruthvirajsm/bank-ledger/pkg/errorspkg"
)

// DefaultLockTimeout bounds how long an operation waits for row locks before
// failing with domain.ErrBusy.
const DefaultLockTimeout = 3 * time.Second

// RepoPGS facilitates ledger unit-of-work logic.
type RepoPGS struct {
	conn        *sql.DB
	lockTimeout time.Duration
}

// NewRepoPGS returns ledger RepoPGS with connection to start transactions.
func NewRepoPGS(conn *sql.DB, lockTimeout time.Duration) *RepoPGS {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}

	return &RepoPGS{
		conn:        conn,
		lockTimeout: lockTimeout,
	}
}

// Deposit credits the account and records a DEPOSIT movement, both in one
// transaction. Either both commit or neither does.
func (r *RepoPGS) Deposit(ctx context.Context, accountID int64, amount string) (domain.LedgerTxResult, error) {
	var result domain.LedgerTxResult

	err := r.execTx(ctx, func(accounts *accountrepo.RepoPGS, movements *movementrepo.RepoPGS) error {
		account, err := accounts.AddBalance(ctx, amount, accountID)
		if err != nil {
			return err
		}

		movement, err := movements.Create(ctx, domain.Deposit, nil, &accountID, amount)
		if err != nil {
			return err
		}

		result.Account = account
		result.Movement = movement

		return nil
	})

	return result, err
}

// Withdraw debits the account and records a WITHDRAW movement, both in one
// transaction. The balance check and the debit are a single atomic statement.
func (r *RepoPGS) Withdraw(ctx context.Context, accountID int64, amount string) (domain.LedgerTxResult, error) {
	var result domain.LedgerTxResult

	debit, err := negated(amount)
	if err != nil {
		return result, err
	}

	err = r.execTx(ctx, func(accounts *accountrepo.RepoPGS, movements *movementrepo.RepoPGS) error {
		account, err := accounts.AddBalance(ctx, debit, accountID)
		if err != nil {
			return err
		}

		movement, err := movements.Create(ctx, domain.Withdraw, &accountID, nil, amount)
		if err != nil {
			return err
		}

		result.Account = account
		result.Movement = movement

		return nil
	})

	return result, err
}

// Transfer debits the source, credits the destination and records a single
// TRANSFER movement, all in one transaction. Money is never left in flight:
// a failure at any step rolls back every change.
func (r *RepoPGS) Transfer(ctx context.Context, fromAccountID, toAccountID int64, amount string) (domain.TransferTxResult, error) {
	var result domain.TransferTxResult

	debit, err := negated(amount)
	if err != nil {
		return result, err
	}

	err = r.execTx(ctx, func(accounts *accountrepo.RepoPGS, movements *movementrepo.RepoPGS) error {
		var (
			fromAccount, toAccount domain.Account
			err                    error
		)

		// To avoid deadlocks execute statements in consistent id order
		if fromAccountID < toAccountID {
			fromAccount, toAccount, err = addBalances(ctx, accounts,
				addBalanceParams{fromAccountID, debit, toAccountID, amount})
		} else {
			toAccount, fromAccount, err = addBalances(ctx, accounts,
				addBalanceParams{toAccountID, amount, fromAccountID, debit})
		}

		if err != nil {
			return err
		}

		movement, err := movements.Create(ctx, domain.Transfer, &fromAccountID, &toAccountID, amount)
		if err != nil {
			return err
		}

		result.FromAccount = fromAccount
		result.ToAccount = toAccount
		result.Movement = movement

		return nil
	})

	return result, err
}

// execTx runs fn within a transaction with a bounded lock wait.
// Any error from fn rolls the whole transaction back.
func (r *RepoPGS) execTx(ctx context.Context, fn func(*accountrepo.RepoPGS, *movementrepo.RepoPGS) error) error {
	l := zerolog.Ctx(ctx)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Send()
		}
	}()

	lockTimeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
	if _, err := tx.ExecContext(ctx, lockTimeout); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if err := fn(accountrepo.NewRepoPGS(tx), movementrepo.NewRepoPGS(tx)); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.ErrBusy
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

// negated parses the amount and returns its negation in canonical numeric
// form. String concatenation would mangle inputs like "+10".
func negated(amount string) (string, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "", domain.ErrInvalidAmount
	}

	return d.Neg().String(), nil
}

type addBalanceParams struct {
	account1ID int64
	amount1    string
	account2ID int64
	amount2    string
}

func addBalances(ctx context.Context, r *accountrepo.RepoPGS, arg addBalanceParams) (domain.Account, domain.Account, error) {
	account1, err := r.AddBalance(ctx, arg.amount1, arg.account1ID)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	account2, err := r.AddBalance(ctx, arg.amount2, arg.account2ID)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	return account1, account2, nil
}
