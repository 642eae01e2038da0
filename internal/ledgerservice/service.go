// Package ledgerservice manages business logic layer of the ledger engine.
package ledgerservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pruthvirajsm/bank-ledger/internal/domain"
)

// Repo provides the atomic unit-of-work interface needed by the ledger service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type Repo interface {
	Deposit(ctx context.Context, accountID int64, amount string) (domain.LedgerTxResult, error)
	Withdraw(ctx context.Context, accountID int64, amount string) (domain.LedgerTxResult, error)
	Transfer(ctx context.Context, fromAccountID, toAccountID int64, amount string) (domain.TransferTxResult, error)
}

// Service facilitates ledger service layer logic.
//
// Rejections carry no side effect; the repo rolls back its own partial work on
// storage faults. The service never retries a money-mutating operation.
type Service struct {
	repo Repo
}

// New returns ledger service struct to manage ledger business logic.
func New(r Repo) *Service {
	return &Service{repo: r}
}

// normalizedAmount validates the amount and returns its canonical numeric
// form, so forms like "+10" or "1e2" never reach the storage layer.
func normalizedAmount(ctx context.Context, amount string) (string, error) {
	l := zerolog.Ctx(ctx)

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return "", domain.ErrInvalidAmount
	}

	if amountDecimal.LessThanOrEqual(decimal.Zero) {
		return "", domain.ErrInvalidAmount
	}

	return amountDecimal.String(), nil
}

// Deposit credits the account and returns the committed result.
func (s *Service) Deposit(ctx context.Context, accountID int64, amount string) (domain.LedgerTxResult, error) {
	amount, err := normalizedAmount(ctx, amount)
	if err != nil {
		return domain.LedgerTxResult{}, err
	}

	return s.repo.Deposit(ctx, accountID, amount)
}

// Withdraw debits the account and returns the committed result.
func (s *Service) Withdraw(ctx context.Context, accountID int64, amount string) (domain.LedgerTxResult, error) {
	amount, err := normalizedAmount(ctx, amount)
	if err != nil {
		return domain.LedgerTxResult{}, err
	}

	return s.repo.Withdraw(ctx, accountID, amount)
}

// Transfer moves the amount between two distinct accounts and returns the
// committed result.
func (s *Service) Transfer(ctx context.Context, fromAccountID, toAccountID int64, amount string) (domain.TransferTxResult, error) {
	amount, err := normalizedAmount(ctx, amount)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	if fromAccountID == toAccountID {
		return domain.TransferTxResult{}, domain.ErrSameAccount
	}

	return s.repo.Transfer(ctx, fromAccountID, toAccountID, amount)
}
