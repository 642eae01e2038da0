// Package movementservice manages business logic layer of the movement log.
package movementservice

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pruthvirajsm/bank-ledger/internal/domain"
)

// RecentLimitMax bounds the recent movement listing.
const RecentLimitMax = 100

// Repo provides data access layer interface needed by movement service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package movementservice
type Repo interface {
	Get(ctx context.Context, id int64) (domain.Movement, error)
	ListByAccount(ctx context.Context, accountID int64) ([]domain.Movement, error)
	ListByKind(ctx context.Context, kind domain.MovementKind) ([]domain.Movement, error)
	ListByTimeRange(ctx context.Context, since, until time.Time) ([]domain.Movement, error)
	ListAmountAbove(ctx context.Context, amount string) ([]domain.Movement, error)
	Recent(ctx context.Context, limit int32) ([]domain.Movement, error)
	Summarize(ctx context.Context, accountID int64) (domain.Summary, error)
	Count(ctx context.Context) (int64, error)
}

// Service facilitates movement service layer logic.
// The movement log is read-only here; appends happen only inside the ledger
// engine's unit of work.
type Service struct {
	repo Repo
}

// New returns movement service struct to manage movement business logic.
func New(mr Repo) *Service {
	return &Service{repo: mr}
}

// Get returns the movement with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Movement, error) {
	return s.repo.Get(ctx, id)
}

// History returns the movements touching the given account, most recent first.
func (s *Service) History(ctx context.Context, accountID int64) ([]domain.Movement, error) {
	return s.repo.ListByAccount(ctx, accountID)
}

// ListByKind returns the movements of the given kind, most recent first.
func (s *Service) ListByKind(ctx context.Context, kind string) ([]domain.Movement, error) {
	if !domain.IsSupportedMovementKind(kind) {
		return nil, domain.ErrMovementKindInvalid
	}

	return s.repo.ListByKind(ctx, domain.MovementKind(kind))
}

// ListByTimeRange returns the movements committed between since and until.
func (s *Service) ListByTimeRange(ctx context.Context, since, until time.Time) ([]domain.Movement, error) {
	return s.repo.ListByTimeRange(ctx, since, until)
}

// ListAmountAbove returns the movements with amount above the given threshold.
func (s *Service) ListAmountAbove(ctx context.Context, amount string) ([]domain.Movement, error) {
	threshold, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, domain.ErrInvalidAmount
	}

	return s.repo.ListAmountAbove(ctx, threshold.String())
}

// Recent returns the most recent limit movements across all accounts.
// The limit must be between 1 and RecentLimitMax.
func (s *Service) Recent(ctx context.Context, limit int32) ([]domain.Movement, error) {
	if limit < 1 || limit > RecentLimitMax {
		return nil, domain.ErrInvalidLimit
	}

	return s.repo.Recent(ctx, limit)
}

// Summarize aggregates the movements touching the given account.
func (s *Service) Summarize(ctx context.Context, accountID int64) (domain.Summary, error) {
	return s.repo.Summarize(ctx, accountID)
}

// Count returns the total number of recorded movements.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
