// Package movementdelivery manages delivery layer of the movement log.
package movementdelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/pruthvirajsm/bank-ledger/internal/domain"
	"github.com/pruthvirajsm/bank-ledger/pkg/errorspkg"
	"github.com/pruthvirajsm/bank-ledger/pkg/web"
)

// Service provides service layer interface needed by movement delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package movementdelivery
type Service interface {
	Get(ctx context.Context, id int64) (domain.Movement, error)
	History(ctx context.Context, accountID int64) ([]domain.Movement, error)
	ListByKind(ctx context.Context, kind string) ([]domain.Movement, error)
	ListByTimeRange(ctx context.Context, since, until time.Time) ([]domain.Movement, error)
	ListAmountAbove(ctx context.Context, amount string) ([]domain.Movement, error)
	Recent(ctx context.Context, limit int32) ([]domain.Movement, error)
	Summarize(ctx context.Context, accountID int64) (domain.Summary, error)
}

// Handler facilitates movement delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns movement handler.
func NewHandler(ms Service) Handler {
	return Handler{service: ms}
}

type idURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Get handles http request to fetch one movement.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var uri idURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	movement, err := h.service.Get(ctx, uri.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: movement})
}

// History handles http request to list an account's movements, most recent first.
func (h *Handler) History(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var uri idURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	movements, err := h.service.History(ctx, uri.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: movements})
}

// Summary handles http request to aggregate an account's movements.
func (h *Handler) Summary(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var uri idURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	summary, err := h.service.Summarize(ctx, uri.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: summary})
}

type recentRequest struct {
	Limit int32 `form:"limit,default=10" binding:"min=1,max=100"`
}

// Recent handles http request to list the latest movements across all accounts.
func (h *Handler) Recent(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req recentRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	movements, err := h.service.Recent(ctx, req.Limit)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: movements})
}

type listRequest struct {
	Kind      string `form:"kind"`
	Since     string `form:"since"`
	Until     string `form:"until"`
	MinAmount string `form:"min_amount"`
}

// List handles http request to filter movements by kind, time range or amount.
// Exactly one filter is applied, checked in that order.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	var (
		movements []domain.Movement
		err       error
	)

	switch {
	case req.Kind != "":
		movements, err = h.service.ListByKind(ctx, req.Kind)
	case req.Since != "" && req.Until != "":
		var since, until time.Time

		since, err = time.Parse(time.RFC3339, req.Since)
		if err == nil {
			until, err = time.Parse(time.RFC3339, req.Until)
		}

		if err != nil {
			l.Info().Err(err).Send()
			gctx.JSON(http.StatusBadRequest, web.Response{Error: "since and until must be RFC3339 timestamps"})

			return
		}

		movements, err = h.service.ListByTimeRange(ctx, since, until)
	case req.MinAmount != "":
		movements, err = h.service.ListAmountAbove(ctx, req.MinAmount)
	default:
		gctx.JSON(http.StatusBadRequest, web.Response{Error: "one of kind, since+until or min_amount is required"})
		return
	}

	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: movements})
}

func respondError(gctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidLimit),
		errors.Is(err, domain.ErrMovementKindInvalid):
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	case errors.Is(err, domain.ErrMovementNotFound), errors.Is(err, domain.ErrAccountNotFound):
		gctx.JSON(http.StatusNotFound, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

func bindErrorMsg(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + web.GetErrorMsg(field)
	}

	return "invalid request"
}
