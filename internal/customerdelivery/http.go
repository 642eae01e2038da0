// Package customerdelivery manages delivery layer of customers.
package customerdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/pruthvirajsm/bank-ledger/internal/customerservice"
	"github.com/pruthvirajsm/bank-ledger/internal/domain"
	"github.com/pruthvirajsm/bank-ledger/pkg/errorspkg"
	"github.com/pruthvirajsm/bank-ledger/pkg/web"
)

// Service provides service layer interface needed by customer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package customerdelivery
type Service interface {
	Register(ctx context.Context, name string, age int32, email, contactNumber string) (domain.Customer, error)
	Get(ctx context.Context, id int64) (domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (domain.Customer, error)
	SearchByName(ctx context.Context, name string) ([]domain.Customer, error)
	Update(ctx context.Context, arg domain.UpdateCustomerParams) (domain.Customer, error)
	Delete(ctx context.Context, id int64) error
}

// Handler facilitates customer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns customer handler.
func NewHandler(cs Service) Handler {
	return Handler{service: cs}
}

type customerRequest struct {
	Name          string `json:"name" binding:"required"`
	Age           int32  `json:"age" binding:"required,min=18,max=120"`
	Email         string `json:"email" binding:"required,email"`
	ContactNumber string `json:"contact_number" binding:"required"`
}

type idURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Register handles http request to register a customer.
func (h *Handler) Register(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req customerRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	customer, err := h.service.Register(ctx, req.Name, req.Age, req.Email, req.ContactNumber)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: customer})
}

// Get handles http request to get a customer by id or, with the email query
// parameter, by email.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var uri idURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	customer, err := h.service.Get(ctx, uri.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: customer})
}

type searchRequest struct {
	Name  string `form:"name"`
	Email string `form:"email"`
}

// Search handles http request to find customers by name fragment or email.
func (h *Handler) Search(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req searchRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	if req.Email != "" {
		customer, err := h.service.GetByEmail(ctx, req.Email)
		if err != nil {
			respondError(gctx, err)
			return
		}

		gctx.JSON(http.StatusOK, web.Response{Data: customer})

		return
	}

	customers, err := h.service.SearchByName(ctx, req.Name)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: customers})
}

// Update handles http request to overwrite a customer record.
func (h *Handler) Update(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var uri idURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	var req customerRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	customer, err := h.service.Update(ctx, domain.UpdateCustomerParams{
		ID:            uri.ID,
		Name:          req.Name,
		Age:           req.Age,
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: customer})
}

// Delete handles http request to delete a customer without accounts.
func (h *Handler) Delete(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var uri idURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	if err := h.service.Delete(ctx, uri.ID); err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusNoContent, nil)
}

func respondError(gctx *gin.Context, err error) {
	switch {
	case errors.Is(err, customerservice.ErrEmptyName):
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	case errors.Is(err, domain.ErrCustomerNotFound):
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrCustomerHasAccounts):
		gctx.JSON(http.StatusConflict, web.Error(err))
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
