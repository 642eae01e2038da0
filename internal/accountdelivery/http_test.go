package accountdelivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pruthvirajsm/bank-ledger/internal/domain"
	"github.com/pruthvirajsm/bank-ledger/pkg/errorspkg"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("accountkind", ValidAccountKind); err != nil {
			panic(err)
		}
	}

	os.Exit(m.Run())
}

func newTestServer(service Service) *gin.Engine {
	handler := NewHandler(service)

	server := gin.New()
	server.POST("/accounts", handler.Create)
	server.GET("/accounts", handler.List)
	server.GET("/accounts/:id", handler.Get)
	server.GET("/customers/:id/accounts", handler.ListByCustomer)

	return server
}

func TestCreateAPI(t *testing.T) {
	account := domain.Account{ID: 1, CustomerID: 1, Kind: domain.Savings, Balance: "500"}

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "MissingCustomerID",
			requestBody: gin.H{
				"kind":            string(domain.Savings),
				"initial_balance": "500",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "UnsupportedKind",
			requestBody: gin.H{
				"customer_id":     1,
				"kind":            "CHECKING",
				"initial_balance": "500",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "CustomerNotFound",
			requestBody: gin.H{
				"customer_id":     42,
				"kind":            string(domain.Savings),
				"initial_balance": "500",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Eq(int64(42)), gomock.Eq(string(domain.Savings)), gomock.Eq("500")).
					Times(1).
					Return(domain.Account{}, domain.ErrCustomerNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name: "NegativeBalance",
			requestBody: gin.H{
				"customer_id":     1,
				"kind":            string(domain.Savings),
				"initial_balance": "-500",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Eq(int64(1)), gomock.Eq(string(domain.Savings)), gomock.Eq("-500")).
					Times(1).
					Return(domain.Account{}, domain.ErrNegativeBalance)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "InternalError",
			requestBody: gin.H{
				"customer_id":     1,
				"kind":            string(domain.Savings),
				"initial_balance": "500",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Eq(int64(1)), gomock.Eq(string(domain.Savings)), gomock.Eq("500")).
					Times(1).
					Return(domain.Account{}, errorspkg.ErrInternal)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
		{
			name: "OK",
			requestBody: gin.H{
				"customer_id":     1,
				"kind":            string(domain.Savings),
				"initial_balance": "500",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Eq(int64(1)), gomock.Eq(string(domain.Savings)), gomock.Eq("500")).
					Times(1).
					Return(account, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			server := newTestServer(service)

			tc.buildStubs(service)

			recorder := httptest.NewRecorder()

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			req, err := http.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
			require.NoError(t, err)

			server.ServeHTTP(recorder, req)
			tc.checkResponse(recorder)
		})
	}
}

func TestListAPI(t *testing.T) {
	accounts := []domain.Account{
		{ID: 1, CustomerID: 1, Kind: domain.Savings, Balance: "500"},
		{ID: 2, CustomerID: 1, Kind: domain.Current, Balance: "900"},
	}

	testCases := []struct {
		name          string
		url           string
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "MissingFilter",
			url:  "/accounts",
			buildStubs: func(service *MockService) {
				service.EXPECT().ListByCustomer(gomock.Any(), gomock.Any()).Times(0)
				service.EXPECT().ListByKind(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "ByCustomer",
			url:  "/accounts?customer_id=1",
			buildStubs: func(service *MockService) {
				service.EXPECT().ListByCustomer(gomock.Any(), gomock.Eq(int64(1))).
					Times(1).
					Return(accounts, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
		{
			name: "ByKind",
			url:  "/accounts?kind=SAVINGS",
			buildStubs: func(service *MockService) {
				service.EXPECT().ListByKind(gomock.Any(), gomock.Eq("SAVINGS")).
					Times(1).
					Return(accounts[:1], nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
		{
			name: "ByKindUnsupported",
			url:  "/accounts?kind=CHECKING",
			buildStubs: func(service *MockService) {
				service.EXPECT().ListByKind(gomock.Any(), gomock.Eq("CHECKING")).
					Times(1).
					Return(nil, domain.ErrAccountKindInvalid)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "ByCustomerURI",
			url:  "/customers/1/accounts",
			buildStubs: func(service *MockService) {
				service.EXPECT().ListByCustomer(gomock.Any(), gomock.Eq(int64(1))).
					Times(1).
					Return(accounts, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			server := newTestServer(service)

			tc.buildStubs(service)

			recorder := httptest.NewRecorder()

			req, err := http.NewRequest(http.MethodGet, tc.url, nil)
			require.NoError(t, err)

			server.ServeHTTP(recorder, req)
			tc.checkResponse(recorder)
		})
	}
}

func TestGetAPI(t *testing.T) {
	account := domain.Account{ID: 1, CustomerID: 1, Kind: domain.Savings, Balance: "500"}

	testCases := []struct {
		name          string
		url           string
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "InvalidID",
			url:  "/accounts/0",
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "NotFound",
			url:  "/accounts/42",
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Eq(int64(42))).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name: "OK",
			url:  "/accounts/1",
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Eq(int64(1))).
					Times(1).
					Return(account, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			server := newTestServer(service)

			tc.buildStubs(service)

			recorder := httptest.NewRecorder()

			req, err := http.NewRequest(http.MethodGet, tc.url, nil)
			require.NoError(t, err)

			server.ServeHTTP(recorder, req)
			tc.checkResponse(recorder)
		})
	}
}
