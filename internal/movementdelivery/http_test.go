package movementdelivery

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pruthvirajsm/bank-ledger/internal/domain"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(service Service) *gin.Engine {
	handler := NewHandler(service)

	server := gin.New()
	server.GET("/accounts/:id/movements", handler.History)
	server.GET("/accounts/:id/summary", handler.Summary)
	server.GET("/movements", handler.List)
	server.GET("/movements/recent", handler.Recent)
	server.GET("/movements/:id", handler.Get)

	return server
}

func testMovements() []domain.Movement {
	accountID := int64(1)

	return []domain.Movement{
		{ID: 2, Kind: domain.Withdraw, FromAccountID: &accountID, Amount: "40"},
		{ID: 1, Kind: domain.Deposit, ToAccountID: &accountID, Amount: "100"},
	}
}

func TestRecentAPI(t *testing.T) {
	movements := testMovements()

	testCases := []struct {
		name          string
		url           string
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "DefaultLimit",
			url:  "/movements/recent",
			buildStubs: func(service *MockService) {
				service.EXPECT().Recent(gomock.Any(), gomock.Eq(int32(10))).
					Times(1).
					Return(movements, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
		{
			name: "ZeroLimit",
			url:  "/movements/recent?limit=0",
			buildStubs: func(service *MockService) {
				service.EXPECT().Recent(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "LimitTooLarge",
			url:  "/movements/recent?limit=101",
			buildStubs: func(service *MockService) {
				service.EXPECT().Recent(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "ExplicitLimit",
			url:  "/movements/recent?limit=2",
			buildStubs: func(service *MockService) {
				service.EXPECT().Recent(gomock.Any(), gomock.Eq(int32(2))).
					Times(1).
					Return(movements, nil)
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

func TestListAPI(t *testing.T) {
	movements := testMovements()

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name          string
		url           string
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "MissingFilter",
			url:  "/movements",
			buildStubs: func(service *MockService) {
				service.EXPECT().ListByKind(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "ByKind",
			url:  "/movements?kind=DEPOSIT",
			buildStubs: func(service *MockService) {
				service.EXPECT().ListByKind(gomock.Any(), gomock.Eq("DEPOSIT")).
					Times(1).
					Return(movements[1:], nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
		{
			name: "ByKindUnsupported",
			url:  "/movements?kind=REFUND",
			buildStubs: func(service *MockService) {
				service.EXPECT().ListByKind(gomock.Any(), gomock.Eq("REFUND")).
					Times(1).
					Return(nil, domain.ErrMovementKindInvalid)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "ByTimeRange",
			url:  "/movements?since=2024-01-01T00:00:00Z&until=2024-02-01T00:00:00Z",
			buildStubs: func(service *MockService) {
				service.EXPECT().ListByTimeRange(gomock.Any(), gomock.Eq(since), gomock.Eq(until)).
					Times(1).
					Return(movements, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
		{
			name: "ByTimeRangeMalformed",
			url:  "/movements?since=yesterday&until=today",
			buildStubs: func(service *MockService) {
				service.EXPECT().ListByTimeRange(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "ByMinAmount",
			url:  "/movements?min_amount=50",
			buildStubs: func(service *MockService) {
				service.EXPECT().ListAmountAbove(gomock.Any(), gomock.Eq("50")).
					Times(1).
					Return(movements[1:], nil)
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

func TestSummaryAPI(t *testing.T) {
	summary := domain.Summary{
		Count:          3,
		TotalDeposited: "100",
		TotalWithdrawn: "40",
		TotalSent:      "20",
		TotalReceived:  "0",
	}

	testCases := []struct {
		name          string
		url           string
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "InvalidID",
			url:  "/accounts/0/summary",
			buildStubs: func(service *MockService) {
				service.EXPECT().Summarize(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "OK",
			url:  "/accounts/1/summary",
			buildStubs: func(service *MockService) {
				service.EXPECT().Summarize(gomock.Any(), gomock.Eq(int64(1))).
					Times(1).
					Return(summary, nil)
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
	accountID := int64(1)
	movement := domain.Movement{ID: 7, Kind: domain.Deposit, ToAccountID: &accountID, Amount: "100"}

	testCases := []struct {
		name          string
		url           string
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "NotFound",
			url:  "/movements/42",
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Eq(int64(42))).
					Times(1).
					Return(domain.Movement{}, domain.ErrMovementNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name: "OK",
			url:  "/movements/7",
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Eq(int64(7))).
					Times(1).
					Return(movement, nil)
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
