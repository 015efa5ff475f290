package tests

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	httpapi "overcooked-pos/analytics-svc/internal/api/http"
	"overcooked-pos/analytics-svc/internal/domain"
	"overcooked-pos/analytics-svc/internal/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, analytics *mocks.AnalyticsInterface, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := httpapi.NewRouter(httpapi.NewHandler(analytics))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestDailyRevenueHandler(t *testing.T) {
	for _, path := range []string{"/api/reports/daily-revenue", "/daily-revenue"} {
		t.Run(path, func(t *testing.T) {
			analytics := mocks.NewAnalyticsInterface(t)
			analytics.On("DailyRevenue", mock.Anything).Return([]domain.DailyRevenue{
				{OrderDate: "2026-03-14", DailyRevenue: decimal.RequireFromString("22.25")},
			}, nil)

			w := serve(t, analytics, path)

			assert.Equal(t, http.StatusOK, w.Code)
			var body []map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.Len(t, body, 1)
			assert.Equal(t, "2026-03-14", body[0]["order_date"])
			assert.Equal(t, "22.25", body[0]["daily_revenue"])
		})
	}
}

func TestTopMenuItemsHandler(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		setupMock func(*mocks.AnalyticsInterface)
		wantCode  int
	}{
		{
			name: "default limit",
			path: "/api/reports/top-menu-items",
			setupMock: func(m *mocks.AnalyticsInterface) {
				m.On("TopMenuItems", mock.Anything, 5).Return([]domain.TopMenuItem{{Name: "Soup", TotalQuantitySold: 7}}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "explicit limit on legacy path",
			path: "/top-menu-items?limit=3",
			setupMock: func(m *mocks.AnalyticsInterface) {
				m.On("TopMenuItems", mock.Anything, 3).Return([]domain.TopMenuItem{}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:      "invalid limit",
			path:      "/api/reports/top-menu-items?limit=abc",
			setupMock: func(m *mocks.AnalyticsInterface) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "service error",
			path: "/api/reports/top-menu-items",
			setupMock: func(m *mocks.AnalyticsInterface) {
				m.On("TopMenuItems", mock.Anything, 5).Return(nil, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			analytics := mocks.NewAnalyticsInterface(t)
			testCase.setupMock(analytics)

			w := serve(t, analytics, testCase.path)

			assert.Equal(t, testCase.wantCode, w.Code)
		})
	}
}

func TestTopCustomersHandler(t *testing.T) {
	analytics := mocks.NewAnalyticsInterface(t)
	analytics.On("TopCustomers", mock.Anything, 5).Return([]domain.TopCustomer{
		{CustomerName: "Ada Lovelace", TotalSpent: decimal.RequireFromString("22.25")},
	}, nil)

	w := serve(t, analytics, "/top-customers")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"customer_name":"Ada Lovelace"`)
}

func TestAnalyticsHealth(t *testing.T) {
	w := serve(t, mocks.NewAnalyticsInterface(t), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "analytics-svc")
}
