package tests

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"overcooked-pos/api-gateway/internal/gateway"
	"overcooked-pos/api-gateway/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testConfig = gateway.Config{
	LedgerSvcURL:    "http://ledger-svc",
	AnalyticsSvcURL: "http://analytics-svc",
}

func TestGateway_HealthCheck(t *testing.T) {
	gw := gateway.NewGateway(gateway.Config{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	gw.SetupRoutes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	json.NewDecoder(rr.Body).Decode(&body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "api-gateway", body["service"])
}

func TestGateway_Upstream(t *testing.T) {
	gw := gateway.NewGateway(testConfig, nil)

	tests := []struct {
		path string
		want string
	}{
		{"/api/orders", "http://ledger-svc"},
		{"/api/orders/5/receipt/qrcode", "http://ledger-svc"},
		{"/api/payments", "http://ledger-svc"},
		{"/api/accounts/2", "http://ledger-svc"},
		{"/api/menu", "http://ledger-svc"},
		{"/api/customers", "http://ledger-svc"},
		{"/place-order", "http://ledger-svc"},
		{"/process-payment", "http://ledger-svc"},
		{"/api/reports/daily-revenue", "http://analytics-svc"},
		{"/top-customers", "http://analytics-svc"},
		{"/api/ordersx", ""},
		{"/api/unknown", ""},
		{"/index.html", ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.path, func(t *testing.T) {
			assert.Equal(t, testCase.want, gw.Upstream(testCase.path))
		})
	}
}

func TestGateway_ProxiesPayment(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(testConfig, mockClient)

	mockResp := &http.Response{
		StatusCode: http.StatusConflict,
		Body:       io.NopCloser(strings.NewReader(`{"error":"order already paid"}`)),
		Header:     make(http.Header),
	}
	mockResp.Header.Set("Content-Type", "application/json")

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Method == http.MethodPost &&
			req.URL.String() == "http://ledger-svc/api/payments" &&
			req.Header.Get("X-Request-ID") != ""
	})).Return(mockResp, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(`{"order_id":1}`))
	rr := httptest.NewRecorder()

	gw.SetupRoutes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "already paid")
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestGateway_KeepsQueryAndRequestID(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(testConfig, mockClient)

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == "http://analytics-svc/api/reports/top-menu-items?limit=3" &&
			req.Header.Get("X-Request-ID") == "req-42"
	})).Return(&http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`[]`)),
		Header:     make(http.Header),
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/reports/top-menu-items?limit=3", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGateway_RouteHandler_UnknownAPI(t *testing.T) {
	gw := gateway.NewGateway(testConfig, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGateway_RouteHandler_ProxyError(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(testConfig, mockClient)

	mockClient.On("Do", mock.Anything).Return(nil, errors.New("connection failed")).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/menu", nil)
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}
