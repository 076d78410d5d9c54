package tests

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tableside/api-gateway/internal/gateway"
	"tableside/api-gateway/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testConfig = gateway.Config{
	OrderSvcURL:     "http://order-svc",
	AnalyticsSvcURL: "http://analytics-svc/",
}

func jsonResponse(status int, body string) *http.Response {
	resp := &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp
}

func TestGateway_HealthCheck(t *testing.T) {
	gw := gateway.NewGateway(gateway.Config{}, nil, nil)

	rr := httptest.NewRecorder()
	gw.SetupRoutes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "api-gateway", body["service"])
}

func TestGateway_Upstream(t *testing.T) {
	gw := gateway.NewGateway(testConfig, nil, nil)

	tests := []struct {
		path   string
		want   string
		routed bool
	}{
		{path: "/api/admin/summary", want: testConfig.AnalyticsSvcURL, routed: true},
		{path: "/api/admin/top-dishes", want: testConfig.AnalyticsSvcURL, routed: true},
		{path: "/api/admin", want: testConfig.AnalyticsSvcURL, routed: true},
		{path: "/api/administrators", want: testConfig.OrderSvcURL, routed: true},
		{path: "/api/orders/K7Z/receipt", want: testConfig.OrderSvcURL, routed: true},
		{path: "/api/carts/t5/finalize", want: testConfig.OrderSvcURL, routed: true},
		{path: "/api/notifications/ready", want: testConfig.OrderSvcURL, routed: true},
		{path: "/favicon.ico"},
	}

	for _, testCase := range tests {
		t.Run(testCase.path, func(t *testing.T) {
			got, ok := gw.Upstream(testCase.path)
			assert.Equal(t, testCase.routed, ok)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestGateway_ProxiesAdminToAnalytics(t *testing.T) {
	client := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(testConfig, client, zap.NewNop())

	client.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == "http://analytics-svc/api/admin/top-dishes?limit=3" &&
			req.Header.Get("Accept") == "application/json"
	})).Return(jsonResponse(http.StatusOK, `[{"dish_id":"main-2","quantity":9}]`), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/top-dishes?limit=3", nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	gw.SetupRoutes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "main-2")
}

func TestGateway_ForwardsBodyAndStatus(t *testing.T) {
	client := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(testConfig, client, zap.NewNop())

	var forwarded string
	client.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Method == http.MethodPost &&
			req.URL.String() == "http://order-svc/api/orders/K7Z/status" &&
			req.Header.Get("X-Forwarded-For") == "192.0.2.1"
	})).Run(func(args mock.Arguments) {
		body, _ := io.ReadAll(args.Get(0).(*http.Request).Body)
		forwarded = string(body)
	}).Return(jsonResponse(http.StatusConflict, "order has items still in progress"), nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/orders/K7Z/status", strings.NewReader(`{"status":"served"}`))
	rr := httptest.NewRecorder()
	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "still in progress")
	assert.Equal(t, `{"status":"served"}`, forwarded)
}

func TestGateway_UpstreamDown(t *testing.T) {
	client := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(testConfig, client, zap.NewNop())
	client.On("Do", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	rr := httptest.NewRecorder()
	gw.RouteHandler(rr, httptest.NewRequest(http.MethodGet, "/api/dishes", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.NotContains(t, rr.Body.String(), "connection refused")
}

func TestGateway_UnknownRoute(t *testing.T) {
	gw := gateway.NewGateway(testConfig, nil, nil)

	rr := httptest.NewRecorder()
	gw.SetupRoutes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/index.html", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
