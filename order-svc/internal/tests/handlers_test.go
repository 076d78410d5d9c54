package tests

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	httpapi "tableside/order-svc/internal/api/http"
	"tableside/order-svc/internal/domain"
	"tableside/order-svc/internal/mocks"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type handlerMocks struct {
	catalog       *mocks.CatalogServiceInterface
	carts         *mocks.CartServiceInterface
	orders        *mocks.OrderServiceInterface
	notifications *mocks.NotificationServiceInterface
}

func setupTestRouter(t *testing.T) (*mux.Router, handlerMocks) {
	m := handlerMocks{
		catalog:       mocks.NewCatalogServiceInterface(t),
		carts:         mocks.NewCartServiceInterface(t),
		orders:        mocks.NewOrderServiceInterface(t),
		notifications: mocks.NewNotificationServiceInterface(t),
	}
	handler := httpapi.NewHandler(m.catalog, m.carts, m.orders, m.notifications, zap.NewNop())
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return r, m
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestHandler_advanceStatus(t *testing.T) {
	router, m := setupTestRouter(t)

	tests := []struct {
		name         string
		payload      string
		prepareMocks func()
		expectedCode int
		expectedBody string
	}{
		{
			name:    "success",
			payload: `{"status":"confirmed"}`,
			prepareMocks: func() {
				m.orders.On("AdvanceStatus", mock.Anything, "ab1", domain.OrderConfirmed).
					Return(&domain.Order{Code: "AB1", Status: domain.OrderConfirmed}, nil).Once()
			},
			expectedCode: http.StatusOK,
			expectedBody: `"status":"confirmed"`,
		},
		{
			name:         "invalid_json",
			payload:      `bad json`,
			prepareMocks: func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "unknown_status",
			payload:      `{"status":"eaten"}`,
			prepareMocks: func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:    "invalid_transition",
			payload: `{"status":"served"}`,
			prepareMocks: func() {
				m.orders.On("AdvanceStatus", mock.Anything, "ab1", domain.OrderServed).
					Return(nil, fmt.Errorf("%w: pending -> served", domain.ErrInvalidTransition)).Once()
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:    "not_found",
			payload: `{"status":"confirmed"}`,
			prepareMocks: func() {
				m.orders.On("AdvanceStatus", mock.Anything, "ab1", domain.OrderConfirmed).
					Return(nil, domain.ErrOrderNotFound).Once()
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.prepareMocks()
			recorder := serve(router, "POST", "/api/orders/ab1/status", testCase.payload)
			assert.Equal(t, testCase.expectedCode, recorder.Code)
			if testCase.expectedBody != "" {
				assert.Contains(t, recorder.Body.String(), testCase.expectedBody)
			}
		})
	}
}

func TestHandler_finalizeCart(t *testing.T) {
	router, m := setupTestRouter(t)

	tests := []struct {
		name         string
		payload      string
		prepareMocks func()
		expectedCode int
		expectedBody string
	}{
		{
			name:    "created",
			payload: `{"table_number":5,"customer_name":"Ana"}`,
			prepareMocks: func() {
				m.carts.On("Finalize", mock.Anything, "s-1", 5, "Ana").
					Return(&domain.Order{Code: "K2P", TableNumber: 5, Status: domain.OrderPending}, nil).Once()
			},
			expectedCode: http.StatusCreated,
			expectedBody: `"code":"K2P"`,
		},
		{
			name:    "empty_cart",
			payload: `{"table_number":5}`,
			prepareMocks: func() {
				m.carts.On("Finalize", mock.Anything, "s-1", 5, "").Return(nil, domain.ErrEmptyCart).Once()
			},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name:    "codes_exhausted",
			payload: `{"table_number":5}`,
			prepareMocks: func() {
				m.carts.On("Finalize", mock.Anything, "s-1", 5, "").Return(nil, domain.ErrCodeSpaceExhausted).Once()
			},
			expectedCode: http.StatusServiceUnavailable,
		},
		{
			name:    "store_failure",
			payload: `{"table_number":5}`,
			prepareMocks: func() {
				m.carts.On("Finalize", mock.Anything, "s-1", 5, "").Return(nil, errors.New("connection reset")).Once()
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.prepareMocks()
			recorder := serve(router, "POST", "/api/carts/s-1/finalize", testCase.payload)
			assert.Equal(t, testCase.expectedCode, recorder.Code)
			if testCase.expectedBody != "" {
				assert.Contains(t, recorder.Body.String(), testCase.expectedBody)
			}
		})
	}
}

func TestHandler_listDishes(t *testing.T) {
	router, m := setupTestRouter(t)

	drinks := domain.CategoryDrink
	m.catalog.On("ListDishes", mock.Anything, &drinks).
		Return([]domain.Dish{{ID: "drink-1", Name: "Fresh Lemonade", Category: drinks}}, nil).Once()

	recorder := serve(router, "GET", "/api/dishes?category=drink", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	var dishes []domain.Dish
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&dishes))
	assert.Len(t, dishes, 1)

	recorder = serve(router, "GET", "/api/dishes?category=soup", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandler_cartItems(t *testing.T) {
	router, m := setupTestRouter(t)

	m.carts.On("AddItem", mock.Anything, "s-2", "app-1").
		Return(&domain.CartView{Session: "s-2", ItemCount: 1, Total: decimal.RequireFromString("8.99")}, nil).Once()
	m.carts.On("AddItem", mock.Anything, "s-2", "main-3").
		Return(nil, domain.ErrUnavailableDish).Once()
	m.carts.On("RemoveItem", mock.Anything, "s-2", "app-1").
		Return(&domain.CartView{Session: "s-2"}, nil).Once()

	recorder := serve(router, "POST", "/api/carts/s-2/items", `{"dish_id":"app-1"}`)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"item_count":1`)

	recorder = serve(router, "POST", "/api/carts/s-2/items", `{"dish_id":"main-3"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	recorder = serve(router, "DELETE", "/api/carts/s-2/items/app-1", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestHandler_orderItems(t *testing.T) {
	router, m := setupTestRouter(t)
	order := &domain.Order{Code: "Q1Z", Status: domain.OrderPreparing}

	m.orders.On("AddItem", mock.Anything, "Q1Z", "drink-2", 1, "").Return(order, nil).Once()
	m.orders.On("SendAdditionalItems", mock.Anything, "Q1Z").Return(nil, domain.ErrNoNewItems).Once()
	m.orders.On("UpdateItemQuantity", mock.Anything, "Q1Z", "drink-2", -1).Return(nil, domain.ErrEmptyOrder).Once()
	m.orders.On("AdvanceItemStatus", mock.Anything, "Q1Z", "item-7", domain.ItemReady).Return(order, nil).Once()

	recorder := serve(router, "POST", "/api/orders/Q1Z/items", `{"dish_id":"drink-2"}`)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = serve(router, "POST", "/api/orders/Q1Z/items/send", "")
	assert.Equal(t, http.StatusConflict, recorder.Code)

	recorder = serve(router, "PATCH", "/api/orders/Q1Z/items/drink-2", `{"delta":-1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	recorder = serve(router, "PATCH", "/api/orders/Q1Z/items/drink-2", `{"delta":0}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = serve(router, "POST", "/api/orders/Q1Z/items/item-7/status", `{"status":"ready"}`)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestHandler_listOrders(t *testing.T) {
	router, m := setupTestRouter(t)

	m.orders.On("ListByStatus", mock.Anything, domain.OrderPending).Return(nil, nil).Once()
	m.orders.On("ListByStatus", mock.Anything, domain.OrderReady).
		Return([]domain.Order{{Code: "AAA"}, {Code: "BBB"}}, nil).Once()

	recorder := serve(router, "GET", "/api/orders", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `[]`, recorder.Body.String())

	recorder = serve(router, "GET", "/api/orders?status=ready", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	var orders []domain.Order
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&orders))
	assert.Len(t, orders, 2)

	recorder = serve(router, "GET", "/api/orders?status=lost", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandler_totalAndReceipt(t *testing.T) {
	router, m := setupTestRouter(t)

	m.orders.On("ComputeTotal", mock.Anything, "x7y").Return(decimal.RequireFromString("30.97"), nil).Once()
	m.orders.On("Receipt", mock.Anything, "X7Y").Return(&domain.Receipt{
		Code:         "X7Y",
		CustomerName: "Guest",
		Total:        decimal.RequireFromString("34.07"),
	}, nil).Once()
	m.orders.On("QRCode", mock.Anything, "X7Y").Return([]byte("\x89PNG"), nil).Once()

	recorder := serve(router, "GET", "/api/orders/x7y/total", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"code":"X7Y","total":"30.97"}`, recorder.Body.String())

	recorder = serve(router, "GET", "/api/orders/X7Y/receipt", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"customer_name":"Guest"`)

	recorder = serve(router, "GET", "/api/orders/X7Y/qrcode", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "image/png", recorder.Header().Get("Content-Type"))
}

func TestHandler_readyNotifications(t *testing.T) {
	router, m := setupTestRouter(t)

	ready := []domain.ReadyOrder{{Code: "AAA", TableNumber: 3}, {Code: "BBB", TableNumber: 4}}
	m.notifications.On("Ready", mock.Anything, "maria").Return(ready, ready[1:], nil).Once()
	m.notifications.On("Ack", mock.Anything, "maria", "AAA").Return(nil).Once()

	recorder := serve(router, "GET", "/api/notifications/ready", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = serve(router, "GET", "/api/notifications/ready?waiter=maria", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	var body struct {
		Ready []domain.ReadyOrder `json:"ready"`
		New   []domain.ReadyOrder `json:"new"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Len(t, body.Ready, 2)
	require.Len(t, body.New, 1)
	assert.Equal(t, "BBB", body.New[0].Code)

	recorder = serve(router, "POST", "/api/notifications/ready/AAA/ack?waiter=maria", "")
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestHandler_setAvailability(t *testing.T) {
	router, m := setupTestRouter(t)

	m.catalog.On("SetAvailability", mock.Anything, "main-3", false).Return(nil).Once()
	m.catalog.On("SetAvailability", mock.Anything, "ghost", true).Return(domain.ErrDishNotFound).Once()

	recorder := serve(router, "PATCH", "/api/dishes/main-3/availability", `{"available":false}`)
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = serve(router, "PATCH", "/api/dishes/ghost/availability", `{"available":true}`)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = serve(router, "PATCH", "/api/dishes/main-3/availability", `{}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRouter_CORSAndHealth(t *testing.T) {
	handler := httpapi.NewHandler(nil, nil, nil, nil, zap.NewNop())
	router := httpapi.NewRouter(handler, []string{"http://localhost:5173"})

	req := httptest.NewRequest("OPTIONS", "/api/orders", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, "http://localhost:5173", recorder.Header().Get("Access-Control-Allow-Origin"))

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"service":"order-svc"`)
}
