package orders

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/pasto-verde/internal/http/middlewarectx"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/apperr"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Quote(ctx context.Context, req models.QuoteRequest) (*models.Quote, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Quote), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) Checkout(ctx context.Context, userID string, req models.CheckoutRequest) (*models.CheckoutResult, error) {
	args := m.Called(ctx, userID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.CheckoutResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) ListForUser(ctx context.Context, userID string) ([]*models.OrderView, error) {
	args := m.Called(ctx, userID)
	if res := args.Get(0); res != nil {
		return res.([]*models.OrderView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, userID string, role models.Role, orderID string) (*models.OrderView, error) {
	args := m.Called(ctx, userID, role, orderID)
	if res := args.Get(0); res != nil {
		return res.(*models.OrderView), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) ConfirmPayment(ctx context.Context, userID, orderID string, req models.PaymentConfirmRequest) (*models.Order, error) {
	args := m.Called(ctx, userID, orderID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newRequest(method, url, body, orderID string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
	}
	ctx := context.WithValue(req.Context(), middlewarectx.UserID, "auth0|1")
	ctx = context.WithValue(ctx, middlewarectx.Role, models.RoleCustomer)
	if orderID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", orderID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

const checkoutBody = `{"plan_id":"monthly","street":"Casa 12","area":"Col. Palmira","delivery_date":"2026-03-12","delivery_window":"AM (7am - 12pm)"}`

func TestHandler_Checkout(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*MockOrderService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "monthly plan",
			body: checkoutBody,
			setupMocks: func(m *MockOrderService) {
				m.On("Checkout", mock.Anything, "auth0|1", mock.MatchedBy(func(r models.CheckoutRequest) bool {
					return r.PlanID == "monthly" && r.Area == "Col. Palmira"
				})).Return(&models.CheckoutResult{
					Order: &models.Order{
						ID:         "ORD-12345",
						Status:     models.OrderStatusPending,
						TotalPrice: decimal.RequireFromString("1080.00"),
					},
					Subscription: &models.Subscription{PlanName: "Suscripción Mensual", IsActive: true},
					TotalUSD:     "43.20",
				}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":"ORD-12345"`,
		},
		{
			name: "plan by display name reaches service",
			body: `{"plan_id":"Suscripción Mensual","street":"Casa 12","area":"Col. Palmira","delivery_date":"2026-03-12","delivery_window":"AM (7am - 12pm)"}`,
			setupMocks: func(m *MockOrderService) {
				m.On("Checkout", mock.Anything, "auth0|1", mock.MatchedBy(func(r models.CheckoutRequest) bool {
					return r.PlanID == "Suscripción Mensual"
				})).Return(&models.CheckoutResult{
					Order: &models.Order{ID: "ORD-12345", PlanID: "monthly", TotalPrice: decimal.RequireFromString("1080.00")},
				}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"plan_id":"monthly"`,
		},
		{
			name: "unknown plan",
			body: `{"plan_id":"weekly","street":"a","area":"b","delivery_date":"2026-03-12","delivery_window":"AM (7am - 12pm)"}`,
			setupMocks: func(m *MockOrderService) {
				m.On("Checkout", mock.Anything, "auth0|1", mock.Anything).
					Return(nil, apperr.Validation("unknown plan")).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "unknown plan",
		},
		{
			name:           "missing plan",
			body:           `{"street":"a","area":"b","delivery_date":"2026-03-12","delivery_window":"AM (7am - 12pm)"}`,
			setupMocks:     func(_ *MockOrderService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "field PlanID is a required field",
		},
		{
			name: "date in the past",
			body: checkoutBody,
			setupMocks: func(m *MockOrderService) {
				m.On("Checkout", mock.Anything, "auth0|1", mock.Anything).
					Return(nil, apperr.Validation("delivery date is in the past")).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "delivery date is in the past",
		},
		{
			name: "storage failure",
			body: checkoutBody,
			setupMocks: func(m *MockOrderService) {
				m.On("Checkout", mock.Anything, "auth0|1", mock.Anything).
					Return(nil, apperr.Persistence(errors.New("tx aborted"))).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not create order"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := new(MockOrderService)
			tt.setupMocks(orders)

			w := httptest.NewRecorder()
			New(newNoopLogger(), orders, new(MockPaymentService)).
				Checkout(w, newRequest(http.MethodPost, "/api/v1/orders", tt.body, ""))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			orders.AssertExpectations(t)
		})
	}
}

func TestHandler_CheckoutUnauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(checkoutBody))
	w := httptest.NewRecorder()

	New(newNoopLogger(), new(MockOrderService), new(MockPaymentService)).Checkout(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_List(t *testing.T) {
	orders := new(MockOrderService)
	orders.On("ListForUser", mock.Anything, "auth0|1").Return([]*models.OrderView{{
		Order:    models.Order{ID: "ORD-12345", Status: models.OrderStatusShipped},
		Tracking: models.TrackingFor(models.OrderStatusShipped),
	}}, nil).Once()

	w := httptest.NewRecorder()
	New(newNoopLogger(), orders, new(MockPaymentService)).
		List(w, newRequest(http.MethodGet, "/api/v1/orders", "", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tracking":{"label":"Orden Enviada","progress":66}`)
}

func TestHandler_GetForeignOrder(t *testing.T) {
	orders := new(MockOrderService)
	orders.On("Get", mock.Anything, "auth0|1", models.RoleCustomer, "ORD-99999").
		Return(nil, apperr.NotFound("order not found")).Once()

	w := httptest.NewRecorder()
	New(newNoopLogger(), orders, new(MockPaymentService)).
		Get(w, newRequest(http.MethodGet, "/api/v1/orders/ORD-99999", "", "ORD-99999"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	orders.AssertExpectations(t)
}

func TestHandler_ConfirmPayment(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*MockPaymentService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "verified",
			body: `{"provider_order_id":"5O190127TN364715T"}`,
			setupMocks: func(m *MockPaymentService) {
				m.On("ConfirmPayment", mock.Anything, "auth0|1", "ORD-12345",
					models.PaymentConfirmRequest{ProviderOrderID: "5O190127TN364715T"}).
					Return(&models.Order{ID: "ORD-12345", Status: models.OrderStatusConfirmed, PaymentStatus: models.PaymentStatusPaid}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"payment_status":"paid"`,
		},
		{
			name:           "non alphanumeric provider id",
			body:           `{"provider_order_id":"5O19-0127"}`,
			setupMocks:     func(_ *MockPaymentService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "can contain only numbers and letters",
		},
		{
			name: "amount mismatch",
			body: `{"provider_order_id":"5O190127TN364715T"}`,
			setupMocks: func(m *MockPaymentService) {
				m.On("ConfirmPayment", mock.Anything, "auth0|1", "ORD-12345", mock.Anything).
					Return(nil, apperr.Validation("payment amount does not match order")).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "payment amount does not match order",
		},
		{
			name: "paypal unavailable",
			body: `{"provider_order_id":"5O190127TN364715T"}`,
			setupMocks: func(m *MockPaymentService) {
				m.On("ConfirmPayment", mock.Anything, "auth0|1", "ORD-12345", mock.Anything).
					Return(nil, apperr.External("paypal", errors.New("timeout"))).Once()
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   "paypal unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payments := new(MockPaymentService)
			tt.setupMocks(payments)

			w := httptest.NewRecorder()
			New(newNoopLogger(), new(MockOrderService), payments).
				ConfirmPayment(w, newRequest(http.MethodPost, "/api/v1/orders/ORD-12345/payment", tt.body, "ORD-12345"))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			payments.AssertExpectations(t)
		})
	}
}
