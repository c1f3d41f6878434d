package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/pasto-verde/internal/lib/apperr"
	"github.com/magabrotheeeer/pasto-verde/internal/paymentprovider"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ProcessWebhook(ctx context.Context, headers paymentprovider.WebhookHeaders, body []byte) error {
	return m.Called(ctx, headers, body).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const eventBody = `{"id":"WH-1","event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAP-1","custom_id":"ORD-12345"}}`

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*MockService)
		expectedStatus int
	}{
		{
			name: "applied",
			body: eventBody,
			setupMocks: func(m *MockService) {
				m.On("ProcessWebhook", mock.Anything, mock.MatchedBy(func(h paymentprovider.WebhookHeaders) bool {
					return h.TransmissionID == "tx-1" && h.AuthAlgo == "SHA256withRSA"
				}), []byte(eventBody)).Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "empty body",
			setupMocks:     func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad signature",
			body: eventBody,
			setupMocks: func(m *MockService) {
				m.On("ProcessWebhook", mock.Anything, mock.Anything, mock.Anything).
					Return(apperr.Forbidden("invalid webhook signature")).Once()
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "storage failure asks for redelivery",
			body: eventBody,
			setupMocks: func(m *MockService) {
				m.On("ProcessWebhook", mock.Anything, mock.Anything, mock.Anything).
					Return(apperr.Persistence(errors.New("conn reset"))).Once()
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMocks(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(tt.body))
			req.Header.Set("Paypal-Transmission-Id", "tx-1")
			req.Header.Set("Paypal-Auth-Algo", "SHA256withRSA")
			w := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}
