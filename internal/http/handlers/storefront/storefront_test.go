package storefront

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/pasto-verde/internal/geocoding"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/apperr"
)

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Search(ctx context.Context, query string) (*geocoding.Result, error) {
	args := m.Called(ctx, query)
	if res := args.Get(0); res != nil {
		return res.(*geocoding.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandler_Plans(t *testing.T) {
	w := httptest.NewRecorder()
	New(newNoopLogger(), nil).Plans(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/plans", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Suscripción Mensual")
	assert.Contains(t, w.Body.String(), `"delivery_windows":["AM (7am - 12pm)"]`)
}

func TestHandler_Zones(t *testing.T) {
	w := httptest.NewRecorder()
	New(newNoopLogger(), nil).Zones(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/zones", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Zona 7"`)
	assert.Contains(t, w.Body.String(), `"center":{"lat":14.0818,"lon":-87.2068}`)
}

func TestHandler_Geocode(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMocks     func(*MockGeocoder)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "found",
			query: "?q=Col.+Palmira",
			setupMocks: func(m *MockGeocoder) {
				m.On("Search", mock.Anything, "Col. Palmira").Return(&geocoding.Result{
					Latitude: 14.1, Longitude: -87.2, FormattedAddress: "Colonia Palmira, Tegucigalpa", Zone: "Zona 1",
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"zone":"Zona 1"`,
		},
		{
			name:           "empty query",
			query:          "?q=+",
			setupMocks:     func(_ *MockGeocoder) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "query parameter q is required",
		},
		{
			name:  "not found",
			query: "?q=nowhere",
			setupMocks: func(m *MockGeocoder) {
				m.On("Search", mock.Anything, "nowhere").Return(nil, apperr.NotFound("address not found")).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "address not found",
		},
		{
			name:  "provider down",
			query: "?q=Kennedy",
			setupMocks: func(m *MockGeocoder) {
				m.On("Search", mock.Anything, "Kennedy").Return(nil, apperr.External("geocoding", errors.New("timeout"))).Once()
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   "geocoding unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := new(MockGeocoder)
			tt.setupMocks(g)

			w := httptest.NewRecorder()
			New(newNoopLogger(), g).Geocode(w, httptest.NewRequest(http.MethodGet, "/api/v1/geocode"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			g.AssertExpectations(t)
		})
	}
}
