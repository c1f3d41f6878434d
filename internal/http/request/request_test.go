package request

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type quote struct {
	PlanID string `json:"plan_id" validate:"required,oneof=monthly annual"`
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
		wantBody   string
	}{
		{name: "valid", body: `{"plan_id":"monthly"}`, wantOK: true, wantStatus: http.StatusOK},
		{name: "broken json", body: `{"plan_id":`, wantStatus: http.StatusBadRequest, wantBody: "invalid request body"},
		{name: "unknown plan", body: `{"plan_id":"weekly"}`, wantStatus: http.StatusUnprocessableEntity, wantBody: "must be one of"},
		{name: "missing plan", body: `{}`, wantStatus: http.StatusUnprocessableEntity, wantBody: "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var dst quote
			ok := DecodeAndValidate(w, r, newNoopLogger(), validator.New(), &dst)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantOK {
				assert.Equal(t, "monthly", dst.PlanID)
			} else {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{query: "", wantLimit: 50, wantOffset: 0},
		{query: "limit=10&offset=20", wantLimit: 10, wantOffset: 20},
		{query: "limit=1000", wantLimit: 200, wantOffset: 0},
		{query: "limit=-1&offset=-5", wantLimit: 50, wantOffset: 0},
		{query: "limit=abc", wantLimit: 50, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			limit, offset := Pagination(r)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestInt64Param(t *testing.T) {
	withParam := func(v string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", v)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	w := httptest.NewRecorder()
	id, ok := Int64Param(w, withParam("42"), newNoopLogger(), "id")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	w = httptest.NewRecorder()
	_, ok = Int64Param(w, withParam("abc"), newNoopLogger(), "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "failed to decode id from url")
}
