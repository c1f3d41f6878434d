package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/pasto-verde/internal/cache"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/apperr"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *RepoMock) ListProducts(ctx context.Context) ([]*models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *RepoMock) UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *RepoMock) RemoveProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *RepoMock) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *RepoMock) UpdateUser(ctx context.Context, userID string, upd models.UserUpdate) (*models.User, error) {
	args := m.Called(ctx, userID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) ListSubscriptions(ctx context.Context, userID string, limit, offset int) ([]*models.Subscription, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *RepoMock) DeactivateSubscription(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestAdminService_CreateProduct(t *testing.T) {
	tests := []struct {
		name       string
		req        models.ProductRequest
		setupMocks func(r *RepoMock, c *CacheMock)
		errKind    apperr.Kind
	}{
		{
			name: "valid product",
			req:  models.ProductRequest{Name: " Alfombra 2x1 ", Price: "850.5", Stock: 4},
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p models.Product) bool {
					return p.Name == "Alfombra 2x1" && p.Price.Equal(decimal.RequireFromString("850.50")) && p.Stock == 4
				})).Return(&models.Product{ID: 2}, nil).Once()
				c.On("Invalidate", cache.KeyAdminOverview).Return(nil).Once()
			},
		},
		{
			name:       "negative price",
			req:        models.ProductRequest{Name: "X", Price: "-1"},
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			errKind:    apperr.KindValidation,
		},
		{
			name:       "missing name",
			req:        models.ProductRequest{Price: "10"},
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			errKind:    apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, c := new(RepoMock), new(CacheMock)
			tt.setupMocks(r, c)

			p, err := NewAdminService(r, c, newNoopLogger()).CreateProduct(context.Background(), tt.req)
			if tt.errKind != 0 {
				assert.True(t, apperr.Is(err, tt.errKind), "got %v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(2), p.ID)
			}
			r.AssertExpectations(t)
			c.AssertExpectations(t)
		})
	}
}

func TestAdminService_RemoveProductInUse(t *testing.T) {
	r, c := new(RepoMock), new(CacheMock)
	r.On("RemoveProduct", mock.Anything, int64(1)).Return(apperr.Conflict("product is referenced by orders")).Once()

	err := NewAdminService(r, c, newNoopLogger()).RemoveProduct(context.Background(), 1)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	c.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestAdminService_UpdateUser(t *testing.T) {
	driver := models.RoleDriver
	customer := models.RoleCustomer
	inactive := false

	tests := []struct {
		name    string
		adminID string
		userID  string
		upd     models.UserUpdate
		errKind apperr.Kind
	}{
		{name: "promote to driver", adminID: "admin", userID: "u1", upd: models.UserUpdate{Role: &driver}},
		{name: "demote self", adminID: "admin", userID: "admin", upd: models.UserUpdate{Role: &customer}, errKind: apperr.KindConflict},
		{name: "deactivate self", adminID: "admin", userID: "admin", upd: models.UserUpdate{IsActive: &inactive}, errKind: apperr.KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := new(RepoMock)
			if tt.errKind == 0 {
				r.On("UpdateUser", mock.Anything, tt.userID, tt.upd).
					Return(&models.User{ID: tt.userID, Role: models.RoleDriver, IsActive: true}, nil).Once()
			}

			user, err := NewAdminService(r, new(CacheMock), newNoopLogger()).UpdateUser(context.Background(), tt.adminID, tt.userID, tt.upd)
			if tt.errKind != 0 {
				assert.True(t, apperr.Is(err, tt.errKind))
				r.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.RoleDriver, user.Role)
			}
			r.AssertExpectations(t)
		})
	}
}

func TestAdminService_DeactivateSubscription(t *testing.T) {
	r, c := new(RepoMock), new(CacheMock)
	r.On("DeactivateSubscription", mock.Anything, int64(9)).Return(nil).Once()
	c.On("Invalidate", cache.KeyAdminOverview).Return(errors.New("redis down")).Once()

	err := NewAdminService(r, c, newNoopLogger()).DeactivateSubscription(context.Background(), 9)
	require.NoError(t, err)
	r.AssertExpectations(t)
	c.AssertExpectations(t)
}
