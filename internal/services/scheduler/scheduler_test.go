package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/pasto-verde/internal/cache"
	"github.com/magabrotheeeer/pasto-verde/internal/config"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) AdvanceOrders(ctx context.Context, from, to models.OrderStatus, olderThan time.Time) ([]models.OrderNotification, error) {
	args := m.Called(ctx, from, to, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OrderNotification), args.Error(1)
}

func (m *MockRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, message any) error {
	return m.Called(ctx, routingKey, message).Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var (
	now     = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	testCfg = config.Scheduler{
		AdvanceSpec:    "@every 10m",
		ExpireSpec:     "@hourly",
		ShippedAfter:   24 * time.Hour,
		DeliveredAfter: 72 * time.Hour,
	}
)

func newScheduler(r *MockRepository, p *MockPublisher, c *MockCache) *SchedulerService {
	s := NewSchedulerService(r, p, c, testCfg, newNoopLogger())
	s.now = func() time.Time { return now }
	return s
}

func TestSchedulerService_AdvanceOrders(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*MockRepository, *MockPublisher, *MockCache)
		wantMoved  int
	}{
		{
			name: "moves both steps and notifies",
			setupMocks: func(r *MockRepository, p *MockPublisher, c *MockCache) {
				r.On("AdvanceOrders", mock.Anything, models.OrderStatusShipped, models.OrderStatusDelivered, now.Add(-72*time.Hour)).
					Return([]models.OrderNotification{{OrderID: "ORD-1", Email: "a@example.com", Status: models.OrderStatusDelivered}}, nil).Once()
				r.On("AdvanceOrders", mock.Anything, models.OrderStatusConfirmed, models.OrderStatusShipped, now.Add(-24*time.Hour)).
					Return([]models.OrderNotification{{OrderID: "ORD-2", Email: "b@example.com", Status: models.OrderStatusShipped}}, nil).Once()
				p.On("Publish", mock.Anything, rabbitmq.RoutingKeyOrderStatus, mock.MatchedBy(func(n models.OrderNotification) bool {
					return n.OrderID == "ORD-1" && n.Label == "Orden Entregada" && n.Progress == 100
				})).Return(nil).Once()
				p.On("Publish", mock.Anything, rabbitmq.RoutingKeyOrderStatus, mock.MatchedBy(func(n models.OrderNotification) bool {
					return n.OrderID == "ORD-2" && n.Label == "Orden Enviada" && n.Progress == 66
				})).Return(nil).Once()
				c.On("Invalidate", cache.KeyAdminOverview).Return(nil).Once()
			},
			wantMoved: 2,
		},
		{
			name: "nothing to move",
			setupMocks: func(r *MockRepository, _ *MockPublisher, _ *MockCache) {
				r.On("AdvanceOrders", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return([]models.OrderNotification{}, nil).Twice()
			},
		},
		{
			name: "failed step does not stop the next one",
			setupMocks: func(r *MockRepository, p *MockPublisher, c *MockCache) {
				r.On("AdvanceOrders", mock.Anything, models.OrderStatusShipped, models.OrderStatusDelivered, mock.Anything).
					Return(nil, errors.New("db error")).Once()
				r.On("AdvanceOrders", mock.Anything, models.OrderStatusConfirmed, models.OrderStatusShipped, mock.Anything).
					Return([]models.OrderNotification{{OrderID: "ORD-2", Status: models.OrderStatusShipped}}, nil).Once()
				p.On("Publish", mock.Anything, rabbitmq.RoutingKeyOrderStatus, mock.Anything).Return(errors.New("channel closed")).Once()
				c.On("Invalidate", cache.KeyAdminOverview).Return(nil).Once()
			},
			wantMoved: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, p, c := new(MockRepository), new(MockPublisher), new(MockCache)
			tt.setupMocks(r, p, c)

			moved := newScheduler(r, p, c).AdvanceOrders(context.Background())
			assert.Equal(t, tt.wantMoved, moved)
			r.AssertExpectations(t)
			p.AssertExpectations(t)
			c.AssertExpectations(t)
		})
	}
}

func TestSchedulerService_NeverTouchesPendingOrders(t *testing.T) {
	r, p, c := new(MockRepository), new(MockPublisher), new(MockCache)
	r.On("AdvanceOrders", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]models.OrderNotification{}, nil)

	newScheduler(r, p, c).AdvanceOrders(context.Background())

	for _, call := range r.Calls {
		assert.NotEqual(t, models.OrderStatusPending, call.Arguments.Get(1))
	}
}

func TestSchedulerService_ExpireSubscriptions(t *testing.T) {
	r, p, c := new(MockRepository), new(MockPublisher), new(MockCache)
	r.On("DeactivateExpired", mock.Anything, now).Return(int64(3), nil).Once()
	c.On("Invalidate", cache.KeyAdminOverview).Return(nil).Once()

	assert.Equal(t, int64(3), newScheduler(r, p, c).ExpireSubscriptions(context.Background()))
	r.AssertExpectations(t)
	c.AssertExpectations(t)

	r2 := new(MockRepository)
	r2.On("DeactivateExpired", mock.Anything, now).Return(int64(0), errors.New("db error")).Once()
	assert.Zero(t, newScheduler(r2, p, c).ExpireSubscriptions(context.Background()))
}

func TestSchedulerService_NewCron(t *testing.T) {
	r, p, c := new(MockRepository), new(MockPublisher), new(MockCache)

	cr, err := newScheduler(r, p, c).NewCron(context.Background())
	require.NoError(t, err)
	assert.Len(t, cr.Entries(), 2)

	s := newScheduler(r, p, c)
	s.cfg.AdvanceSpec = "every now and then"
	_, err = s.NewCron(context.Background())
	assert.Error(t, err)
}
