// Package services содержит отчеты для панели администратора.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/pasto-verde/internal/cache"
	"github.com/magabrotheeeer/pasto-verde/internal/catalog"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/apperr"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
	"github.com/magabrotheeeer/pasto-verde/internal/storage"
)

const (
	overviewTTL      = time.Minute
	recentOrders     = 10
	topProductsLimit = 10
	defaultPeriod    = 30 * 24 * time.Hour
	maxPeriod        = 366 * 24 * time.Hour
)

// ReportRepository определяет агрегирующие запросы хранилища.
type ReportRepository interface {
	Totals(ctx context.Context) (*models.Overview, error)
	OrdersByStatus(ctx context.Context) ([]models.GroupCount, error)
	OrderAddressTotals(ctx context.Context) ([]storage.AddressTotal, error)
	RecentOrders(ctx context.Context, limit int) ([]*models.Order, error)
	DailySales(ctx context.Context, from, to time.Time) ([]*models.DailySales, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]*models.TopProduct, error)
	NewUsersPerDay(ctx context.Context, from, to time.Time) ([]*models.NewUsers, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// ReportingService строит сводку и аналитику продаж.
type ReportingService struct {
	repo  ReportRepository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// NewReportingService создает новый экземпляр ReportingService.
func NewReportingService(repo ReportRepository, cache Cache, log *slog.Logger) *ReportingService {
	return &ReportingService{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Overview возвращает сводку, по возможности из кеша.
func (s *ReportingService) Overview(ctx context.Context) (*models.Overview, error) {
	const op = "services.reporting.Overview"

	var cached models.Overview
	found, err := s.cache.Get(cache.KeyAdminOverview, &cached)
	if err != nil {
		s.log.Warn("failed to read overview from cache", slog.String("key", cache.KeyAdminOverview), slog.Any("err", err))
	}
	if found {
		return &cached, nil
	}

	overview, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if overview.OrdersByStatus, err = s.repo.OrdersByStatus(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	totals, err := s.repo.OrderAddressTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	overview.OrdersByArea = GroupByArea(totals)
	if overview.RecentOrders, err = s.repo.RecentOrders(ctx, recentOrders); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(cache.KeyAdminOverview, overview, overviewTTL); err != nil {
		s.log.Warn("failed to cache overview", slog.String("key", cache.KeyAdminOverview), slog.Any("err", err))
	}
	return overview, nil
}

// GroupByArea группирует заказы по району из адреса доставки.
// Группы упорядочены по убыванию количества, затем по названию.
func GroupByArea(totals []storage.AddressTotal) []models.GroupCount {
	byArea := make(map[string]*models.GroupCount)
	for _, t := range totals {
		area := catalog.AreaOf(t.Address)
		g, ok := byArea[area]
		if !ok {
			g = &models.GroupCount{Key: area, Revenue: decimal.Zero}
			byArea[area] = g
		}
		g.Count++
		g.Revenue = g.Revenue.Add(t.Total)
	}

	groups := make([]models.GroupCount, 0, len(byArea))
	for _, g := range byArea {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// Analytics возвращает продажи по дням, лучшие товары и регистрации за период.
// Нулевые границы заменяются последними 30 днями.
func (s *ReportingService) Analytics(ctx context.Context, from, to time.Time) (*models.Analytics, error) {
	const op = "services.reporting.Analytics"

	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() {
		from = to.Add(-defaultPeriod)
	}
	if from.After(to) {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation("from must not be after to"))
	}
	if to.Sub(from) > maxPeriod {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation("period must not exceed one year"))
	}

	res := &models.Analytics{From: from, To: to}
	var err error
	if res.DailySales, err = s.repo.DailySales(ctx, from, to); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if res.TopProducts, err = s.repo.TopProducts(ctx, from, to, topProductsLimit); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if res.NewUsers, err = s.repo.NewUsersPerDay(ctx, from, to); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}
