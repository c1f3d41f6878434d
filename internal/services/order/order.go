// Package services содержит бизнес-логику заказов: расчет стоимости,
// оформление с подпиской, создание заказа администратором со списанием
// остатка и переходы статусов.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/pasto-verde/internal/cache"
	"github.com/magabrotheeeer/pasto-verde/internal/catalog"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/apperr"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
	"github.com/magabrotheeeer/pasto-verde/internal/metrics"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
	"github.com/magabrotheeeer/pasto-verde/internal/storage"
)

const (
	dateLayout   = "2006-01-02"
	maxIDRetries = 5
)

// OrderRepository определяет методы хранилища для работы с заказами.
type OrderRepository interface {
	CreateOrderWithSubscription(ctx context.Context, order *models.Order, sub *models.Subscription) error
	CreateOrderWithStock(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*models.Order, error)
	ListOrders(ctx context.Context, status string, limit, offset int) ([]*models.Order, error)
	ListDeliverableOrders(ctx context.Context) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListPayments(ctx context.Context, orderID string) ([]*models.PaymentTransaction, error)
}

// Cache нужен только для сброса сводки администратора.
type Cache interface {
	Invalidate(key string) error
}

// Publisher публикует уведомления о смене статуса.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Options параметры оформления заказа.
type Options struct {
	GrassProductID int64
	PromoCode      string
	USDRate        float64
}

// OrderService реализует жизненный цикл заказа.
type OrderService struct {
	repo      OrderRepository
	cache     Cache
	publisher Publisher
	pricer    *catalog.Pricer
	opts      Options
	validate  *validator.Validate
	log       *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewOrderService создает новый экземпляр OrderService.
func NewOrderService(repo OrderRepository, cache Cache, publisher Publisher, opts Options, log *slog.Logger) *OrderService {
	if opts.GrassProductID == 0 {
		opts.GrassProductID = 1
	}
	return &OrderService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		pricer:    catalog.NewPricer(opts.PromoCode),
		opts:      opts,
		validate:  validator.New(),
		log:       log,
		now:       time.Now,
		newID:     NewOrderID,
	}
}

// NewOrderID генерирует идентификатор вида ORD-12345.
func NewOrderID() string {
	return fmt.Sprintf("ORD-%d", 10000+rand.IntN(90000))
}

// Quote рассчитывает стоимость плана без создания заказа.
func (s *OrderService) Quote(_ context.Context, req models.QuoteRequest) (*models.Quote, error) {
	const op = "services.order.Quote"

	plan, ok := catalog.Lookup(req.PlanID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation("unknown plan"))
	}
	price := s.pricer.Compute(plan, req.PromoCode)
	return &models.Quote{
		PlanID:     string(plan.ID),
		PlanName:   plan.Name,
		BasePrice:  price.Base,
		Discount:   price.Discount,
		Total:      price.Total,
		TotalUSD:   catalog.ToUSD(price.Total, s.opts.USDRate),
		PromoValid: price.PromoValid,
	}, nil
}

// Checkout оформляет заказ покупателя. Для подписочных планов подписка
// создается в той же транзакции. Остаток товара не списывается.
func (s *OrderService) Checkout(ctx context.Context, userID string, req models.CheckoutRequest) (*models.CheckoutResult, error) {
	const op = "services.order.Checkout"

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation(validationMessage(err)))
	}
	plan, ok := catalog.Lookup(req.PlanID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation("unknown plan"))
	}
	deliveryDate, err := s.parseDeliveryDate(req.DeliveryDate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !catalog.ValidDeliveryWindow(req.DeliveryWindow) {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation("unknown delivery window"))
	}
	if strings.TrimSpace(req.Street) == "" || strings.TrimSpace(req.Area) == "" {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation("street and area are required"))
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation("latitude and longitude go together"))
	}

	price := s.pricer.Compute(plan, req.PromoCode)
	order := &models.Order{
		UserID:          userID,
		ProductID:       s.opts.GrassProductID,
		Quantity:        1,
		PlanID:          string(plan.ID),
		DeliveryAddress: catalog.ComposeAddress(req.Street, req.Area, req.References),
		DeliveryDate:    deliveryDate,
		DeliveryWindow:  req.DeliveryWindow,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Status:          models.OrderStatusPending,
		TotalPrice:      price.Total,
		PaymentStatus:   models.PaymentStatusPending,
	}
	if req.Latitude != nil {
		if zone, ok := catalog.ZoneFor(catalog.Point{Lat: *req.Latitude, Lon: *req.Longitude}); ok {
			order.DeliveryZone = &zone.Name
		}
	}

	var sub *models.Subscription
	if plan.Recurring() {
		start := s.now()
		end := start.AddDate(0, plan.DurationMonths, 0)
		sub = &models.Subscription{
			UserID:    userID,
			PlanName:  plan.Name,
			StartDate: start,
			EndDate:   &end,
			IsActive:  true,
		}
	}

	err = s.withNewID(order, func() error {
		return s.repo.CreateOrderWithSubscription(ctx, order, sub)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("order created",
		sl.Order(order.ID),
		slog.String("user_id", userID),
		slog.String("plan", string(plan.ID)),
		slog.String("total", order.TotalPrice.StringFixed(2)),
	)
	metrics.RecordOrderCreated(string(plan.ID), "checkout")
	s.invalidateOverview()

	return &models.CheckoutResult{
		Order:        order,
		Subscription: sub,
		TotalUSD:     catalog.ToUSD(order.TotalPrice, s.opts.USDRate).StringFixed(2),
	}, nil
}

// AdminCreate создает заказ по товару каталога со списанием остатка.
func (s *OrderService) AdminCreate(ctx context.Context, req models.AdminOrderRequest) (*models.Order, error) {
	const op = "services.order.AdminCreate"

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation(validationMessage(err)))
	}
	deliveryDate, err := s.parseDeliveryDate(req.DeliveryDate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.repo.GetUser(ctx, req.UserID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	product, err := s.repo.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	order := &models.Order{
		UserID:          req.UserID,
		ProductID:       product.ID,
		Quantity:        req.Quantity,
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		DeliveryDate:    deliveryDate,
		Status:          models.OrderStatusPending,
		TotalPrice:      product.Price.Mul(decimalInt(req.Quantity)).Round(2),
		PaymentStatus:   models.PaymentStatusPending,
	}
	err = s.withNewID(order, func() error {
		return s.repo.CreateOrderWithStock(ctx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("admin order created", sl.Order(order.ID), slog.Int64("product_id", product.ID), slog.Int("quantity", req.Quantity))
	metrics.RecordOrderCreated("product", "admin")
	s.invalidateOverview()
	return order, nil
}

// withNewID выдает заказу новый ID и повторяет вставку при совпадении.
func (s *OrderService) withNewID(order *models.Order, insert func() error) error {
	var err error
	for attempt := 0; attempt < maxIDRetries; attempt++ {
		order.ID = s.newID()
		err = insert()
		if !errors.Is(err, storage.ErrOrderIDTaken) {
			return err
		}
		s.log.Debug("order id collision, retrying", sl.Order(order.ID), slog.Int("attempt", attempt+1))
	}
	return apperr.Conflict("could not allocate order id")
}

func (s *OrderService) parseDeliveryDate(raw string) (time.Time, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, apperr.Validation("delivery_date must be YYYY-MM-DD")
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	if date.Before(today) {
		return time.Time{}, apperr.Validation("delivery_date is in the past")
	}
	return date, nil
}

// UpdateStatus меняет статус заказа по запросу администратора. Переход вне
// цепочки требует force и пишется в лог с уровнем WARN.
func (s *OrderService) UpdateStatus(ctx context.Context, adminID, orderID string, req models.StatusUpdateRequest) (*models.Order, error) {
	const op = "services.order.UpdateStatus"

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation("unknown status"))
	}
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	from, to := order.Status, req.Status
	allowed := from.CanTransitionTo(to)
	// подтверждение без проверенной оплаты возможно только принудительно
	if allowed && from == models.OrderStatusPending && to == models.OrderStatusConfirmed &&
		order.PaymentStatus != models.PaymentStatusPaid {
		allowed = false
	}
	if !allowed {
		if !req.Force {
			return nil, fmt.Errorf("%s: %w", op,
				apperr.Conflict(fmt.Sprintf("transition %s -> %s is not allowed", from, to)))
		}
		s.log.Warn("forced order status change",
			slog.String("admin_id", adminID),
			sl.Order(orderID),
			slog.String("from", string(from)),
			slog.String("to", string(to)),
		)
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, orderID, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordTransition(string(from), string(to), "admin")
	s.invalidateOverview()
	s.notify(ctx, updated)
	return updated, nil
}

// DriverDeliver отмечает отправленный заказ доставленным.
func (s *OrderService) DriverDeliver(ctx context.Context, driverID, orderID string) (*models.Order, error) {
	const op = "services.order.DriverDeliver"

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if order.Status != models.OrderStatusShipped {
		return nil, fmt.Errorf("%s: %w", op,
			apperr.Conflict(fmt.Sprintf("order is %s, only shipped orders can be delivered", order.Status)))
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, orderID, models.OrderStatusDelivered)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("order delivered", sl.Order(orderID), slog.String("driver_id", driverID))
	metrics.RecordTransition(string(order.Status), string(updated.Status), "driver")
	s.invalidateOverview()
	s.notify(ctx, updated)
	return updated, nil
}

// ListForUser возвращает заказы покупателя с отображением статуса.
func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]*models.OrderView, error) {
	orders, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return views(orders), nil
}

// Get возвращает заказ. Покупатель видит только свои заказы,
// чужой заказ для него не существует. Владельцу и администратору
// заказ отдается вместе с историей платежей.
func (s *OrderService) Get(ctx context.Context, userID string, role models.Role, orderID string) (*models.OrderView, error) {
	const op = "services.order.Get"

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if order.UserID != userID && role != models.RoleAdmin && role != models.RoleDriver {
		return nil, fmt.Errorf("%s: %w", op, apperr.NotFound("order not found"))
	}
	view := &models.OrderView{Order: *order, Tracking: models.TrackingFor(order.Status)}
	if order.UserID == userID || role == models.RoleAdmin {
		if view.Payments, err = s.repo.ListPayments(ctx, orderID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return view, nil
}

// List возвращает заказы для администратора, status фильтрует по статусу.
func (s *OrderService) List(ctx context.Context, status string, limit, offset int) ([]*models.OrderView, error) {
	const op = "services.order.List"
	if status != "" && !models.OrderStatus(status).Valid() {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation("unknown status"))
	}
	orders, err := s.repo.ListOrders(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return views(orders), nil
}

// ListDeliverable возвращает заказы для курьера.
func (s *OrderService) ListDeliverable(ctx context.Context) ([]*models.OrderView, error) {
	orders, err := s.repo.ListDeliverableOrders(ctx)
	if err != nil {
		return nil, err
	}
	return views(orders), nil
}

func (s *OrderService) notify(ctx context.Context, order *models.Order) {
	user, err := s.repo.GetUser(ctx, order.UserID)
	if err != nil {
		s.log.Warn("failed to load order owner for notification", sl.Order(order.ID), sl.Err(err))
		return
	}
	tracking := models.TrackingFor(order.Status)
	msg := models.OrderNotification{
		OrderID:  order.ID,
		Email:    user.Email,
		Name:     user.Name,
		Status:   order.Status,
		Label:    tracking.Label,
		Progress: tracking.Progress,
	}
	if err := s.publisher.Publish(ctx, rabbitmq.RoutingKeyOrderStatus, msg); err != nil {
		s.log.Warn("failed to publish status notification", sl.Order(order.ID), sl.Err(err))
	}
}

func (s *OrderService) invalidateOverview() {
	if err := s.cache.Invalidate(cache.KeyAdminOverview); err != nil {
		s.log.Warn("failed to invalidate overview", slog.String("key", cache.KeyAdminOverview), slog.Any("err", err))
	}
}

func views(orders []*models.Order) []*models.OrderView {
	out := make([]*models.OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, &models.OrderView{Order: *o, Tracking: models.TrackingFor(o.Status)})
	}
	return out
}
