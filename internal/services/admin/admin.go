// Package services содержит операции администратора над товарами,
// пользователями и подписками.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/pasto-verde/internal/cache"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/apperr"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

// Repository определяет методы хранилища для администрирования.
type Repository interface {
	CreateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	RemoveProduct(ctx context.Context, id int64) error

	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateUser(ctx context.Context, userID string, upd models.UserUpdate) (*models.User, error)

	ListSubscriptions(ctx context.Context, userID string, limit, offset int) ([]*models.Subscription, error)
	DeactivateSubscription(ctx context.Context, id int64) error
}

// Cache нужен для сброса сводки администратора.
type Cache interface {
	Invalidate(key string) error
}

// AdminService реализует CRUD для панели администратора.
type AdminService struct {
	repo     Repository
	cache    Cache
	validate *validator.Validate
	log      *slog.Logger
}

// NewAdminService создает новый экземпляр AdminService.
func NewAdminService(repo Repository, cache Cache, log *slog.Logger) *AdminService {
	return &AdminService{
		repo:     repo,
		cache:    cache,
		validate: validator.New(),
		log:      log,
	}
}

func (s *AdminService) toProduct(req models.ProductRequest) (models.Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Product{}, apperr.Validation("invalid product fields")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil || price.IsNegative() {
		return models.Product{}, apperr.Validation("price must be a non-negative number")
	}
	return models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       price.Round(2),
		Stock:       req.Stock,
		Category:    req.Category,
	}, nil
}

// CreateProduct добавляет товар.
func (s *AdminService) CreateProduct(ctx context.Context, req models.ProductRequest) (*models.Product, error) {
	const op = "services.admin.CreateProduct"
	p, err := s.toProduct(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	created, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("product created", slog.Int64("product_id", created.ID))
	s.invalidateOverview()
	return created, nil
}

// ListProducts возвращает все товары.
func (s *AdminService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return s.repo.ListProducts(ctx)
}

// UpdateProduct заменяет поля товара.
func (s *AdminService) UpdateProduct(ctx context.Context, id int64, req models.ProductRequest) (*models.Product, error) {
	const op = "services.admin.UpdateProduct"
	p, err := s.toProduct(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p.ID = id
	updated, err := s.repo.UpdateProduct(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// RemoveProduct удаляет товар. Товар, на который ссылаются заказы, удалить нельзя.
func (s *AdminService) RemoveProduct(ctx context.Context, id int64) error {
	const op = "services.admin.RemoveProduct"
	if err := s.repo.RemoveProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("product removed", slog.Int64("product_id", id))
	s.invalidateOverview()
	return nil
}

// ListUsers возвращает пользователей с пагинацией.
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.repo.ListUsers(ctx, limit, offset)
}

// UpdateUser меняет роль, активность и контактные данные пользователя.
// Администратор не может снять роль или заблокировать сам себя.
func (s *AdminService) UpdateUser(ctx context.Context, adminID, userID string, upd models.UserUpdate) (*models.User, error) {
	const op = "services.admin.UpdateUser"
	if err := s.validate.Struct(upd); err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation("invalid user fields"))
	}
	if adminID == userID {
		if upd.Role != nil && *upd.Role != models.RoleAdmin {
			return nil, fmt.Errorf("%s: %w", op, apperr.Conflict("cannot change own role"))
		}
		if upd.IsActive != nil && !*upd.IsActive {
			return nil, fmt.Errorf("%s: %w", op, apperr.Conflict("cannot deactivate yourself"))
		}
	}

	user, err := s.repo.UpdateUser(ctx, userID, upd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user updated", slog.String("admin_id", adminID), slog.String("user_id", userID),
		slog.String("role", string(user.Role)), slog.Bool("is_active", user.IsActive))
	return user, nil
}

// ListSubscriptions возвращает подписки, userID фильтрует по пользователю.
func (s *AdminService) ListSubscriptions(ctx context.Context, userID string, limit, offset int) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptions(ctx, userID, limit, offset)
}

// DeactivateSubscription отключает подписку.
func (s *AdminService) DeactivateSubscription(ctx context.Context, id int64) error {
	const op = "services.admin.DeactivateSubscription"
	if err := s.repo.DeactivateSubscription(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("subscription deactivated", slog.Int64("subscription_id", id))
	s.invalidateOverview()
	return nil
}

func (s *AdminService) invalidateOverview() {
	if err := s.cache.Invalidate(cache.KeyAdminOverview); err != nil {
		s.log.Warn("failed to invalidate overview", slog.String("key", cache.KeyAdminOverview), slog.Any("err", err))
	}
}
