// Package services содержит бизнес-логику аутентификации: сопоставление
// профиля провайдера идентификации с локальным пользователем и управление
// серверными сессиями.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/pasto-verde/internal/lib/apperr"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/jwt"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

// ErrUnauthorized токен или сессия недействительны.
var ErrUnauthorized = errors.New("unauthorized")

// UserRepository определяет методы хранилища, нужные для входа и профиля.
type UserRepository interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) (bool, error)
	RecordLogin(ctx context.Context, userID string, role models.Role, at time.Time) error
	MarkWelcomeEmailSent(ctx context.Context, userID string) (bool, error)
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error)
}

// IdentityVerifier проверяет ID-токен провайдера.
type IdentityVerifier interface {
	Verify(rawToken string) (*models.Profile, error)
}

// Cache хранилище серверных сессий.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Publisher публикует уведомления для рассылки.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// LoginResult пользователь и выданный ему токен сессии.
type LoginResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// AuthService связывает провайдера идентификации, пользователей и сессии.
type AuthService struct {
	users      UserRepository
	verifier   IdentityVerifier
	jwtMaker   jwt.Maker
	sessions   Cache
	publisher  Publisher
	adminEmail string
	validate   *validator.Validate
	log        *slog.Logger
	now        func() time.Time
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, verifier IdentityVerifier, jwtMaker jwt.Maker,
	sessions Cache, publisher Publisher, adminEmail string, log *slog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		verifier:   verifier,
		jwtMaker:   jwtMaker,
		sessions:   sessions,
		publisher:  publisher,
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
		validate:   validator.New(),
		log:        log,
		now:        time.Now,
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

func (s *AuthService) isAdminEmail(email string) bool {
	return s.adminEmail != "" && strings.EqualFold(strings.TrimSpace(email), s.adminEmail)
}

// Login проверяет ID-токен провайдера, синхронизирует пользователя
// и открывает сессию.
func (s *AuthService) Login(ctx context.Context, idToken string) (*LoginResult, error) {
	const op = "services.auth.Login"

	profile, err := s.verifier.Verify(idToken)
	if err != nil {
		s.log.Info("identity token rejected", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	user, err := s.Authenticate(ctx, *profile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%s: %w", op, apperr.Forbidden("user is disabled"))
	}

	token, session, err := s.StartSession(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// Authenticate находит или создает локального пользователя по профилю.
// Повторный вызов с тем же профилем не создает новых строк: обновляется
// только last_login, а роль повышается до admin не более одного раза.
func (s *AuthService) Authenticate(ctx context.Context, profile models.Profile) (*models.User, error) {
	const op = "services.auth.Authenticate"

	profile.Email = strings.TrimSpace(profile.Email)
	profile.Name = strings.TrimSpace(profile.Name)
	if err := s.validate.Struct(profile); err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation("subject_id, name and a valid email are required"))
	}

	now := s.now()
	user, err := s.users.GetUserByEmail(ctx, profile.Email)
	switch {
	case apperr.Is(err, apperr.KindNotFound):
		user, err = s.createUser(ctx, profile, now)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.isAdminEmail(user.Email) && user.Role != models.RoleAdmin {
		s.log.Info("promoting user to admin", slog.String("user_id", user.ID))
		user.Role = models.RoleAdmin
	}

	if err := s.users.RecordLogin(ctx, user.ID, user.Role, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.LastLogin = &now

	if !user.WelcomeEmailSent {
		s.sendWelcome(ctx, user)
	}

	return user, nil
}

func (s *AuthService) createUser(ctx context.Context, profile models.Profile, now time.Time) (*models.User, error) {
	role := models.RoleCustomer
	if s.isAdminEmail(profile.Email) {
		role = models.RoleAdmin
	}
	created, err := s.users.CreateUser(ctx, models.User{
		ID:        profile.SubjectID,
		Name:      profile.Name,
		Email:     profile.Email,
		Role:      role,
		CreatedAt: now,
		IsActive:  true,
	})
	if err != nil {
		return nil, err
	}
	if created {
		s.log.Info("registered new user", slog.String("user_id", profile.SubjectID), slog.String("role", string(role)))
	}
	// строка могла уже существовать: параллельный вход или смена email у субъекта
	return s.users.GetUser(ctx, profile.SubjectID)
}

// sendWelcome публикует приветствие и только после этого ставит флаг.
// Ошибка публикации оставляет флаг сброшенным до следующего входа.
func (s *AuthService) sendWelcome(ctx context.Context, user *models.User) {
	msg := models.WelcomeNotification{UserID: user.ID, Email: user.Email, Name: user.Name}
	if err := s.publisher.Publish(ctx, rabbitmq.RoutingKeyWelcome, msg); err != nil {
		s.log.Warn("failed to publish welcome notification", slog.String("user_id", user.ID), sl.Err(err))
		return
	}
	marked, err := s.users.MarkWelcomeEmailSent(ctx, user.ID)
	if err != nil {
		s.log.Warn("failed to mark welcome email", slog.String("user_id", user.ID), sl.Err(err))
		return
	}
	user.WelcomeEmailSent = marked || user.WelcomeEmailSent
}

// StartSession сохраняет сессию в кеше и выпускает токен, ссылающийся на нее.
func (s *AuthService) StartSession(_ context.Context, user *models.User) (string, *models.Session, error) {
	const op = "services.auth.StartSession"

	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.jwtMaker.TTL()),
	}
	token, err := s.jwtMaker.GenerateToken(user.ID, string(user.Role), session.ID)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.sessions.Set(sessionKey(session.ID), session, s.jwtMaker.TTL()); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, session, nil
}

// ValidateSession проверяет токен и наличие сессии. Роль и активность
// берутся из строки пользователя, поэтому понижение или отключение
// в панели администратора действует сразу.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*models.Session, error) {
	const op = "services.auth.ValidateSession"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrUnauthorized, err)
	}

	var session models.Session
	found, err := s.sessions.Get(sessionKey(claims.SessionID()), &session)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found || session.UserID != claims.UserID {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	user, err := s.users.GetUser(ctx, session.UserID)
	switch {
	case apperr.Is(err, apperr.KindNotFound):
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		if err := s.sessions.Invalidate(sessionKey(session.ID)); err != nil {
			s.log.Warn("failed to drop session of disabled user", slog.String("user_id", user.ID), sl.Err(err))
		}
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	session.Role = user.Role
	return &session, nil
}

// Logout удаляет серверную сессию, после чего токен перестает работать.
func (s *AuthService) Logout(_ context.Context, sessionID string) error {
	const op = "services.auth.Logout"
	if err := s.sessions.Invalidate(sessionKey(sessionID)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Profile возвращает пользователя по ID.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetUser(ctx, userID)
}

// UpdateProfile меняет адрес, телефон и согласие с политикой cookies.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "services.auth.UpdateProfile"
	if err := s.validate.Struct(upd); err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation("invalid profile fields"))
	}
	user, err := s.users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
