// Package identity проверяет ID-токены внешнего провайдера идентификации
// и извлекает из них профиль пользователя.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/pasto-verde/internal/config"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

// ErrInvalidToken токен не прошел проверку.
var ErrInvalidToken = errors.New("invalid identity token")

// Claims поля ID-токена, которые нужны магазину.
type Claims struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier проверяет подпись, издателя, аудиторию и срок действия токена.
type Verifier struct {
	issuer   string
	audience string
	secret   []byte
	leeway   time.Duration
}

// NewVerifier создает Verifier для домена и клиента провайдера.
func NewVerifier(cfg config.Identity) *Verifier {
	domain := strings.TrimSuffix(strings.TrimPrefix(cfg.Domain, "https://"), "/")
	return &Verifier{
		issuer:   "https://" + domain + "/",
		audience: cfg.ClientID,
		secret:   []byte(cfg.ClientSecret),
		leeway:   30 * time.Second,
	}
}

// Issuer ожидаемый издатель токенов.
func (v *Verifier) Issuer() string {
	return v.issuer
}

// Verify разбирает ID-токен и возвращает профиль пользователя.
func (v *Verifier) Verify(rawToken string) (*models.Profile, error) {
	const op = "identity.Verify"

	token, err := jwt.ParseWithClaims(rawToken, &Claims{}, func(_ *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	name := claims.Name
	if name == "" {
		name = claims.Nickname
	}
	if name == "" {
		name, _, _ = strings.Cut(claims.Email, "@")
	}

	return &models.Profile{
		SubjectID: claims.Subject,
		Name:      name,
		Email:     strings.TrimSpace(claims.Email),
	}, nil
}
