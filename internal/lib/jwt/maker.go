// Package jwt выпускает и проверяет токены сессии.
//
// Токен подписывается HS256 и несет ID пользователя, роль и ID серверной
// сессии (jti). Сама сессия хранится в Redis, поэтому отзыв токена
// выполняется удалением сессии.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	GenerateToken(userID, role, sessionID string) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
	TTL() time.Duration
}

// MakerImpl реализует Maker с использованием секретного ключа
// и времени жизни токена.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

// TTL время жизни выпускаемых токенов.
func (j *MakerImpl) TTL() time.Duration {
	return j.tokenTTL
}
