// Package jwt реализует генерацию и парсинг access-токенов с пользовательскими
// claim полями.
//
// Maker определяет интерфейс для создания и проверки токенов с username и ролью.
// MakerImpl — конкретная реализация с секретным ключом и сроком жизни токена.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга access-токенов.
type Maker interface {
	// GenerateToken создаёт токен для username с ролью role.
	GenerateToken(username, role string) (string, error)
	// ParseToken возвращает *CustomClaims, если токен корректен.
	ParseToken(tokenStr string) (*CustomClaims, error)
	// VerifyToken проверяет подпись, срок и соответствие subject.
	VerifyToken(tokenStr, expectedSubject string) bool
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker создаёт новый экземпляр MakerImpl.
// Секретный ключ приходит из конфигурации процесса и нигде не захардкожен.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
