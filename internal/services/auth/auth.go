// Package auth содержит логику бизнес-уровня для регистрации, входа
// и обновления токенов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/movieflex/movieflex/internal/events"
	"github.com/movieflex/movieflex/internal/lib/jwt"
	"github.com/movieflex/movieflex/internal/lib/password"
	"github.com/movieflex/movieflex/internal/lib/sl"
	"github.com/movieflex/movieflex/internal/models"
	"github.com/movieflex/movieflex/internal/storage"
)

// Ошибки уровня сервиса аутентификации.
var (
	// ErrInvalidCredentials — неверная пара email/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRefreshTokenExpired — refresh-токен истёк и удалён из хранилища.
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int, error)

	// GetUserByEmail возвращает пользователя по email или storage.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID возвращает пользователя по ID или storage.ErrUserNotFound.
	GetUserByID(ctx context.Context, id int) (*models.User, error)
}

// RefreshTokenRepository описывает контракт для работы с refresh-токенами.
type RefreshTokenRepository interface {
	SaveRefreshToken(ctx context.Context, token models.RefreshToken) (int, error)
	GetRefreshTokenByUserID(ctx context.Context, userID int) (*models.RefreshToken, error)
	GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, id int) error
}

// TokenPair — access-токен вместе с refresh-токеном, результат всех трёх
// операций аутентификации.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Service отвечает за регистрацию, вход и жизненный цикл refresh-токенов.
type Service struct {
	users           UserRepository
	tokens          RefreshTokenRepository
	jwtMaker        jwt.Maker
	refreshValidity time.Duration
	publisher       events.Publisher
	log             *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, tokens RefreshTokenRepository, jwtMaker jwt.Maker,
	refreshValidity time.Duration, publisher events.Publisher, log *slog.Logger) *Service {
	return &Service{
		users:           users,
		tokens:          tokens,
		jwtMaker:        jwtMaker,
		refreshValidity: refreshValidity,
		publisher:       publisher,
		log:             log,
	}
}

// Register создает нового пользователя с хэшированием пароля и ролью "user",
// затем выдаёт пару токенов. Refresh-токен выдаётся по email нового
// пользователя.
func (s *Service) Register(ctx context.Context, name, username, email, rawPassword string) (*TokenPair, error) {
	const op = "auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}
	if _, err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	accessToken, err := s.jwtMaker.GenerateToken(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	refreshToken, err := s.IssueRefreshToken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.publisher.Publish(events.UserRegistered, map[string]any{
		"username": user.Username,
		"email":    user.Email,
	}); err != nil {
		s.log.Error("failed to publish event", sl.Err(err))
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
	}, nil
}

// Login проверяет пароль пользователя по email и выдаёт пару токенов.
// Неизвестный email и неверный пароль неразличимы для клиента.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*TokenPair, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	accessToken, err := s.jwtMaker.GenerateToken(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	refreshToken, err := s.IssueRefreshToken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
	}, nil
}

// Refresh проверяет refresh-токен и выдаёт новый access-токен.
// Сам refresh-токен возвращается без изменений: ротации нет.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	const op = "auth.Refresh"

	rt, err := s.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUserByID(ctx, rt.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	accessToken, err := s.jwtMaker.GenerateToken(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: rt.Token,
	}, nil
}

// IssueRefreshToken выдаёт refresh-токен пользователю с данным email.
// Повторный вызов возвращает уже существующий токен без изменений;
// новый генерируется, только когда токена нет.
func (s *Service) IssueRefreshToken(ctx context.Context, email string) (*models.RefreshToken, error) {
	const op = "auth.IssueRefreshToken"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	existing, err := s.tokens.GetRefreshTokenByUserID(ctx, user.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, storage.ErrTokenNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rt := models.RefreshToken{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.refreshValidity),
	}
	id, err := s.tokens.SaveRefreshToken(ctx, rt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rt.ID = id
	return &rt, nil
}

// VerifyRefreshToken возвращает запись токена, если он жив. Истёкший токен
// удаляется из хранилища как побочный эффект проверки, фонового сборщика нет:
// повторная проверка того же токена даёт ErrTokenNotFound.
func (s *Service) VerifyRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const op = "auth.VerifyRefreshToken"

	rt, err := s.tokens.GetRefreshToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rt.IsExpired(time.Now()) {
		if err := s.tokens.DeleteRefreshToken(ctx, rt.ID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, fmt.Errorf("%s: %w", op, ErrRefreshTokenExpired)
	}
	return rt, nil
}
