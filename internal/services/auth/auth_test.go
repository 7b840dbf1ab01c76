package auth_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movieflex/movieflex/internal/events"
	"github.com/movieflex/movieflex/internal/lib/jwt"
	"github.com/movieflex/movieflex/internal/models"
	"github.com/movieflex/movieflex/internal/services/auth"
	"github.com/movieflex/movieflex/internal/storage"
)

type mockUserRepo struct {
	byEmail map[string]*models.User
	nextID  int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byEmail: make(map[string]*models.User), nextID: 1}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user models.User) (int, error) {
	user.ID = m.nextID
	m.nextID++
	m.byEmail[user.Email] = &user
	return user.ID, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int) (*models.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

type mockTokenRepo struct {
	byToken map[string]*models.RefreshToken
	nextID  int
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{byToken: make(map[string]*models.RefreshToken), nextID: 1}
}

func (m *mockTokenRepo) SaveRefreshToken(_ context.Context, token models.RefreshToken) (int, error) {
	token.ID = m.nextID
	m.nextID++
	m.byToken[token.Token] = &token
	return token.ID, nil
}

func (m *mockTokenRepo) GetRefreshTokenByUserID(_ context.Context, userID int) (*models.RefreshToken, error) {
	for _, rt := range m.byToken {
		if rt.UserID == userID {
			return rt, nil
		}
	}
	return nil, storage.ErrTokenNotFound
}

func (m *mockTokenRepo) GetRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	rt, ok := m.byToken[token]
	if !ok {
		return nil, storage.ErrTokenNotFound
	}
	return rt, nil
}

func (m *mockTokenRepo) DeleteRefreshToken(_ context.Context, id int) error {
	for k, rt := range m.byToken {
		if rt.ID == id {
			delete(m.byToken, k)
			return nil
		}
	}
	return storage.ErrTokenNotFound
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func newService(users *mockUserRepo, tokens *mockTokenRepo, maker *jwt.MakerImpl, validity time.Duration) *auth.Service {
	return auth.New(users, tokens, maker, validity, events.Noop{}, makeLogger())
}

func TestService_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	users := newMockUserRepo()
	tokens := newMockTokenRepo()
	maker := jwt.NewJWTMaker("test_secret", 15*time.Minute)
	service := newService(users, tokens, maker, 720*time.Hour)

	registered, err := service.Register(ctx, "A", "a1", "a@x.com", "p")
	require.NoError(t, err)
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)

	// access-токен проверяем по subject
	assert.True(t, maker.VerifyToken(registered.AccessToken, "a1"))

	loggedIn, err := service.Login(ctx, "a@x.com", "p")
	require.NoError(t, err)
	assert.True(t, maker.VerifyToken(loggedIn.AccessToken, "a1"))

	// при повторной выдаче возвращается тот же refresh-токен
	assert.Equal(t, registered.RefreshToken, loggedIn.RefreshToken)
}

func TestService_Login_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	users := newMockUserRepo()
	tokens := newMockTokenRepo()
	maker := jwt.NewJWTMaker("test_secret", 15*time.Minute)
	service := newService(users, tokens, maker, 720*time.Hour)

	_, err := service.Register(ctx, "A", "a1", "a@x.com", "p")
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Login(ctx, "a@x.com", "wrong")
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := service.Login(ctx, "nobody@x.com", "p")
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestService_IssueRefreshToken_Idempotent(t *testing.T) {
	ctx := context.Background()
	users := newMockUserRepo()
	tokens := newMockTokenRepo()
	maker := jwt.NewJWTMaker("test_secret", 15*time.Minute)
	service := newService(users, tokens, maker, 720*time.Hour)

	_, err := users.CreateUser(ctx, models.User{Username: "a1", Email: "a@x.com", Role: "user"})
	require.NoError(t, err)

	first, err := service.IssueRefreshToken(ctx, "a@x.com")
	require.NoError(t, err)
	second, err := service.IssueRefreshToken(ctx, "a@x.com")
	require.NoError(t, err)

	assert.Equal(t, first.Token, second.Token)
	assert.Len(t, tokens.byToken, 1)
}

func TestService_IssueRefreshToken_UnknownUser(t *testing.T) {
	ctx := context.Background()
	service := newService(newMockUserRepo(), newMockTokenRepo(),
		jwt.NewJWTMaker("test_secret", 15*time.Minute), 720*time.Hour)

	_, err := service.IssueRefreshToken(ctx, "nobody@x.com")
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestService_VerifyRefreshToken_ExpiredIsDeleted(t *testing.T) {
	ctx := context.Background()
	users := newMockUserRepo()
	tokens := newMockTokenRepo()
	maker := jwt.NewJWTMaker("test_secret", 15*time.Minute)
	service := newService(users, tokens, maker, 720*time.Hour)

	userID, err := users.CreateUser(ctx, models.User{Username: "a1", Email: "a@x.com", Role: "user"})
	require.NoError(t, err)

	_, err = tokens.SaveRefreshToken(ctx, models.RefreshToken{
		Token:     "expired-token",
		UserID:    userID,
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	// первая проверка: токен истёк и удаляется как побочный эффект
	_, err = service.VerifyRefreshToken(ctx, "expired-token")
	require.ErrorIs(t, err, auth.ErrRefreshTokenExpired)

	// вторая проверка того же токена: записи больше нет
	_, err = service.VerifyRefreshToken(ctx, "expired-token")
	require.ErrorIs(t, err, storage.ErrTokenNotFound)
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()
	users := newMockUserRepo()
	tokens := newMockTokenRepo()
	maker := jwt.NewJWTMaker("test_secret", 15*time.Minute)
	service := newService(users, tokens, maker, 720*time.Hour)

	registered, err := service.Register(ctx, "A", "a1", "a@x.com", "p")
	require.NoError(t, err)

	pair, err := service.Refresh(ctx, registered.RefreshToken)
	require.NoError(t, err)

	assert.True(t, maker.VerifyToken(pair.AccessToken, "a1"))
	// refresh-токен возвращается без ротации
	assert.Equal(t, registered.RefreshToken, pair.RefreshToken)
}

func TestService_Refresh_UnknownToken(t *testing.T) {
	ctx := context.Background()
	service := newService(newMockUserRepo(), newMockTokenRepo(),
		jwt.NewJWTMaker("test_secret", 15*time.Minute), 720*time.Hour)

	_, err := service.Refresh(ctx, "no-such-token")
	require.ErrorIs(t, err, storage.ErrTokenNotFound)
}
