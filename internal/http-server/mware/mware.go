// Package mware содержит middleware для HTTP-сервера.
// Здесь реализована проверка access-токена и добавление имени
// пользователя в контекст запроса.
package mware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/movieflex/movieflex/internal/http-server/response"
	"github.com/movieflex/movieflex/internal/lib/jwt"
	"github.com/movieflex/movieflex/internal/lib/sl"
)

// Key — тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserKey — ключ для имени пользователя в контексте.
	UserKey Key = "username"
	// RoleKey — ключ для роли пользователя в контексте.
	RoleKey Key = "role"
)

// JWTMiddleware возвращает middleware, которое проверяет access-токен
// в заголовке Authorization.
// Логика работы:
//  1. Считывает значение заголовка Authorization.
//  2. Проверяет, что он начинается с "Bearer ".
//  3. Валидирует токен и извлекает из него Subject (имя пользователя) и роль.
//  4. Кладёт имя пользователя и роль в контекст запроса.
//  5. Передаёт управление следующему обработчику.
func JWTMiddleware(jwtMaker jwt.Maker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const op = "mware.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))

				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := jwtMaker.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))

				return
			}

			ctx := context.WithValue(r.Context(), UserKey, claims.Subject)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
