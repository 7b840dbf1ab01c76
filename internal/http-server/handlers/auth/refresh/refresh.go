// Package refresh предоставляет HTTP-обработчик обмена refresh-токена
// на новый access-токен.
package refresh

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/movieflex/movieflex/internal/http-server/response"
	"github.com/movieflex/movieflex/internal/lib/sl"
	authservice "github.com/movieflex/movieflex/internal/services/auth"
	"github.com/movieflex/movieflex/internal/storage"
)

// Request — тело запроса обновления.
type Request struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshService описывает контракт сервиса аутентификации для обновления.
type RefreshService interface {
	Refresh(ctx context.Context, refreshToken string) (*authservice.TokenPair, error)
}

// New возвращает HTTP-обработчик POST /auth/refresh.
// Refresh-токен возвращается без изменений: ротации нет.
//
// @Summary Обновить access-токен по refresh-токену
// @Tags auth
// @Accept json
// @Produce json
// @Param request body Request true "Refresh-токен"
// @Success 200 {object} response.Response "access_token и refresh_token"
// @Failure 401 {object} response.Response "Refresh-токен истёк"
// @Failure 404 {object} response.Response "Refresh-токен не найден"
// @Router /auth/refresh [post]
func New(log *slog.Logger, service RefreshService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.refresh.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		pair, err := service.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrTokenNotFound):
				log.Error("refresh token not found", sl.Err(err))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("refresh token not found"))
			case errors.Is(err, authservice.ErrRefreshTokenExpired):
				log.Error("refresh token expired", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("refresh token expired"))
			default:
				log.Error("failed to refresh token", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to refresh"))
			}
			return
		}
		log.Info("token refreshed")

		render.JSON(w, r, response.StatusOKWithData(pair))
	}
}
