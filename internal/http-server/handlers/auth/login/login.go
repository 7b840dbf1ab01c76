// Package login предоставляет HTTP-обработчик входа пользователя.
package login

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
)

// Request — тело запроса входа. Идентичность пользователя задаётся email.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginService описывает контракт сервиса аутентификации для входа.
type LoginService interface {
	Login(ctx context.Context, email, password string) (*authservice.TokenPair, error)
}

// New возвращает HTTP-обработчик POST /auth/login.
//
// @Summary Вход по email и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param request body Request true "Учётные данные"
// @Success 200 {object} response.Response "access_token и refresh_token"
// @Failure 401 {object} response.Response "Неверные учётные данные"
// @Router /auth/login [post]
func New(log *slog.Logger, service LoginService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.login.New"

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

		pair, err := service.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, authservice.ErrInvalidCredentials) {
				log.Error("incorrect email or password", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("incorrect email or password"))
				return
			}
			log.Error("failed to login", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to login"))
			return
		}
		log.Info("user logged in", slog.String("email", req.Email))

		render.JSON(w, r, response.StatusOKWithData(pair))
	}
}
