// Package register предоставляет HTTP-обработчик регистрации пользователя.
package register

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/movieflex/movieflex/internal/http-server/response"
	"github.com/movieflex/movieflex/internal/lib/sl"
	authservice "github.com/movieflex/movieflex/internal/services/auth"
)

// Request — тело запроса регистрации.
type Request struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// Registerer описывает контракт сервиса аутентификации для регистрации.
type Registerer interface {
	Register(ctx context.Context, name, username, email, password string) (*authservice.TokenPair, error)
}

// New возвращает HTTP-обработчик POST /auth/register.
//
// @Summary Регистрация нового пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param request body Request true "Данные нового пользователя"
// @Success 200 {object} response.Response "access_token и refresh_token"
// @Failure 400 {object} response.Response "Ошибка валидации"
// @Router /auth/register [post]
func New(log *slog.Logger, registerer Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.register.New"

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

		pair, err := registerer.Register(r.Context(), req.Name, req.Username, req.Email, req.Password)
		if err != nil {
			log.Error("failed to register user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register"))
			return
		}
		log.Info("user registered", slog.String("username", req.Username))

		render.JSON(w, r, response.StatusOKWithData(pair))
	}
}
