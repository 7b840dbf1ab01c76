// Package read предоставляет HTTP-обработчик получения фильма по идентификатору.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/movieflex/movieflex/internal/http-server/response"
	"github.com/movieflex/movieflex/internal/lib/sl"
	"github.com/movieflex/movieflex/internal/models"
	"github.com/movieflex/movieflex/internal/storage"
)

// Provider описывает контракт сервиса каталога для чтения фильма.
type Provider interface {
	GetMovieByID(ctx context.Context, id int) (*models.MovieRecord, error)
}

// New возвращает HTTP-обработчик GET /movies/{movieId}.
//
// @Summary Получить фильм по идентификатору
// @Tags movies
// @Produce json
// @Param movieId path int true "Идентификатор фильма"
// @Success 200 {object} response.Response "Запись фильма"
// @Failure 404 {object} response.Response "Фильм не найден"
// @Security BearerAuth
// @Router /movies/{movieId} [get]
func New(log *slog.Logger, provider Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.movie.read.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.Atoi(chi.URLParam(r, "movieId"))
		if err != nil {
			log.Error("invalid movie id", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid movie id"))
			return
		}

		record, err := provider.GetMovieByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrMovieNotFound) {
				log.Error("movie not found", slog.Int("movie_id", id))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("movie not found"))
				return
			}
			log.Error("failed to get movie", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get movie"))
			return
		}

		render.JSON(w, r, response.StatusOKWithData(record))
	}
}
