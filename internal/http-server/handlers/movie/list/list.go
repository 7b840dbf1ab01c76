// Package list предоставляет HTTP-обработчик списка всех фильмов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/movieflex/movieflex/internal/http-server/response"
	"github.com/movieflex/movieflex/internal/lib/sl"
	"github.com/movieflex/movieflex/internal/models"
)

// Lister описывает контракт сервиса каталога для получения всех фильмов.
type Lister interface {
	ListMovies(ctx context.Context) ([]models.MovieRecord, error)
}

// New возвращает HTTP-обработчик GET /movies/all.
//
// @Summary Получить все фильмы
// @Tags movies
// @Produce json
// @Success 200 {object} response.Response "Список фильмов"
// @Security BearerAuth
// @Router /movies/all [get]
func New(log *slog.Logger, lister Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.movie.list.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		records, err := lister.ListMovies(r.Context())
		if err != nil {
			log.Error("failed to list movies", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list movies"))
			return
		}
		log.Info("movies listed", slog.Int("count", len(records)))

		render.JSON(w, r, response.StatusOKWithData(records))
	}
}
