// Package remove предоставляет HTTP-обработчик удаления фильма.
package remove

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
	"github.com/movieflex/movieflex/internal/storage"
)

// Remover описывает контракт сервиса каталога для удаления фильма.
type Remover interface {
	DeleteMovie(ctx context.Context, id int) error
}

// New возвращает HTTP-обработчик DELETE /movies/delete/{movieId}.
//
// @Summary Удалить фильм и его постер
// @Tags movies
// @Produce json
// @Param movieId path int true "Идентификатор фильма"
// @Success 204 "Фильм удалён"
// @Failure 404 {object} response.Response "Фильм не найден"
// @Security BearerAuth
// @Router /movies/delete/{movieId} [delete]
func New(log *slog.Logger, remover Remover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.movie.remove.New"

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

		if err := remover.DeleteMovie(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrMovieNotFound) {
				log.Error("movie not found", slog.Int("movie_id", id))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("movie not found"))
				return
			}
			log.Error("failed to delete movie", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to delete movie"))
			return
		}
		log.Info("movie deleted", slog.Int("movie_id", id))

		w.WriteHeader(http.StatusNoContent)
	}
}
