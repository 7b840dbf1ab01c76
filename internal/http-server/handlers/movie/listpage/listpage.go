// Package listpage предоставляет HTTP-обработчик постраничного списка фильмов.
package listpage

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/movieflex/movieflex/internal/config"
	"github.com/movieflex/movieflex/internal/http-server/response"
	"github.com/movieflex/movieflex/internal/lib/sl"
	"github.com/movieflex/movieflex/internal/models"
)

// Pager описывает контракт сервиса каталога для постраничного чтения.
type Pager interface {
	ListMoviesPage(ctx context.Context, pageNumber, pageSize int) (*models.MoviePage, error)
}

// QueryInt читает целочисленный query-параметр, возвращая значение
// по умолчанию при отсутствии или некорректном формате.
func QueryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

// New возвращает HTTP-обработчик GET /movies/allMoviesPage.
//
// @Summary Получить страницу фильмов
// @Tags movies
// @Produce json
// @Param pageNumber query int false "Номер страницы, с нуля"
// @Param pageSize query int false "Размер страницы"
// @Success 200 {object} response.Response "Страница фильмов"
// @Security BearerAuth
// @Router /movies/allMoviesPage [get]
func New(log *slog.Logger, pager Pager, defaults config.Pagination) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.movie.listpage.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		pageNumber := QueryInt(r, "pageNumber", defaults.PageNumber)
		pageSize := QueryInt(r, "pageSize", defaults.PageSize)

		page, err := pager.ListMoviesPage(r.Context(), pageNumber, pageSize)
		if err != nil {
			log.Error("failed to list movies page", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list movies page"))
			return
		}
		log.Info("movies page listed",
			slog.Int("page_number", pageNumber),
			slog.Int("page_size", pageSize),
		)

		render.JSON(w, r, response.StatusOKWithData(page))
	}
}
