// Package listpagesort предоставляет HTTP-обработчик постраничного
// списка фильмов с сортировкой.
package listpagesort

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/movieflex/movieflex/internal/config"
	"github.com/movieflex/movieflex/internal/http-server/handlers/movie/listpage"
	"github.com/movieflex/movieflex/internal/http-server/response"
	"github.com/movieflex/movieflex/internal/lib/sl"
	"github.com/movieflex/movieflex/internal/models"
)

// SortedPager описывает контракт сервиса каталога для сортированного чтения.
type SortedPager interface {
	ListMoviesPageSorted(ctx context.Context, pageNumber, pageSize int, sortBy, sortDir string) (*models.MoviePage, error)
}

// New возвращает HTTP-обработчик GET /movies/allMoviesPageSort.
//
// @Summary Получить отсортированную страницу фильмов
// @Tags movies
// @Produce json
// @Param pageNumber query int false "Номер страницы, с нуля"
// @Param pageSize query int false "Размер страницы"
// @Param sortBy query string false "Колонка сортировки"
// @Param sortDirection query string false "Направление: asc или desc"
// @Success 200 {object} response.Response "Страница фильмов"
// @Security BearerAuth
// @Router /movies/allMoviesPageSort [get]
func New(log *slog.Logger, pager SortedPager, defaults config.Pagination) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.movie.listpagesort.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		pageNumber := listpage.QueryInt(r, "pageNumber", defaults.PageNumber)
		pageSize := listpage.QueryInt(r, "pageSize", defaults.PageSize)

		sortBy := r.URL.Query().Get("sortBy")
		if sortBy == "" {
			sortBy = defaults.SortBy
		}
		sortDir := r.URL.Query().Get("sortDirection")
		if sortDir == "" {
			sortDir = defaults.SortDir
		}

		page, err := pager.ListMoviesPageSorted(r.Context(), pageNumber, pageSize, sortBy, sortDir)
		if err != nil {
			log.Error("failed to list sorted movies page", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list movies page"))
			return
		}
		log.Info("sorted movies page listed",
			slog.Int("page_number", pageNumber),
			slog.Int("page_size", pageSize),
			slog.String("sort_by", sortBy),
			slog.String("sort_dir", sortDir),
		)

		render.JSON(w, r, response.StatusOKWithData(page))
	}
}
