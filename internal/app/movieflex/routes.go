// Package movieflex предоставляет маршруты приложения каталога фильмов.
package movieflex

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/movieflex/movieflex/internal/config"
	"github.com/movieflex/movieflex/internal/http-server/handlers/auth/login"
	"github.com/movieflex/movieflex/internal/http-server/handlers/auth/refresh"
	"github.com/movieflex/movieflex/internal/http-server/handlers/auth/register"
	getfile "github.com/movieflex/movieflex/internal/http-server/handlers/file/get"
	"github.com/movieflex/movieflex/internal/http-server/handlers/movie/add"
	"github.com/movieflex/movieflex/internal/http-server/handlers/movie/list"
	"github.com/movieflex/movieflex/internal/http-server/handlers/movie/listpage"
	"github.com/movieflex/movieflex/internal/http-server/handlers/movie/listpagesort"
	"github.com/movieflex/movieflex/internal/http-server/handlers/movie/read"
	"github.com/movieflex/movieflex/internal/http-server/handlers/movie/remove"
	"github.com/movieflex/movieflex/internal/http-server/handlers/movie/update"
	"github.com/movieflex/movieflex/internal/http-server/mware"
	"github.com/movieflex/movieflex/internal/lib/jwt"
	"github.com/movieflex/movieflex/internal/poster"
	authservice "github.com/movieflex/movieflex/internal/services/auth"
	movieservice "github.com/movieflex/movieflex/internal/services/movie"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker,
	authService *authservice.Service, movieService *movieservice.Service,
	posterStore *poster.Store, pagination config.Pagination) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/refresh", refresh.New(logger, authService).ServeHTTP)
	})

	r.Get("/file/{filename}", getfile.New(logger, posterStore).ServeHTTP)

	// Группа с JWT аутентификацией
	r.Route("/movies", func(r chi.Router) {
		r.Use(mware.JWTMiddleware(jwtMaker, logger))
		r.Post("/add-movie", add.New(logger, movieService).ServeHTTP)
		r.Get("/all", list.New(logger, movieService).ServeHTTP)
		r.Get("/allMoviesPage", listpage.New(logger, movieService, pagination).ServeHTTP)
		r.Get("/allMoviesPageSort", listpagesort.New(logger, movieService, pagination).ServeHTTP)
		r.Get("/{movieId}", read.New(logger, movieService).ServeHTTP)
		r.Put("/update/{movieId}", update.New(logger, movieService).ServeHTTP)
		r.Delete("/delete/{movieId}", remove.New(logger, movieService).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
