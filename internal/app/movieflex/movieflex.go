// Package movieflex собирает зависимости приложения каталога фильмов
// и управляет жизненным циклом HTTP-сервера.
package movieflex

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/movieflex/movieflex/internal/config"
	"github.com/movieflex/movieflex/internal/events"
	"github.com/movieflex/movieflex/internal/lib/jwt"
	"github.com/movieflex/movieflex/internal/lib/rabbitmq"
	"github.com/movieflex/movieflex/internal/lib/sl"
	"github.com/movieflex/movieflex/internal/migrations"
	"github.com/movieflex/movieflex/internal/poster"
	authservice "github.com/movieflex/movieflex/internal/services/auth"
	movieservice "github.com/movieflex/movieflex/internal/services/movie"
	"github.com/movieflex/movieflex/internal/storage"
)

// App — собранное приложение каталога фильмов.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
}

// New инициализирует хранилище, миграции, файловое хранилище постеров,
// публикацию событий и HTTP-сервер с маршрутами.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = storage.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	posterStore, err := poster.NewStore(cfg.Poster.Dir)
	if err != nil {
		return nil, err
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.RabbitMQ.Enabled {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, 5, 3*time.Second)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetEventQueues())
		if err != nil {
			return nil, err
		}
		publisher = events.NewAMQPPublisher(ch)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	authService := authservice.New(db, db, jwtMaker,
		cfg.JWTToken.RefreshTokenValidity, publisher, logger)
	movieService := movieservice.New(db, posterStore, cfg.Poster.BaseURL,
		publisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, authService, movieService, posterStore, cfg.Pagination)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Error("failed to close database", sl.Err(cerr))
		}
		return err
	}
}
