// Package movie содержит логику бизнес-уровня каталога фильмов:
// CRUD записей, хранение постеров и постраничные списки.
package movie

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/movieflex/movieflex/internal/events"
	"github.com/movieflex/movieflex/internal/lib/sl"
	"github.com/movieflex/movieflex/internal/models"
	"github.com/movieflex/movieflex/internal/poster"
)

// MovieRepository описывает контракт для работы с записями фильмов.
type MovieRepository interface {
	CreateMovie(ctx context.Context, movie models.Movie) (int, error)
	GetMovieByID(ctx context.Context, id int) (*models.Movie, error)
	ListMovies(ctx context.Context) ([]models.Movie, error)
	ListMoviesPage(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]models.Movie, int64, error)
	UpdateMovie(ctx context.Context, movie models.Movie) error
	DeleteMovie(ctx context.Context, id int) error
}

// FileStore описывает контракт файлового хранилища постеров.
type FileStore interface {
	Save(filename string, data []byte) (string, error)
	Exists(filename string) bool
	Delete(filename string) error
	RemoveIfPresent(filename string) error
}

// Service координирует файловое хранилище и хранилище записей.
type Service struct {
	movies    MovieRepository
	files     FileStore
	baseURL   string
	publisher events.Publisher
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(movies MovieRepository, files FileStore, baseURL string,
	publisher events.Publisher, log *slog.Logger) *Service {
	return &Service{
		movies:    movies,
		files:     files,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		publisher: publisher,
		log:       log,
	}
}

// AddMovie сохраняет постер и запись фильма, возвращает запись с URL постера.
// Занятое имя файла отклоняется до записи (poster.ErrFileExists);
// само создание файла атомарно, так что параллельная загрузка того же
// имени не затирается.
func (s *Service) AddMovie(ctx context.Context, movie models.Movie, file []byte, filename string) (*models.MovieRecord, error) {
	const op = "movie.AddMovie"

	if s.files.Exists(filename) {
		return nil, fmt.Errorf("%s: %w", op, poster.ErrFileExists)
	}
	storedName, err := s.files.Save(filename, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	movie.Poster = storedName
	id, err := s.movies.CreateMovie(ctx, movie)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	movie.ID = id

	if err := s.publisher.Publish(events.MovieCreated, map[string]any{
		"movie_id": movie.ID,
		"title":    movie.Title,
	}); err != nil {
		s.log.Error("failed to publish event", sl.Err(err))
	}

	return s.record(movie), nil
}

// GetMovieByID возвращает запись фильма с URL постера.
func (s *Service) GetMovieByID(ctx context.Context, id int) (*models.MovieRecord, error) {
	const op = "movie.GetMovieByID"

	m, err := s.movies.GetMovieByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.record(*m), nil
}

// ListMovies возвращает все записи с URL постеров.
func (s *Service) ListMovies(ctx context.Context) ([]models.MovieRecord, error) {
	const op = "movie.ListMovies"

	movies, err := s.movies.ListMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	records := make([]models.MovieRecord, 0, len(movies))
	for _, m := range movies {
		records = append(records, *s.record(m))
	}
	return records, nil
}

// ListMoviesPage возвращает страницу записей. Нумерация страниц с нуля,
// порядок — по ID записи.
func (s *Service) ListMoviesPage(ctx context.Context, pageNumber, pageSize int) (*models.MoviePage, error) {
	return s.listPage(ctx, pageNumber, pageSize, "movie_id", "asc")
}

// ListMoviesPageSorted возвращает страницу, отсортированную по sortBy.
// Направление "asc" сравнивается без учёта регистра, любое другое
// значение даёт убывающий порядок.
func (s *Service) ListMoviesPageSorted(ctx context.Context, pageNumber, pageSize int, sortBy, sortDir string) (*models.MoviePage, error) {
	return s.listPage(ctx, pageNumber, pageSize, sortBy, sortDir)
}

func (s *Service) listPage(ctx context.Context, pageNumber, pageSize int, sortBy, sortDir string) (*models.MoviePage, error) {
	const op = "movie.listPage"

	movies, total, err := s.movies.ListMoviesPage(ctx, pageSize, pageNumber*pageSize, sortBy, sortDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	records := make([]models.MovieRecord, 0, len(movies))
	for _, m := range movies {
		records = append(records, *s.record(m))
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return &models.MoviePage{
		Movies:        records,
		PageNumber:    pageNumber,
		PageSize:      pageSize,
		TotalElements: total,
		TotalPages:    totalPages,
		IsLast:        pageNumber >= totalPages-1,
	}, nil
}

// UpdateMovie обновляет запись фильма. Если передан новый файл, старый постер
// удаляется строго (отсутствие старого файла — ошибка) и сохраняется новый;
// иначе имя постера остаётся прежним.
func (s *Service) UpdateMovie(ctx context.Context, id int, movie models.Movie, file []byte, filename string) (*models.MovieRecord, error) {
	const op = "movie.UpdateMovie"

	existing, err := s.movies.GetMovieByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	posterName := existing.Poster
	if len(file) > 0 {
		if err := s.files.Delete(existing.Poster); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		posterName, err = s.files.Save(filename, file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	movie.ID = existing.ID
	movie.Poster = posterName
	if err := s.movies.UpdateMovie(ctx, movie); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.publisher.Publish(events.MovieUpdated, map[string]any{
		"movie_id": movie.ID,
		"title":    movie.Title,
	}); err != nil {
		s.log.Error("failed to publish event", sl.Err(err))
	}

	return s.record(movie), nil
}

// DeleteMovie удаляет постер (отсутствие файла не ошибка) и запись фильма.
func (s *Service) DeleteMovie(ctx context.Context, id int) error {
	const op = "movie.DeleteMovie"

	existing, err := s.movies.GetMovieByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.files.RemoveIfPresent(existing.Poster); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.movies.DeleteMovie(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.publisher.Publish(events.MovieDeleted, map[string]any{
		"movie_id": id,
	}); err != nil {
		s.log.Error("failed to publish event", sl.Err(err))
	}

	return nil
}

func (s *Service) record(m models.Movie) *models.MovieRecord {
	return &models.MovieRecord{
		Movie:     m,
		PosterURL: s.baseURL + "/file/" + m.Poster,
	}
}
