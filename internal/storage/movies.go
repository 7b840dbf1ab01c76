package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/movieflex/movieflex/internal/models"
)

// sortableColumns — белый список полей сортировки. Имя поля подставляется
// в текст запроса, поэтому принимаются только известные колонки.
var sortableColumns = map[string]struct{}{
	"movie_id":     {},
	"title":        {},
	"director":     {},
	"studio":       {},
	"release_year": {},
}

// CreateMovie вставляет новую запись фильма и возвращает её ID.
// movie_cast хранится как JSONB.
func (s *Storage) CreateMovie(ctx context.Context, movie models.Movie) (int, error) {
	const op = "storage.CreateMovie"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	cast, err := json.Marshal(movie.MovieCast)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var newID int
	query := `INSERT INTO movies (title, director, studio, movie_cast, release_year, poster)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING movie_id;`
	if err := s.DB.QueryRowContext(ctx, query,
		movie.Title, movie.Director, movie.Studio, cast, movie.ReleaseYear,
		movie.Poster).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetMovieByID возвращает фильм по его ID.
func (s *Storage) GetMovieByID(ctx context.Context, id int) (*models.Movie, error) {
	const op = "storage.GetMovieByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT movie_id, title, director, studio, movie_cast, release_year, poster
			  FROM movies
			  WHERE movie_id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	m, err := scanMovie(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrMovieNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// ListMovies возвращает все фильмы в порядке их ID.
func (s *Storage) ListMovies(ctx context.Context) ([]models.Movie, error) {
	const op = "storage.ListMovies"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT movie_id, title, director, studio, movie_cast, release_year, poster
			  FROM movies
			  ORDER BY movie_id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Movie
	for rows.Next() {
		m, err := scanMovie(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListMoviesPage возвращает страницу фильмов и общее количество записей.
// sortBy проверяется по белому списку; sortDir "asc" (без учёта регистра)
// даёт возрастающий порядок, любое другое значение — убывающий.
func (s *Storage) ListMoviesPage(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]models.Movie, int64, error) {
	const op = "storage.ListMoviesPage"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, ok := sortableColumns[sortBy]; !ok {
		return nil, 0, fmt.Errorf("%s: unsupported sort column %q", op, sortBy)
	}
	direction := "DESC"
	if strings.EqualFold(sortDir, "asc") {
		direction = "ASC"
	}

	query := fmt.Sprintf(`SELECT count(*) OVER(), movie_id, title, director, studio,
			      movie_cast, release_year, poster
			  FROM movies
			  ORDER BY %s %s, movie_id ASC
			  LIMIT $1 OFFSET $2`, sortBy, direction)
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var total int64
	var result []models.Movie
	for rows.Next() {
		var m models.Movie
		var cast []byte
		if err := rows.Scan(&total, &m.ID, &m.Title, &m.Director, &m.Studio,
			&cast, &m.ReleaseYear, &m.Poster); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(cast, &m.MovieCast); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	// Пустая страница за пределами данных: количество берём отдельным запросом.
	if len(result) == 0 {
		if err := s.DB.QueryRowContext(ctx, `SELECT count(*) FROM movies`).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
	}
	return result, total, nil
}

// UpdateMovie обновляет запись фильма по ID.
func (s *Storage) UpdateMovie(ctx context.Context, movie models.Movie) error {
	const op = "storage.UpdateMovie"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	cast, err := json.Marshal(movie.MovieCast)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE movies
			  SET title = $1, director = $2, studio = $3, movie_cast = $4,
			      release_year = $5, poster = $6
			  WHERE movie_id = $7`
	res, err := s.DB.ExecContext(ctx, query,
		movie.Title, movie.Director, movie.Studio, cast, movie.ReleaseYear,
		movie.Poster, movie.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrMovieNotFound)
	}
	return nil
}

// DeleteMovie удаляет запись фильма по ID.
func (s *Storage) DeleteMovie(ctx context.Context, id int) error {
	const op = "storage.DeleteMovie"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM movies WHERE movie_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrMovieNotFound)
	}
	return nil
}

func scanMovie(scan func(dest ...any) error) (*models.Movie, error) {
	m := &models.Movie{}
	var cast []byte
	if err := scan(&m.ID, &m.Title, &m.Director, &m.Studio, &cast,
		&m.ReleaseYear, &m.Poster); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cast, &m.MovieCast); err != nil {
		return nil, err
	}
	return m, nil
}
