package movie_test

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movieflex/movieflex/internal/events"
	"github.com/movieflex/movieflex/internal/models"
	"github.com/movieflex/movieflex/internal/poster"
	movieservice "github.com/movieflex/movieflex/internal/services/movie"
	"github.com/movieflex/movieflex/internal/storage"
)

type mockMovieRepo struct {
	movies map[int]models.Movie
	nextID int
}

func newMockMovieRepo() *mockMovieRepo {
	return &mockMovieRepo{movies: make(map[int]models.Movie), nextID: 1}
}

func (m *mockMovieRepo) CreateMovie(_ context.Context, movie models.Movie) (int, error) {
	movie.ID = m.nextID
	m.nextID++
	m.movies[movie.ID] = movie
	return movie.ID, nil
}

func (m *mockMovieRepo) GetMovieByID(_ context.Context, id int) (*models.Movie, error) {
	movie, ok := m.movies[id]
	if !ok {
		return nil, storage.ErrMovieNotFound
	}
	return &movie, nil
}

func (m *mockMovieRepo) ListMovies(_ context.Context) ([]models.Movie, error) {
	return m.sorted("movie_id", "asc"), nil
}

func (m *mockMovieRepo) ListMoviesPage(_ context.Context, limit, offset int, sortBy, sortDir string) ([]models.Movie, int64, error) {
	all := m.sorted(sortBy, sortDir)
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockMovieRepo) UpdateMovie(_ context.Context, movie models.Movie) error {
	if _, ok := m.movies[movie.ID]; !ok {
		return storage.ErrMovieNotFound
	}
	m.movies[movie.ID] = movie
	return nil
}

func (m *mockMovieRepo) DeleteMovie(_ context.Context, id int) error {
	if _, ok := m.movies[id]; !ok {
		return storage.ErrMovieNotFound
	}
	delete(m.movies, id)
	return nil
}

func (m *mockMovieRepo) sorted(sortBy, sortDir string) []models.Movie {
	all := make([]models.Movie, 0, len(m.movies))
	for _, movie := range m.movies {
		all = append(all, movie)
	}
	sort.Slice(all, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "title":
			less = all[i].Title < all[j].Title
		default:
			less = all[i].ID < all[j].ID
		}
		if strings.EqualFold(sortDir, "asc") {
			return less
		}
		return !less
	})
	return all
}

type mockFileStore struct {
	files map[string][]byte
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{files: make(map[string][]byte)}
}

func (m *mockFileStore) Save(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", poster.ErrEmptyFile
	}
	if _, ok := m.files[filename]; ok {
		return "", poster.ErrFileExists
	}
	m.files[filename] = data
	return filename, nil
}

func (m *mockFileStore) Exists(filename string) bool {
	_, ok := m.files[filename]
	return ok
}

func (m *mockFileStore) Delete(filename string) error {
	if _, ok := m.files[filename]; !ok {
		return poster.ErrFileNotFound
	}
	delete(m.files, filename)
	return nil
}

func (m *mockFileStore) RemoveIfPresent(filename string) error {
	delete(m.files, filename)
	return nil
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func newService(repo *mockMovieRepo, files *mockFileStore) *movieservice.Service {
	return movieservice.New(repo, files, "http://localhost:8080", events.Noop{}, makeLogger())
}

func testMovie(title string) models.Movie {
	return models.Movie{
		Title:       title,
		Director:    "Director",
		Studio:      "Studio",
		MovieCast:   []string{"Actor One", "Actor Two"},
		ReleaseYear: 2020,
	}
}

func TestService_AddMovie(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := newMockMovieRepo()
		files := newMockFileStore()
		service := newService(repo, files)

		record, err := service.AddMovie(ctx, testMovie("Dune"), []byte("png"), "dune.png")
		require.NoError(t, err)

		assert.Equal(t, 1, record.ID)
		assert.Equal(t, "dune.png", record.Poster)
		assert.Equal(t, "http://localhost:8080/file/dune.png", record.PosterURL)
		assert.True(t, files.Exists("dune.png"))
	})

	t.Run("duplicate filename leaves no write", func(t *testing.T) {
		repo := newMockMovieRepo()
		files := newMockFileStore()
		service := newService(repo, files)

		_, err := service.AddMovie(ctx, testMovie("Dune"), []byte("png"), "dune.png")
		require.NoError(t, err)

		_, err = service.AddMovie(ctx, testMovie("Dune 2"), []byte("other"), "dune.png")
		require.ErrorIs(t, err, poster.ErrFileExists)

		assert.Len(t, repo.movies, 1)
		assert.Equal(t, []byte("png"), files.files["dune.png"])
	})

	t.Run("empty file rejected", func(t *testing.T) {
		repo := newMockMovieRepo()
		files := newMockFileStore()
		service := newService(repo, files)

		_, err := service.AddMovie(ctx, testMovie("Dune"), nil, "dune.png")
		require.ErrorIs(t, err, poster.ErrEmptyFile)
		assert.Empty(t, repo.movies)
	})
}

func TestService_GetMovieByID(t *testing.T) {
	ctx := context.Background()
	repo := newMockMovieRepo()
	files := newMockFileStore()
	service := newService(repo, files)

	created, err := service.AddMovie(ctx, testMovie("Dune"), []byte("png"), "dune.png")
	require.NoError(t, err)

	got, err := service.GetMovieByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, "http://localhost:8080/file/dune.png", got.PosterURL)

	_, err = service.GetMovieByID(ctx, 999)
	require.ErrorIs(t, err, storage.ErrMovieNotFound)
}

func TestService_DeleteMovie(t *testing.T) {
	ctx := context.Background()
	repo := newMockMovieRepo()
	files := newMockFileStore()
	service := newService(repo, files)

	created, err := service.AddMovie(ctx, testMovie("Dune"), []byte("png"), "dune.png")
	require.NoError(t, err)

	require.NoError(t, service.DeleteMovie(ctx, created.ID))

	assert.False(t, files.Exists("dune.png"))
	_, err = service.GetMovieByID(ctx, created.ID)
	require.ErrorIs(t, err, storage.ErrMovieNotFound)

	// повторное удаление: записи уже нет
	require.ErrorIs(t, service.DeleteMovie(ctx, created.ID), storage.ErrMovieNotFound)
}

func TestService_DeleteMovie_MissingPosterIsNotAnError(t *testing.T) {
	ctx := context.Background()
	repo := newMockMovieRepo()
	files := newMockFileStore()
	service := newService(repo, files)

	created, err := service.AddMovie(ctx, testMovie("Dune"), []byte("png"), "dune.png")
	require.NoError(t, err)
	require.NoError(t, files.Delete("dune.png"))

	require.NoError(t, service.DeleteMovie(ctx, created.ID))
}

func TestService_UpdateMovie(t *testing.T) {
	ctx := context.Background()

	t.Run("without file keeps poster", func(t *testing.T) {
		repo := newMockMovieRepo()
		files := newMockFileStore()
		service := newService(repo, files)

		created, err := service.AddMovie(ctx, testMovie("Dune"), []byte("png"), "dune.png")
		require.NoError(t, err)

		updated, err := service.UpdateMovie(ctx, created.ID, testMovie("Dune: Part One"), nil, "")
		require.NoError(t, err)

		assert.Equal(t, "Dune: Part One", updated.Title)
		assert.Equal(t, "dune.png", updated.Poster)
	})

	t.Run("with file replaces poster", func(t *testing.T) {
		repo := newMockMovieRepo()
		files := newMockFileStore()
		service := newService(repo, files)

		created, err := service.AddMovie(ctx, testMovie("Dune"), []byte("png"), "dune.png")
		require.NoError(t, err)

		updated, err := service.UpdateMovie(ctx, created.ID, testMovie("Dune"), []byte("png2"), "dune-v2.png")
		require.NoError(t, err)

		assert.Equal(t, "dune-v2.png", updated.Poster)
		assert.False(t, files.Exists("dune.png"))
		assert.True(t, files.Exists("dune-v2.png"))
	})

	t.Run("replacement with missing old poster fails", func(t *testing.T) {
		repo := newMockMovieRepo()
		files := newMockFileStore()
		service := newService(repo, files)

		created, err := service.AddMovie(ctx, testMovie("Dune"), []byte("png"), "dune.png")
		require.NoError(t, err)
		require.NoError(t, files.Delete("dune.png"))

		_, err = service.UpdateMovie(ctx, created.ID, testMovie("Dune"), []byte("png2"), "dune-v2.png")
		require.ErrorIs(t, err, poster.ErrFileNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		service := newService(newMockMovieRepo(), newMockFileStore())

		_, err := service.UpdateMovie(ctx, 999, testMovie("Dune"), nil, "")
		require.ErrorIs(t, err, storage.ErrMovieNotFound)
	})
}

func TestService_ListMoviesPage(t *testing.T) {
	ctx := context.Background()
	repo := newMockMovieRepo()
	files := newMockFileStore()
	service := newService(repo, files)

	for i := 0; i < 25; i++ {
		m := testMovie("Movie " + string(rune('A'+i)))
		m.Poster = "p.png"
		_, err := repo.CreateMovie(ctx, m)
		require.NoError(t, err)
	}

	tests := []struct {
		name       string
		pageNumber int
		wantCount  int
		wantIsLast bool
	}{
		{name: "first page", pageNumber: 0, wantCount: 10, wantIsLast: false},
		{name: "second page", pageNumber: 1, wantCount: 10, wantIsLast: false},
		{name: "third page", pageNumber: 2, wantCount: 5, wantIsLast: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := service.ListMoviesPage(ctx, tt.pageNumber, 10)
			require.NoError(t, err)

			assert.Len(t, page.Movies, tt.wantCount)
			assert.Equal(t, tt.pageNumber, page.PageNumber)
			assert.Equal(t, 10, page.PageSize)
			assert.Equal(t, int64(25), page.TotalElements)
			assert.Equal(t, 3, page.TotalPages)
			assert.Equal(t, tt.wantIsLast, page.IsLast)
		})
	}
}

func TestService_ListMoviesPageSorted(t *testing.T) {
	ctx := context.Background()
	repo := newMockMovieRepo()
	files := newMockFileStore()
	service := newService(repo, files)

	for _, title := range []string{"Beta", "Alpha", "Gamma"} {
		m := testMovie(title)
		m.Poster = "p.png"
		_, err := repo.CreateMovie(ctx, m)
		require.NoError(t, err)
	}

	t.Run("asc is case-insensitive", func(t *testing.T) {
		page, err := service.ListMoviesPageSorted(ctx, 0, 10, "title", "ASC")
		require.NoError(t, err)
		require.Len(t, page.Movies, 3)
		assert.Equal(t, "Alpha", page.Movies[0].Title)
	})

	t.Run("anything else sorts descending", func(t *testing.T) {
		page, err := service.ListMoviesPageSorted(ctx, 0, 10, "title", "whatever")
		require.NoError(t, err)
		require.Len(t, page.Movies, 3)
		assert.Equal(t, "Gamma", page.Movies[0].Title)
	})
}
