// Package update предоставляет HTTP-обработчик обновления фильма.
// Часть file необязательна: без неё постер остаётся прежним.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/movieflex/movieflex/internal/http-server/handlers/movie/add"
	"github.com/movieflex/movieflex/internal/http-server/response"
	"github.com/movieflex/movieflex/internal/lib/sl"
	"github.com/movieflex/movieflex/internal/models"
	"github.com/movieflex/movieflex/internal/poster"
	"github.com/movieflex/movieflex/internal/storage"
)

const maxUploadSize = 32 << 20

// Updater описывает контракт сервиса каталога для обновления фильма.
type Updater interface {
	UpdateMovie(ctx context.Context, id int, movie models.Movie, file []byte, filename string) (*models.MovieRecord, error)
}

// New возвращает HTTP-обработчик PUT /movies/update/{movieId}.
//
// @Summary Обновить фильм
// @Tags movies
// @Accept multipart/form-data
// @Produce json
// @Param movieId path int true "Идентификатор фильма"
// @Param file formData file false "Новый файл постера"
// @Param movieDto formData string true "JSON метаданных фильма"
// @Success 200 {object} response.Response "Обновлённая запись"
// @Failure 404 {object} response.Response "Фильм или файл постера не найден"
// @Failure 409 {object} response.Response "Имя файла уже занято"
// @Security BearerAuth
// @Router /movies/update/{movieId} [put]
func New(log *slog.Logger, updater Updater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.movie.update.New"

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

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			log.Error("failed to parse multipart form", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to parse multipart form"))
			return
		}

		var req add.Request
		if err := json.Unmarshal([]byte(r.FormValue("movieDto")), &req); err != nil {
			log.Error("failed to decode movieDto part", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode movieDto"))
			return
		}

		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		var (
			data     []byte
			filename string
		)
		if file, header, ferr := r.FormFile("file"); ferr == nil {
			defer func() {
				_ = file.Close()
			}()
			data, err = io.ReadAll(file)
			if err != nil {
				log.Error("failed to read file part", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("failed to read file"))
				return
			}
			filename = header.Filename
		}

		movie := models.Movie{
			Title:       req.Title,
			Director:    req.Director,
			Studio:      req.Studio,
			MovieCast:   req.MovieCast,
			ReleaseYear: req.ReleaseYear,
		}

		record, err := updater.UpdateMovie(r.Context(), id, movie, data, filename)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrMovieNotFound):
				log.Error("movie not found", slog.Int("movie_id", id))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("movie not found"))
			case errors.Is(err, poster.ErrFileNotFound):
				log.Error("poster file not found", sl.Err(err))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("file not found"))
			case errors.Is(err, poster.ErrFileExists):
				log.Error("poster filename already exists", sl.Err(err))
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("file already exists, please choose a different filename"))
			default:
				log.Error("failed to update movie", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to update movie"))
			}
			return
		}
		log.Info("movie updated", slog.Int("movie_id", id))

		render.JSON(w, r, response.StatusOKWithData(record))
	}
}
