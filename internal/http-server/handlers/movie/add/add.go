// Package add предоставляет HTTP-обработчик создания фильма.
// Запрос multipart: часть file с постером и часть movieDto с JSON метаданных.
package add

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/movieflex/movieflex/internal/http-server/response"
	"github.com/movieflex/movieflex/internal/lib/sl"
	"github.com/movieflex/movieflex/internal/models"
	"github.com/movieflex/movieflex/internal/poster"
)

// maxUploadSize ограничивает размер multipart-формы в памяти.
const maxUploadSize = 32 << 20

// Request — метаданные фильма из части movieDto.
type Request struct {
	Title       string   `json:"title" validate:"required"`
	Director    string   `json:"director" validate:"required"`
	Studio      string   `json:"studio" validate:"required"`
	MovieCast   []string `json:"movieCast" validate:"required"`
	ReleaseYear int      `json:"releaseYear" validate:"required"`
}

// Adder описывает контракт сервиса каталога для создания фильма.
type Adder interface {
	AddMovie(ctx context.Context, movie models.Movie, file []byte, filename string) (*models.MovieRecord, error)
}

// New возвращает HTTP-обработчик POST /movies/add-movie.
//
// @Summary Создать фильм с постером
// @Tags movies
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Файл постера"
// @Param movieDto formData string true "JSON метаданных фильма"
// @Success 201 {object} response.Response "Созданная запись"
// @Failure 404 {object} response.Response "Пустой файл"
// @Failure 409 {object} response.Response "Имя файла уже занято"
// @Security BearerAuth
// @Router /movies/add-movie [post]
func New(log *slog.Logger, adder Adder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.movie.add.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			log.Error("failed to parse multipart form", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to parse multipart form"))
			return
		}

		var req Request
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

		file, header, err := r.FormFile("file")
		if err != nil {
			log.Error("file part is missing", sl.Err(err))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("file is empty, please send another file"))
			return
		}
		defer func() {
			_ = file.Close()
		}()

		data, err := io.ReadAll(file)
		if err != nil {
			log.Error("failed to read file part", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to read file"))
			return
		}
		if len(data) == 0 {
			log.Error("uploaded file is empty")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("file is empty, please send another file"))
			return
		}

		movie := models.Movie{
			Title:       req.Title,
			Director:    req.Director,
			Studio:      req.Studio,
			MovieCast:   req.MovieCast,
			ReleaseYear: req.ReleaseYear,
		}

		record, err := adder.AddMovie(r.Context(), movie, data, header.Filename)
		if err != nil {
			switch {
			case errors.Is(err, poster.ErrFileExists):
				log.Error("poster filename already exists", sl.Err(err))
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("file already exists, please choose a different filename"))
			case errors.Is(err, poster.ErrEmptyFile):
				log.Error("uploaded file is empty", sl.Err(err))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("file is empty, please send another file"))
			default:
				log.Error("failed to add movie", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to add movie"))
			}
			return
		}
		log.Info("movie created", slog.Int("movie_id", record.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.StatusOKWithData(record))
	}
}
