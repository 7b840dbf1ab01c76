// Package get предоставляет HTTP-обработчик раздачи файлов постеров.
package get

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/movieflex/movieflex/internal/http-server/response"
	"github.com/movieflex/movieflex/internal/lib/sl"
)

// PathResolver отображает имя файла постера в путь на диске.
type PathResolver interface {
	Path(filename string) string
}

// New возвращает HTTP-обработчик GET /file/{filename}.
//
// @Summary Скачать файл постера
// @Tags files
// @Produce octet-stream
// @Param filename path string true "Имя файла постера"
// @Success 200 {file} binary "Содержимое файла"
// @Failure 404 {object} response.Response "Файл не найден"
// @Router /file/{filename} [get]
func New(log *slog.Logger, resolver PathResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.file.get.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		filename := chi.URLParam(r, "filename")
		path := resolver.Path(filename)

		info, err := os.Stat(path)
		if err != nil {
			log.Error("poster file not found", slog.String("filename", filename), sl.Err(err))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("file not found"))
			return
		}
		if info.IsDir() {
			log.Error("poster path is a directory", slog.String("filename", filename))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("file not found"))
			return
		}

		http.ServeFile(w, r, path)
	}
}
