package models

// Movie представляет запись каталога фильмов.
// Poster — имя файла постера в хранилище, не URL.
type Movie struct {
	ID          int      `json:"movieId"`
	Title       string   `json:"title"`
	Director    string   `json:"director"`
	Studio      string   `json:"studio"`
	MovieCast   []string `json:"movieCast"`
	ReleaseYear int      `json:"releaseYear"`
	Poster      string   `json:"poster"`
}

// MovieRecord — фильм с производным URL постера, отдаётся клиенту.
type MovieRecord struct {
	Movie
	PosterURL string `json:"posterUrl"`
}

// MoviePage — страница списка фильмов с метаданными пагинации.
type MoviePage struct {
	Movies        []MovieRecord `json:"movieDtos"`
	PageNumber    int           `json:"pageNumber"`
	PageSize      int           `json:"pageSize"`
	TotalElements int64         `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
	IsLast        bool          `json:"isLast"`
}
