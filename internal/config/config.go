// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Poster                  `yaml:"poster"`
	Pagination              `yaml:"pagination"`
	RabbitMQ                `yaml:"rabbitmq"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"ADDRESS_HTTP" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// JWTToken структура для работы с токенами.
//
// TokenTTL — срок жизни access-токена. В исходной системе константа
// 2000мс*60*24 давала срок порядка минут; здесь срок конфигурируем,
// значение по умолчанию 15m.
type JWTToken struct {
	JWTSecretKey         string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL             time.Duration `yaml:"token_ttl" env-default:"15m"`
	RefreshTokenValidity time.Duration `yaml:"refresh_token_validity" env-default:"720h"`
}

// Poster — настройки файлового хранилища постеров.
type Poster struct {
	Dir     string `yaml:"dir" env:"POSTER_DIR" env-default:"./posters"`
	BaseURL string `yaml:"base_url" env:"BASE_URL" env-default:"http://localhost:8080"`
}

// Pagination — значения по умолчанию для постраничных списков.
type Pagination struct {
	PageNumber int    `yaml:"page_number" env-default:"0"`
	PageSize   int    `yaml:"page_size" env-default:"3"`
	SortBy     string `yaml:"sort_by" env-default:"movie_id"`
	SortDir    string `yaml:"sort_dir" env-default:"asc"`
}

// RabbitMQ — настройки публикации доменных событий.
type RabbitMQ struct {
	Enabled bool   `yaml:"enabled" env:"RABBITMQ_ENABLED" env-default:"false"`
	URL     string `yaml:"url" env:"RABBITMQ_URL"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
