package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	OutboxSinkHTTP  = "http"
	OutboxSinkRedis = "redis"
)

type (
	Config struct {
		HTTP
		GRPC
		PG
		Outbox
		Redis
		Log
	}

	HTTP struct {
		Port            string        `env:"HTTP_PORT"`
		MaxBodyBytes    int64         `env:"HTTP_MAX_BODY_BYTES"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT_MS"`
	}

	GRPC struct {
		Port string `env:"GRPC_PORT"`
	}

	PG struct {
		URL string
		// MigrationURL is URL without pgxpool options. lib/pq forwards
		// unknown options to the server as run-time parameters.
		MigrationURL string
		Host     string `env:"POSTGRES_HOST"`
		Port     string `env:"POSTGRES_PORT"`
		DB       string `env:"POSTGRES_DB"`
		User     string `env:"POSTGRES_USER"`
		Password string `env:"POSTGRES_PASSWORD"`
		MaxConn  string `env:"POSTGRES_MAX_CONN"`
	}

	Outbox struct {
		Enabled         bool          `env:"OUTBOX_ENABLED"`
		Workers         int           `env:"OUTBOX_WORKERS"`
		BatchSize       int           `env:"OUTBOX_BATCH_SIZE"`
		WaitTimeMS      time.Duration `env:"OUTBOX_WAIT_TIME_MS"`
		InProgressTTLMS time.Duration `env:"OUTBOX_IN_PROGRESS_TTL_MS"`
		Sink            string        `env:"OUTBOX_SINK"`
		AuthorSendURL   string        `env:"OUTBOX_AUTHOR_SEND_URL"`
		BookSendURL     string        `env:"OUTBOX_BOOK_SEND_URL"`
		RedisChannel    string        `env:"OUTBOX_REDIS_CHANNEL"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL"`
	}
)

func getOrDefault(envName string, defaultValue string) string {
	if val, exist := os.LookupEnv(envName); exist {
		return val
	}
	return defaultValue
}

// LoadDotEnv populates the process environment from the given .env files.
// Missing files are not an error: production deployments set real variables.
func LoadDotEnv(files ...string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	var err error

	cfg.HTTP.Port = getOrDefault("HTTP_PORT", "8080")
	cfg.HTTP.MaxBodyBytes, err = strconv.ParseInt(getOrDefault("HTTP_MAX_BODY_BYTES", "1048576"), 10, 64)

	if err != nil {
		return nil, fmt.Errorf("error while parsing HTTP_MAX_BODY_BYTES: %w", err)
	}

	shutdownTimeout, err := strconv.Atoi(getOrDefault("HTTP_SHUTDOWN_TIMEOUT_MS", "3000"))

	if err != nil {
		return nil, fmt.Errorf("error while parsing HTTP_SHUTDOWN_TIMEOUT_MS: %w", err)
	}

	cfg.HTTP.ShutdownTimeout = time.Duration(shutdownTimeout) * time.Millisecond

	cfg.GRPC.Port = getOrDefault("GRPC_PORT", "9090")

	cfg.PG.Host = getOrDefault("POSTGRES_HOST", "127.0.0.1")
	cfg.PG.Port = getOrDefault("POSTGRES_PORT", "5432")
	cfg.PG.DB = getOrDefault("POSTGRES_DB", "quickstart")
	cfg.PG.User = getOrDefault("POSTGRES_USER", "postgres")
	cfg.PG.Password = getOrDefault("POSTGRES_PASSWORD", "postgres")
	cfg.PG.MaxConn = getOrDefault("POSTGRES_MAX_CONN", "10")

	pgURL := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.PG.User, cfg.PG.Password),
		Host:     net.JoinHostPort(cfg.PG.Host, cfg.PG.Port),
		Path:     cfg.PG.DB,
		RawQuery: "sslmode=disable",
	}

	cfg.PG.MigrationURL = pgURL.String()

	pgURL.RawQuery += "&pool_max_conns=" + cfg.PG.MaxConn
	cfg.PG.URL = pgURL.String()

	cfg.Redis.Addr = getOrDefault("REDIS_ADDR", "127.0.0.1:6379")
	cfg.Redis.Password = getOrDefault("REDIS_PASSWORD", "")
	cfg.Redis.DB, err = strconv.Atoi(getOrDefault("REDIS_DB", "0"))

	if err != nil {
		return nil, fmt.Errorf("error while parsing REDIS_DB: %w", err)
	}

	cfg.Log.Level = getOrDefault("LOG_LEVEL", "info")

	cfg.Outbox.Enabled, err = strconv.ParseBool(getOrDefault("OUTBOX_ENABLED", "false"))

	if err != nil {
		return nil, fmt.Errorf("error while parsing OUTBOX_ENABLED: %w", err)
	}

	if cfg.Outbox.Enabled {
		cfg.Outbox.Workers, err = strconv.Atoi(os.Getenv("OUTBOX_WORKERS"))

		if err != nil {
			return nil, fmt.Errorf("error while parsing OUTBOX_WORKERS: %w", err)
		}

		cfg.Outbox.BatchSize, err = strconv.Atoi(os.Getenv("OUTBOX_BATCH_SIZE"))

		if err != nil {
			return nil, fmt.Errorf("error while parsing OUTBOX_BATCH_SIZE: %w", err)
		}

		waitTime, err := strconv.Atoi(os.Getenv("OUTBOX_WAIT_TIME_MS"))

		if err != nil {
			return nil, fmt.Errorf("error while parsing OUTBOX_WAIT_TIME_MS: %w", err)
		}

		cfg.Outbox.WaitTimeMS = time.Duration(waitTime) * time.Millisecond

		inProgressTTL, err := strconv.Atoi(os.Getenv("OUTBOX_IN_PROGRESS_TTL_MS"))

		if err != nil {
			return nil, fmt.Errorf("error while parsing OUTBOX_IN_PROGRESS_TTL_MS: %w", err)
		}

		cfg.Outbox.InProgressTTLMS = time.Duration(inProgressTTL) * time.Millisecond

		cfg.Outbox.Sink = getOrDefault("OUTBOX_SINK", OutboxSinkHTTP)

		switch cfg.Outbox.Sink {
		case OutboxSinkHTTP:
			cfg.Outbox.AuthorSendURL = os.Getenv("OUTBOX_AUTHOR_SEND_URL")
			cfg.Outbox.BookSendURL = os.Getenv("OUTBOX_BOOK_SEND_URL")
		case OutboxSinkRedis:
			cfg.Outbox.RedisChannel = getOrDefault("OUTBOX_REDIS_CHANNEL", "quickstart.events")
		default:
			return nil, fmt.Errorf("unsupported OUTBOX_SINK: %q", cfg.Outbox.Sink)
		}
	}

	return cfg, nil
}
