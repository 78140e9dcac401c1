package main

import (
	"log"

	"github.com/project/quickstart/config"
	"github.com/project/quickstart/internal/app"
	"go.uber.org/zap"
)

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()

	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	return cfg.Build()
}

func main() {
	config.LoadDotEnv(".env")

	cfg, err := config.NewConfig()

	if err != nil {
		log.Fatalf("can not get application config: %s", err)
	}

	logger, err := newLogger(cfg.Log.Level)

	if err != nil {
		log.Fatalf("can not initialize logger: %s", err)
	}

	defer func() { _ = logger.Sync() }()

	app.Run(logger, cfg)
}
