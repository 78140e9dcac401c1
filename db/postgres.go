package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq" // database/sql driver used by goose
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

// SetupPostgres applies the embedded migrations to the database at dsn.
func SetupPostgres(ctx context.Context, dsn string, logger *zap.Logger) error {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("can not open migration connection: %w", err)
	}

	defer func() {
		if err := conn.Close(); err != nil {
			logger.Error("Error while closing migration connection.", zap.Error(err))
		}
	}()

	return Migrate(ctx, conn, logger)
}

func Migrate(ctx context.Context, conn *sql.DB, logger *zap.Logger) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(migrationLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("can not set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, conn, migrationsDir); err != nil {
		logger.Error("Error while applying migrations.", zap.Error(err))
		return fmt.Errorf("can not apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, conn)
	if err != nil {
		return fmt.Errorf("can not read schema version: %w", err)
	}

	logger.Info("Database schema is up to date.", zap.Int64("version", version))

	return nil
}

func migrationLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	return l
}
