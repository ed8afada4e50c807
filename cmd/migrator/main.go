package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/99minutos/user-service/internal/infrastructure/config"
	"github.com/99minutos/user-service/pkg/logger"
)

const (
	migrationUp   = "up"
	migrationDown = "down"

	serviceName = "user-migrator"
)

func main() {
	var migrationsPath, migrationType string
	flag.StringVar(&migrationsPath, "migrations-path", "migrations", "path to migrations")
	flag.StringVar(&migrationType, "migration-type", migrationUp, "migration type: up or down")
	flag.Parse()

	cfg, err := config.Load(context.Background())
	if err != nil {
		l := logger.New(logger.Options{Service: serviceName})
		l.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	})

	if cfg.StoreDriver != config.DriverPostgres {
		log.Fatal().Str("driver", cfg.StoreDriver).Msg("migrations only apply to the postgres store")
	}

	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), cfg.DB.URL())
	if err != nil {
		log.Fatal().Err(err).Msg("init migrate")
	}
	defer m.Close()

	switch migrationType {
	case migrationUp:
		err = m.Up()
	case migrationDown:
		err = m.Down()
	default:
		log.Fatal().Str("type", migrationType).Msg("unknown migration type")
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("no migrations to apply")
			return
		}
		log.Fatal().Err(err).Str("type", migrationType).Msg("migration failed")
	}

	log.Info().Str("type", migrationType).Msg("migrations applied successfully")
}
