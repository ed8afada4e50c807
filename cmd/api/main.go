// @title          User Service API
// @version        1.0
// @description    Create, authenticate, update and delete user accounts.
// @BasePath       /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-service/internal/api"
	"github.com/99minutos/user-service/internal/core/ports"
	"github.com/99minutos/user-service/internal/core/service"
	"github.com/99minutos/user-service/internal/infrastructure/config"
	"github.com/99minutos/user-service/internal/infrastructure/db/mongo"
	"github.com/99minutos/user-service/internal/infrastructure/db/postgres"
	"github.com/99minutos/user-service/internal/infrastructure/security"
	"github.com/99minutos/user-service/pkg/logger"
)

const serviceName = "user-service"

// store is a repository the process owns and must close on shutdown.
type store interface {
	ports.UserRepository
	ports.Pinger
	Close(ctx context.Context) error
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.New(logger.Options{Service: serviceName})
		l.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	})

	hasher, err := security.NewBcryptHasher(cfg.HashRounds)
	if err != nil {
		log.Fatal().Err(err).Msg("password hasher")
	}

	repo, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open store")
	}

	users := service.NewUserService(repo, hasher, log)
	e := api.NewRouter(api.Dependencies{
		Users:          users,
		HealthChecks:   map[string]ports.Pinger{"store": repo},
		Log:            log,
		ExposeUserList: !cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", cfg.Addr()).
			Str("env", cfg.Env).
			Str("driver", cfg.StoreDriver).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := repo.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("close store")
	}
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		db, err := mongo.Connect(ctx, mongo.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			AppName:     serviceName,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			return nil, err
		}
		repo := mongo.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = repo.Close(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
		return repo, nil

	default:
		db, err := postgres.Connect(ctx, postgres.Config{
			DSN:          cfg.DB.URL(),
			MaxOpenConns: cfg.DB.MaxOpenConns,
			Log:          log,
		})
		if err != nil {
			return nil, err
		}
		log.Info().
			Str("host", cfg.DB.Host).
			Str("database", cfg.DB.Name).
			Msg("connected to postgres")
		return postgres.NewUserRepository(db), nil
	}
}
