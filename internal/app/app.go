// Package app is the composition root: it turns a Config into a running
// HTTP server with its store, cache and services.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/coursehub/catalog-api/internal/api"
	"github.com/coursehub/catalog-api/internal/api/handler"
	"github.com/coursehub/catalog-api/internal/core/auth"
	"github.com/coursehub/catalog-api/internal/core/ports"
	"github.com/coursehub/catalog-api/internal/core/service"
	"github.com/coursehub/catalog-api/internal/infrastructure/db/memory"
	mongostore "github.com/coursehub/catalog-api/internal/infrastructure/db/mongo"
	"github.com/coursehub/catalog-api/internal/infrastructure/db/postgres"
	rediscache "github.com/coursehub/catalog-api/internal/infrastructure/db/redis"
	"github.com/coursehub/catalog-api/internal/pkg/config"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg     *config.Config
	log     zerolog.Logger
	server  *http.Server
	closers []func(context.Context) error
}

type stores struct {
	users    ports.UserRepository
	courses  ports.CourseRepository
	checkers map[string]handler.Checker
}

// New connects every dependency selected by cfg and builds the router.
// Anything opened before a failure is closed again.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	st, err := a.openStores(ctx)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	if cfg.Cache.Enabled {
		client, err := rediscache.Connect(ctx, rediscache.Config{Addr: cfg.Cache.Addr, DB: cfg.Cache.DB})
		if err != nil {
			a.close(ctx)
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		st.courses = rediscache.NewCachedCourseRepository(st.courses, client, cfg.Cache.TTL, log)
		st.checkers["redis"] = rediscache.Pinger{Client: client}
		log.Info().Str("addr", cfg.Cache.Addr).Dur("ttl", cfg.Cache.TTL).Msg("course cache enabled")
	}

	tokens, err := auth.NewTokenService([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("token service: %w", err)
	}
	hasher, err := auth.NewHasher(cfg.Auth.PasswordHasher, cfg.Auth.BcryptCost)
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	router := api.NewRouter(api.Deps{
		Authenticator: auth.NewAuthenticator(tokens, log),
		AuthService: service.NewAuthService(st.users, hasher, tokens, log,
			service.WithDistinctLoginErrors(cfg.Auth.DistinctLoginErrors),
			service.WithAdminSignup(cfg.Auth.AllowAdminSignup)),
		UserService:   service.NewUserService(st.users, log),
		CourseService: service.NewCourseService(st.courses, log),
		Checkers:      st.checkers,
		Logger:        log,
	})

	a.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return a, nil
}

func (a *App) openStores(ctx context.Context) (*stores, error) {
	st := &stores{checkers: map[string]handler.Checker{}}

	switch a.cfg.Store.Driver {
	case config.StorePostgres:
		db, err := postgres.Connect(ctx, postgres.Config{
			URL:      a.cfg.Postgres.URL,
			MaxConns: a.cfg.Postgres.MaxConns,
			MinConns: a.cfg.Postgres.MinConns,
		}, a.log)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { db.Close(); return nil })

		if err := db.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		st.users = postgres.NewUserRepository(db.Pool)
		st.courses = postgres.NewCourseRepository(db.Pool)
		st.checkers["postgres"] = db

	case config.StoreMongo:
		store, err := mongostore.Connect(ctx, mongostore.Config{URI: a.cfg.Mongo.URI, Database: a.cfg.Mongo.Database})
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		a.closers = append(a.closers, store.Close)

		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		st.users = mongostore.NewUserRepository(store.DB)
		st.courses = mongostore.NewCourseRepository(store.DB)
		st.checkers["mongodb"] = store

	case config.StoreMemory:
		a.log.Warn().Msg("using in-memory store; data is lost on restart")
		st.users = memory.NewUserRepository()
		st.courses = memory.NewCourseRepository()

	default:
		return nil, fmt.Errorf("unknown store driver %q", a.cfg.Store.Driver)
	}

	a.log.Info().Str("driver", a.cfg.Store.Driver).Msg("store ready")
	return st, nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled, then drains in-flight requests and
// releases every connection.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("server starting")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		a.close(context.Background())
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.log.Info().Msg("shutting down")
	err := a.server.Shutdown(shutdownCtx)
	a.close(shutdownCtx)
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.log.Info().Msg("server stopped")
	return nil
}

// close releases resources in reverse order of acquisition.
func (a *App) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn().Err(err).Msg("closing dependency")
		}
	}
	a.closers = nil
}
