package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

//go:embed migrations/001_initial.up.sql
var initialMigrationSQL string

// requiredTables must all exist in the public schema before the
// repositories are handed out.
var requiredTables = []string{"users", "courses"}

var errNoPool = errors.New("postgres: no open pool")

const defaultTimeout = 5 * time.Second

// Config captures the pool settings for the catalog database.
type Config struct {
	URL      string
	MaxConns int32
	MinConns int32
}

type DB struct {
	Pool *pgxpool.Pool
	log  zerolog.Logger
}

// poolConfig turns Config into pgx settings. Zero limits keep the pgx
// defaults.
func poolConfig(cfg Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DATABASE_URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 && cfg.MinConns <= pc.MaxConns {
		pc.MinConns = cfg.MinConns
	}
	pc.MaxConnIdleTime = 5 * time.Minute
	pc.MaxConnLifetime = time.Hour
	pc.HealthCheckPeriod = time.Minute
	return pc, nil
}

// Connect opens the catalog pool. It fails unless the server answers a
// ping, so a misconfigured URL stops startup instead of the first request.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*DB, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("postgres: open pool for %s: %w", pc.ConnConfig.Host, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: %s unreachable: %w", pc.ConnConfig.Host, err)
	}

	log.Info().
		Str("host", pc.ConnConfig.Host).
		Str("database", pc.ConnConfig.Database).
		Int32("max_conns", pc.MaxConns).
		Msg("catalog database ready")
	return &DB{Pool: pool, log: log}, nil
}

func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping satisfies the readiness checker used by the health handler.
func (db *DB) Ping(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return errNoPool
	}
	return db.Pool.Ping(ctx)
}

// EnsureSchema creates the catalog tables on an empty database. A database
// that already has them is left untouched.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return errNoPool
	}

	missing, err := db.missingTables(ctx)
	if err != nil {
		return fmt.Errorf("postgres: inspect schema: %w", err)
	}
	if len(missing) == 0 {
		return nil
	}

	db.log.Info().Strs("tables", missing).Msg("creating catalog tables")
	if _, err := db.Pool.Exec(ctx, initialMigrationSQL); err != nil {
		return fmt.Errorf("postgres: create catalog tables: %w", err)
	}

	if missing, err = db.missingTables(ctx); err != nil {
		return fmt.Errorf("postgres: inspect schema: %w", err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("postgres: tables %s still absent after migration", strings.Join(missing, ", "))
	}
	return nil
}

// missingTables lists the required tables that to_regclass cannot resolve.
func (db *DB) missingTables(ctx context.Context) ([]string, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT name FROM unnest($1::text[]) AS name WHERE to_regclass('public.' || name) IS NULL ORDER BY name`,
		requiredTables)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var missing []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		missing = append(missing, name)
	}
	return missing, rows.Err()
}
