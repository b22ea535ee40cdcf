// Package postgres manages the PostgreSQL connection pool and schema
// migrations.
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nebulahq/hacknebula/internal/config"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/pkg/errors"
)

// DB wraps the connection pool.
type DB struct {
	conn   *sql.DB
	cfg    config.DatabaseConfig
	logger logging.Logger
}

// Connect opens and verifies a pooled connection.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger logging.Logger) (*DB, error) {
	conn, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "open database")
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "ping database")
	}

	logger.Info("database connected",
		logging.String("host", cfg.Host),
		logging.String("database", cfg.Database))
	return &DB{conn: conn, cfg: cfg, logger: logger}, nil
}

// Conn exposes the underlying pool for repositories.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping verifies connectivity, used by the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close shuts down the pool.
func (db *DB) Close() error {
	db.logger.Info("database connection closed")
	return db.conn.Close()
}

// Migrate applies pending schema migrations from the configured directory.
func (db *DB) Migrate() error {
	driver, err := pgx.WithInstance(db.conn, &pgx.Config{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "create migration driver")
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+db.cfg.MigrationsPath, db.cfg.Database, driver)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "create migrator")
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "apply migrations")
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "read migration version")
	}
	db.logger.Info("migrations applied",
		logging.Int("version", int(version)),
		logging.Bool("dirty", dirty))
	return nil
}
