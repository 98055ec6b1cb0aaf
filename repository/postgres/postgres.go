// Package postgres implements the repository interface against PostgreSQL.
// It is an alternative to the default jsonfile engine for deployments that
// outgrow a single JSON document.
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/emzola/bookswap/config"
	_ "github.com/lib/pq"
)

// OpenDB creates a PostgreSQL database connection pool.
func OpenDB(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Store.DSN)
	if err != nil {
		return nil, err
	}
	duration, err := time.ParseDuration(cfg.Store.MaxIdleTime)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.Store.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Store.MaxIdleConns)
	db.SetConnMaxIdleTime(duration)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = db.PingContext(ctx)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Repository implements the repository interface backed by a PostgreSQL pool.
type Repository struct {
	db *sql.DB
}

// New creates a new instance of Repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const queryTimeout = 3 * time.Second
