package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schema string

type DB struct {
	Pool *pgxpool.Pool
}

type Options struct {
	MaxConns int32
	// Retries - сколько раз повторять ping при старте (0 = одна попытка)
	Retries uint64
	Logger  *zap.Logger
}

func New(ctx context.Context, url string) (*DB, error) {
	return Connect(ctx, url, Options{})
}

// Connect parses url once and then retries pool creation with exponential
// backoff, so the service can start before the database is ready.
func Connect(ctx context.Context, url string, opts Options) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var pool *pgxpool.Pool
	connect := func() error {
		p, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	err = backoff.RetryNotify(connect,
		backoff.WithContext(backoff.WithMaxRetries(bo, opts.Retries), ctx),
		func(err error, next time.Duration) {
			logger.Warn("database not ready, retrying",
				zap.Error(err),
				zap.Duration("next_attempt_in", next),
			)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Migrate applies schema.sql. Statements are idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern - %q% с экранированием спецсимволов LIKE
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
