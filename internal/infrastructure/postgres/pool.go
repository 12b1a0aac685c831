package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Ventas-api/pkg/config"
)

// PoolOptions tamaño del pool. Cada venta ocupa una conexión durante toda su transacción.
type PoolOptions struct {
	MaxConns int32
	MinConns int32
	AppName  string
}

// DefaultPoolOptions valores usados por NewPoolFromDSN.
var DefaultPoolOptions = PoolOptions{MaxConns: 25, MinConns: 2, AppName: "ventas-api"}

// NewPool crea el pool con el DSN y los límites de la configuración.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	opts := DefaultPoolOptions
	if cfg.MaxConns > 0 {
		opts.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns >= 0 && cfg.MinConns <= cfg.MaxConns {
		opts.MinConns = int32(cfg.MinConns)
	}
	return NewPoolWithOptions(ctx, cfg.ConnectionString(), opts)
}

// NewPoolFromDSN crea el pool con DefaultPoolOptions.
func NewPoolFromDSN(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	return NewPoolWithOptions(ctx, dsn, DefaultPoolOptions)
}

// NewPoolWithOptions registra el codec NUMERIC <-> decimal en cada conexión y verifica la
// conexión antes de devolver el pool.
func NewPoolWithOptions(ctx context.Context, dsn string, opts PoolOptions) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	pc.MaxConns = opts.MaxConns
	pc.MinConns = opts.MinConns
	pc.MaxConnLifetime = time.Hour
	pc.MaxConnIdleTime = 30 * time.Minute
	pc.HealthCheckPeriod = time.Minute
	if opts.AppName != "" {
		pc.ConnConfig.RuntimeParams["application_name"] = opts.AppName
	}
	pc.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}
