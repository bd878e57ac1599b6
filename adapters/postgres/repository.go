// Package postgres implements the analytics repository port over a
// Postgres database using sqlx. The adapter owns query assembly and row
// scanning; connection pooling belongs to the injected sqlx.DB.
package postgres

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"budget-analytics/core/types"
	"budget-analytics/internal/config"
	"budget-analytics/internal/errors"
	"budget-analytics/internal/logging"
)

// Repository fetches raw heatmap and entity rows from Postgres
type Repository struct {
	db  *sqlx.DB
	cfg config.AnalyticsConfig
	log *zap.Logger
}

// NewRepository creates a repository over an open connection pool
func NewRepository(db *sqlx.DB, cfg config.AnalyticsConfig) *Repository {
	return &Repository{
		db:  db,
		cfg: cfg,
		log: logging.Logger.Named("postgres"),
	}
}

// Open connects to Postgres and configures the pool. The configured
// statement timeout is attached as a session parameter so runaway analytics
// queries surface as SQLSTATE 57014.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsnWithTimeout(cfg))
	if err != nil {
		return nil, errors.Database("connecting to postgres", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	return db, nil
}

func dsnWithTimeout(cfg config.DatabaseConfig) string {
	if cfg.StatementTimeoutMillis <= 0 {
		return cfg.DSN
	}
	if strings.Contains(cfg.DSN, "://") {
		sep := "?"
		if strings.Contains(cfg.DSN, "?") {
			sep = "&"
		}
		return fmt.Sprintf("%s%sstatement_timeout=%d", cfg.DSN, sep, cfg.StatementTimeoutMillis)
	}
	return fmt.Sprintf("%s statement_timeout=%d", cfg.DSN, cfg.StatementTimeoutMillis)
}

// HeatmapData returns one row per county or UAT per year matching the filter
func (r *Repository) HeatmapData(ctx context.Context, scope types.HeatmapScope, filter *types.AnalyticsFilter) ([]types.RawDataPoint, error) {
	query := r.buildHeatmapQuery(scope, filter)
	return r.selectPoints(ctx, query)
}

// EntityData returns one row per reporting entity per year matching the filter
func (r *Repository) EntityData(ctx context.Context, filter *types.AnalyticsFilter) ([]types.RawDataPoint, error) {
	query := r.buildEntityQuery(filter)
	return r.selectPoints(ctx, query)
}

func (r *Repository) selectPoints(ctx context.Context, query string) ([]types.RawDataPoint, error) {
	var rows []types.RawDataPoint
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		r.log.Warn("analytics query failed", zap.Error(err))
		return nil, classifyQueryError(err)
	}
	return rows, nil
}

// classifyQueryError maps driver failures onto the domain error taxonomy.
// SQLSTATE 57014 marks a statement timeout; everything else is a plain
// database error. Both are retryable.
func classifyQueryError(err error) error {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == "57014" {
		e := errors.Wrap(errors.TypeTimeout, "statement timeout", err)
		e.Retryable = true
		return e
	}
	return errors.Database("executing analytics query", err)
}
