package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/gridbase/backend/internal/database"
	"github.com/gridbase/backend/internal/models"
)

const (
	pgCodeQueryCanceled = "57014"
	pgClassAuthFailure  = "28"
)

// DataRepository runs generated queries against the browsed database. It is
// the only layer that enforces a timeout; the grid core above it just sees
// a classified failure.
type DataRepository struct {
	manager *database.Manager
	timeout time.Duration
	logger  *zap.Logger
}

func NewDataRepository(manager *database.Manager, timeout time.Duration, logger *zap.Logger) *DataRepository {
	return &DataRepository{manager: manager, timeout: timeout, logger: logger}
}

// Query executes a parameterized select and returns rows as column-name maps.
func (r *DataRepository) Query(ctx context.Context, sqlText string, args []any) ([]map[string]any, error) {
	pool, err := r.manager.Pool()
	if err != nil {
		return nil, models.NewQueryError(models.KindExecution, err)
	}

	queryCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	rows, err := pool.Query(queryCtx, sqlText, args...)
	if err != nil {
		return nil, r.classify(sqlText, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fd.Name
	}

	var result []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, r.classify(sqlText, err)
		}
		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col] = values[i]
		}
		result = append(result, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, r.classify(sqlText, err)
	}

	r.logger.Debug("query executed",
		zap.Int("rows", len(result)),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// QueryCount executes a count query sharing the data query's predicate.
func (r *DataRepository) QueryCount(ctx context.Context, sqlText string, args []any) (int64, error) {
	pool, err := r.manager.Pool()
	if err != nil {
		return 0, models.NewQueryError(models.KindExecution, err)
	}

	queryCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var count int64
	if err := pool.QueryRow(queryCtx, sqlText, args...).Scan(&count); err != nil {
		return 0, r.classify(sqlText, err)
	}
	return count, nil
}

// classify maps driver failures onto the error taxonomy. Cancellation from
// our own deadline and the server-side query_canceled state both count as
// timeouts; SQLSTATE class 28 is an authentication failure.
func (r *DataRepository) classify(sqlText string, err error) *models.QueryError {
	kind := models.KindExecution

	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = models.KindTimeout
	case errors.As(err, &pgErr) && pgErr.Code == pgCodeQueryCanceled:
		kind = models.KindTimeout
	case errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, pgClassAuthFailure):
		kind = models.KindAuth
	}

	r.logger.Warn("query failed",
		zap.String("kind", kind.String()),
		zap.String("sql", sqlText),
		zap.Error(err))
	return models.NewQueryError(kind, err)
}
