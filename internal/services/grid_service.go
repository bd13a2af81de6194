package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gridbase/backend/internal/models"
)

// Catalog is the metadata source describing tables, columns, and
// foreign-key relationships. All reads are side-effect free.
type Catalog interface {
	GetTables(ctx context.Context, schema string) ([]string, error)
	GetColumns(ctx context.Context, table models.TableRef) ([]models.ColumnMeta, error)
	GetForeignKeys(ctx context.Context, table models.TableRef) ([]models.ForeignKeyEdge, error)
	GetColumnsForTables(ctx context.Context, schema string, tables []string) (map[string][]models.ColumnMeta, error)
}

// Executor runs generated SQL against the browsed database. It owns the
// timeout; failures come back classified.
type Executor interface {
	Query(ctx context.Context, sqlText string, args []any) ([]map[string]any, error)
	QueryCount(ctx context.Context, sqlText string, args []any) (int64, error)
}

// GridService serves paginated, sortable, filterable pages of an arbitrary
// table. Each request builds its own plan from a fresh catalog snapshot;
// there is no cross-request state here.
type GridService struct {
	catalog  Catalog
	executor Executor
	resolver *FKResolver
	logger   *zap.Logger
}

func NewGridService(catalog Catalog, executor Executor, logger *zap.Logger) *GridService {
	return &GridService{
		catalog:  catalog,
		executor: executor,
		resolver: NewFKResolver(catalog),
		logger:   logger,
	}
}

// FetchPageRequest is one grid page request as it comes off the wire,
// before any validation.
type FetchPageRequest struct {
	Table   models.TableRef
	Page    models.PageRequest
	Sort    *models.SortSpec
	Filters []models.FilterSpec
	Columns []string
	FkMode  models.FkDisplayMode
}

// ListTables enumerates browsable tables in a schema.
func (s *GridService) ListTables(ctx context.Context, schema string) ([]string, error) {
	if schema == "" {
		schema = "public"
	}
	return s.catalog.GetTables(ctx, schema)
}

// ListColumns returns column metadata for one table.
func (s *GridService) ListColumns(ctx context.Context, table models.TableRef) ([]models.ColumnMeta, error) {
	if err := checkTableRef(table); err != nil {
		return nil, err
	}
	return s.catalog.GetColumns(ctx, table)
}

// FetchPage validates the request against the catalog, plans the query,
// executes rows and count, and shapes the result for the caller.
func (s *GridService) FetchPage(ctx context.Context, req FetchPageRequest) (*models.ResultPage, error) {
	plan, bindings, err := s.Plan(ctx, &req)
	if err != nil {
		return nil, err
	}

	rows, err := s.executor.Query(ctx, plan.SQL(), plan.Args())
	if err != nil {
		return nil, err
	}

	total, err := s.executor.QueryCount(ctx, plan.CountSQL(), plan.Args())
	if err != nil {
		return nil, err
	}

	shaped := ShapeRows(rows, req.FkMode, bindings)

	totalPages := total / int64(req.Page.PageSize)
	if total%int64(req.Page.PageSize) != 0 {
		totalPages++
	}

	s.logger.Debug("page fetched",
		zap.String("schema", req.Table.Schema),
		zap.String("table", req.Table.Table),
		zap.Int("page", req.Page.Page),
		zap.Int64("total", total))

	return &models.ResultPage{
		Rows:               shaped,
		TotalCount:         total,
		Page:               req.Page.Page,
		PageSize:           req.Page.PageSize,
		TotalPages:         totalPages,
		GeneratedQueryText: plan.Text(),
	}, nil
}

// Plan resolves the validated plan and display bindings for a request
// without executing it. The page request is clamped in place, so the
// caller sees the effective page and size.
func (s *GridService) Plan(ctx context.Context, req *FetchPageRequest) (*QueryPlan, []models.DisplayBinding, error) {
	if err := checkTableRef(req.Table); err != nil {
		return nil, nil, err
	}
	req.Page.Clamp()

	columns, err := s.catalog.GetColumns(ctx, req.Table)
	if err != nil {
		return nil, nil, wrapExecution(err)
	}

	validator := NewIdentifierValidator(columns)

	var bindings []models.DisplayBinding
	if req.FkMode != models.FkKeyOnly {
		bindings, err = s.resolver.Resolve(ctx, req.Table)
		if err != nil {
			return nil, nil, wrapExecution(err)
		}
	}

	plan := BuildPlan(PlanInput{
		Table:      req.Table,
		AllColumns: columns,
		Visible:    validator.VisibleColumns(req.Columns),
		Sort:       req.Sort,
		Filters:    validator.FilterKnown(req.Filters),
		Page:       req.Page,
		Bindings:   bindings,
		FkMode:     req.FkMode,
	})
	return plan, bindings, nil
}

func checkTableRef(table models.TableRef) error {
	if table.Schema == "" || table.Table == "" {
		return models.NewQueryError(models.KindPlanning,
			fmt.Errorf("schema and table are required"))
	}
	return nil
}

// wrapExecution keeps already-classified errors intact and tags anything
// else as a generic execution failure.
func wrapExecution(err error) error {
	var qerr *models.QueryError
	if errors.As(err, &qerr) {
		return err
	}
	return models.NewQueryError(models.KindExecution, err)
}
