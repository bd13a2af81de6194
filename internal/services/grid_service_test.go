package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gridbase/backend/internal/models"
)

func newGridFixture() (*fakeCatalog, *fakeExecutor, *GridService) {
	catalog := newFakeCatalog()
	catalog.columns["public.orders"] = ordersColumns()
	executor := &fakeExecutor{}
	return catalog, executor, NewGridService(catalog, executor, zap.NewNop())
}

func TestFetchPageOrdersScenario(t *testing.T) {
	// 120 total rows, page 2 of size 50: rows 51-100, three pages.
	_, executor, svc := newGridFixture()
	for i := 51; i <= 100; i++ {
		executor.rows = append(executor.rows, map[string]any{"id": i})
	}
	executor.count = 120

	page, err := svc.FetchPage(context.Background(), FetchPageRequest{
		Table:  models.TableRef{Schema: "public", Table: "orders"},
		Page:   models.PageRequest{Page: 2, PageSize: 50},
		FkMode: models.FkKeyOnly,
	})
	require.NoError(t, err)

	assert.Len(t, page.Rows, 50)
	assert.Equal(t, int64(120), page.TotalCount)
	assert.Equal(t, int64(3), page.TotalPages)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 50, page.PageSize)
	assert.Contains(t, executor.lastSQL, "LIMIT 50 OFFSET 50")
	assert.Equal(t, `SELECT COUNT(*) FROM "public"."orders"`, executor.lastCountSQL)
}

func TestFetchPageIsIdempotent(t *testing.T) {
	_, executor, svc := newGridFixture()
	executor.rows = []map[string]any{{"id": 1}, {"id": 2}}
	executor.count = 2

	req := FetchPageRequest{
		Table:  models.TableRef{Schema: "public", Table: "orders"},
		Page:   models.PageRequest{Page: 1, PageSize: 50},
		FkMode: models.FkKeyOnly,
	}

	first, err := svc.FetchPage(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.FetchPage(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.TotalCount, second.TotalCount)
	assert.Equal(t, first.GeneratedQueryText, second.GeneratedQueryText)
}

func TestFetchPageDropsUnknownFilter(t *testing.T) {
	_, executor, svc := newGridFixture()
	executor.count = 0

	_, err := svc.FetchPage(context.Background(), FetchPageRequest{
		Table:   models.TableRef{Schema: "public", Table: "orders"},
		Page:    models.PageRequest{Page: 1, PageSize: 50},
		Filters: []models.FilterSpec{{Column: "no_such_column", Pattern: "x"}},
		FkMode:  models.FkKeyOnly,
	})
	require.NoError(t, err)

	assert.NotContains(t, executor.lastSQL, "WHERE")
	assert.Empty(t, executor.lastArgs)
}

func TestFetchPageClampsPageSize(t *testing.T) {
	_, executor, svc := newGridFixture()
	executor.count = 0

	page, err := svc.FetchPage(context.Background(), FetchPageRequest{
		Table:  models.TableRef{Schema: "public", Table: "orders"},
		Page:   models.PageRequest{Page: 0, PageSize: 5000},
		FkMode: models.FkKeyOnly,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, models.MaxPageSize, page.PageSize)
	assert.Contains(t, executor.lastSQL, "LIMIT 1000 OFFSET 0")
}

func TestFetchPageDisplayOnlyShapesRows(t *testing.T) {
	catalog, executor, svc := newGridFixture()
	catalog.fks["public.orders"] = []models.ForeignKeyEdge{
		{FkColumn: "customer_id", ReferencedSchema: "public", ReferencedTable: "customers", ReferencedColumn: "id"},
	}
	catalog.columns["public.customers"] = []models.ColumnMeta{
		{Name: "id", DataType: "integer"}, {Name: "name", DataType: "text"},
	}
	executor.rows = []map[string]any{
		{"id": 1, "note": "a", "customer_id_display": "ACME"},
	}
	executor.count = 1

	page, err := svc.FetchPage(context.Background(), FetchPageRequest{
		Table:  models.TableRef{Schema: "public", Table: "orders"},
		Page:   models.PageRequest{Page: 1, PageSize: 50},
		FkMode: models.FkDisplayOnly,
	})
	require.NoError(t, err)

	require.Len(t, page.Rows, 1)
	assert.Equal(t, map[string]any{"id": 1, "note": "a", "customer_id": "ACME"}, page.Rows[0])
	assert.Contains(t, executor.lastSQL, "LEFT JOIN")
}

func TestFetchPageMissingTableRef(t *testing.T) {
	_, _, svc := newGridFixture()

	_, err := svc.FetchPage(context.Background(), FetchPageRequest{
		Table: models.TableRef{Schema: "public"},
	})

	var qerr *models.QueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, models.KindPlanning, qerr.Kind)
}

func TestFetchPagePropagatesTimeoutKind(t *testing.T) {
	_, executor, svc := newGridFixture()
	executor.queryErr = models.NewQueryError(models.KindTimeout, errors.New("canceling statement due to statement timeout"))

	_, err := svc.FetchPage(context.Background(), FetchPageRequest{
		Table:  models.TableRef{Schema: "public", Table: "orders"},
		Page:   models.PageRequest{Page: 1, PageSize: 50},
		FkMode: models.FkKeyOnly,
	})

	var qerr *models.QueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, models.KindTimeout, qerr.Kind)
}

func TestFetchPagePropagatesAuthKind(t *testing.T) {
	_, executor, svc := newGridFixture()
	executor.queryErr = models.NewQueryError(models.KindAuth, errors.New("password authentication failed"))

	_, err := svc.FetchPage(context.Background(), FetchPageRequest{
		Table:  models.TableRef{Schema: "public", Table: "orders"},
		Page:   models.PageRequest{Page: 1, PageSize: 50},
		FkMode: models.FkKeyOnly,
	})

	var qerr *models.QueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, models.KindAuth, qerr.Kind)
}

func TestFetchPagePlansForUnknownTable(t *testing.T) {
	// Planning proceeds for a table the catalog does not know; the failure
	// comes from execution and is surfaced as-is.
	_, executor, svc := newGridFixture()
	executor.queryErr = models.NewQueryError(models.KindExecution,
		fmt.Errorf(`relation "public.ghost" does not exist`))

	_, err := svc.FetchPage(context.Background(), FetchPageRequest{
		Table:  models.TableRef{Schema: "public", Table: "ghost"},
		Page:   models.PageRequest{Page: 1, PageSize: 50},
		FkMode: models.FkKeyOnly,
	})

	var qerr *models.QueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, models.KindExecution, qerr.Kind)
	// Unknown table means zero columns, so the plan used the row-sequence
	// fallback rather than an ORDER BY.
	assert.Contains(t, executor.lastSQL, "ROW_NUMBER()")
}
