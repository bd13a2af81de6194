package services

import (
	"context"

	"github.com/gridbase/backend/internal/models"
)

// fakeCatalog serves canned metadata keyed by "schema.table" and counts
// batched lookups so tests can assert round-trip bounds.
type fakeCatalog struct {
	tables     map[string][]string
	columns    map[string][]models.ColumnMeta
	fks        map[string][]models.ForeignKeyEdge
	batchCalls int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		tables:  make(map[string][]string),
		columns: make(map[string][]models.ColumnMeta),
		fks:     make(map[string][]models.ForeignKeyEdge),
	}
}

func (f *fakeCatalog) GetTables(_ context.Context, schema string) ([]string, error) {
	return f.tables[schema], nil
}

func (f *fakeCatalog) GetColumns(_ context.Context, table models.TableRef) ([]models.ColumnMeta, error) {
	return f.columns[table.Schema+"."+table.Table], nil
}

func (f *fakeCatalog) GetForeignKeys(_ context.Context, table models.TableRef) ([]models.ForeignKeyEdge, error) {
	return f.fks[table.Schema+"."+table.Table], nil
}

func (f *fakeCatalog) GetColumnsForTables(_ context.Context, schema string, tables []string) (map[string][]models.ColumnMeta, error) {
	f.batchCalls++
	out := make(map[string][]models.ColumnMeta)
	for _, name := range tables {
		if cols, ok := f.columns[schema+"."+name]; ok {
			out[name] = cols
		}
	}
	return out, nil
}

// fakeExecutor records the last statement and replays canned results.
type fakeExecutor struct {
	rows     []map[string]any
	count    int64
	queryErr error
	countErr error

	lastSQL      string
	lastArgs     []any
	lastCountSQL string
}

func (f *fakeExecutor) Query(_ context.Context, sqlText string, args []any) ([]map[string]any, error) {
	f.lastSQL = sqlText
	f.lastArgs = args
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	// Copy so the shaper's in-place edits do not leak between calls.
	out := make([]map[string]any, len(f.rows))
	for i, row := range f.rows {
		cp := make(map[string]any, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out[i] = cp
	}
	return out, nil
}

func (f *fakeExecutor) QueryCount(_ context.Context, sqlText string, args []any) (int64, error) {
	f.lastCountSQL = sqlText
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.count, nil
}
