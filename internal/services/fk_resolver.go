package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gridbase/backend/internal/models"
)

// displayNamePriority is checked case-insensitively, in order, before any
// type-based fallback.
var displayNamePriority = []string{"name", "title", "description", "code"}

// FKResolver picks a human-readable display column for every foreign key
// on a table. Column metadata for all distinct referenced tables is fetched
// in one batched catalog query per schema, never one per edge.
type FKResolver struct {
	catalog Catalog
}

func NewFKResolver(catalog Catalog) *FKResolver {
	return &FKResolver{catalog: catalog}
}

// Resolve returns a DisplayBinding for each foreign key whose referenced
// table has a usable display column. Edges without one yield no binding and
// are rendered key-only regardless of the requested mode.
func (r *FKResolver) Resolve(ctx context.Context, table models.TableRef) ([]models.DisplayBinding, error) {
	edges, err := r.catalog.GetForeignKeys(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get foreign keys for %s.%s: %w", table.Schema, table.Table, err)
	}
	if len(edges) == 0 {
		return nil, nil
	}

	// Group the distinct referenced tables by schema so each schema costs
	// one metadata round trip.
	bySchema := make(map[string][]string)
	seen := make(map[string]bool)
	for _, edge := range edges {
		key := edge.ReferencedSchema + "." + edge.ReferencedTable
		if seen[key] {
			continue
		}
		seen[key] = true
		bySchema[edge.ReferencedSchema] = append(bySchema[edge.ReferencedSchema], edge.ReferencedTable)
	}

	referenced := make(map[string][]models.ColumnMeta)
	for schema, tables := range bySchema {
		cols, err := r.catalog.GetColumnsForTables(ctx, schema, tables)
		if err != nil {
			return nil, fmt.Errorf("failed to get referenced table columns in %s: %w", schema, err)
		}
		for name, meta := range cols {
			referenced[schema+"."+name] = meta
		}
	}

	var bindings []models.DisplayBinding
	for _, edge := range edges {
		cols := referenced[edge.ReferencedSchema+"."+edge.ReferencedTable]
		display, ok := chooseDisplayColumn(cols)
		if !ok {
			continue
		}
		bindings = append(bindings, models.DisplayBinding{
			FkColumn:      edge.FkColumn,
			DisplayColumn: display,
			Edge:          edge,
		})
	}
	return bindings, nil
}

// chooseDisplayColumn applies the display heuristic: a column named like a
// label wins on name priority; otherwise the first string-typed column by
// ordinal. Best-effort by design.
func chooseDisplayColumn(cols []models.ColumnMeta) (string, bool) {
	for _, want := range displayNamePriority {
		for _, col := range cols {
			if strings.EqualFold(col.Name, want) {
				return col.Name, true
			}
		}
	}
	for _, col := range cols {
		if isStringFamily(col.DataType) {
			return col.Name, true
		}
	}
	return "", false
}

func isStringFamily(dataType string) bool {
	dt := strings.ToLower(dataType)
	switch {
	case dt == "text", dt == "citext":
		return true
	case strings.HasPrefix(dt, "character"):
		return true
	case strings.HasPrefix(dt, "varchar"), strings.HasPrefix(dt, "char"):
		return true
	}
	return false
}
