package services

import "github.com/gridbase/backend/internal/models"

// IdentifierValidator checks caller-supplied column names against one
// catalog snapshot of a table's columns. It is the sole defense against
// injection via sort/filter/column names: anything not found in the
// snapshot never reaches generated SQL. Unknown names are not errors; a
// filter on a since-dropped column must not break the page.
type IdentifierValidator struct {
	columns []models.ColumnMeta
	byName  map[string]models.ColumnMeta
}

func NewIdentifierValidator(columns []models.ColumnMeta) *IdentifierValidator {
	byName := make(map[string]models.ColumnMeta, len(columns))
	for _, col := range columns {
		byName[col.Name] = col
	}
	return &IdentifierValidator{columns: columns, byName: byName}
}

// Validate reports whether the candidate column exists on the table.
// Matching is exact and case-sensitive, as the catalog stores names.
func (v *IdentifierValidator) Validate(candidate string) bool {
	_, ok := v.byName[candidate]
	return ok
}

// EffectiveSort resolves the order-by column: the requested column when it
// validates, else the first column by ordinal position. ok is false only
// when the table has no columns at all, which forces the row-sequence
// pagination fallback.
func (v *IdentifierValidator) EffectiveSort(sort *models.SortSpec) (string, models.SortDirection, bool) {
	if sort != nil && v.Validate(sort.Column) {
		dir := sort.Direction
		if dir != models.SortDesc {
			dir = models.SortAsc
		}
		return sort.Column, dir, true
	}
	if len(v.columns) == 0 {
		return "", models.SortAsc, false
	}
	return v.columns[0].Name, models.SortAsc, true
}

// FilterKnown drops filters whose column is not on the table. Dropped
// entries are silently ignored, never errored.
func (v *IdentifierValidator) FilterKnown(filters []models.FilterSpec) []models.FilterSpec {
	kept := make([]models.FilterSpec, 0, len(filters))
	for _, f := range filters {
		if v.Validate(f.Column) && f.Pattern != "" {
			kept = append(kept, f)
		}
	}
	return kept
}

// VisibleColumns resolves the requested visible-column set against the
// table. Unknown names are dropped; an empty request means all columns.
func (v *IdentifierValidator) VisibleColumns(requested []string) []models.ColumnMeta {
	if len(requested) == 0 {
		return v.columns
	}
	visible := make([]models.ColumnMeta, 0, len(requested))
	for _, name := range requested {
		if col, ok := v.byName[name]; ok {
			visible = append(visible, col)
		}
	}
	if len(visible) == 0 {
		return v.columns
	}
	return visible
}

// Columns returns the underlying snapshot, ordered by ordinal position.
func (v *IdentifierValidator) Columns() []models.ColumnMeta {
	return v.columns
}
