package services

import "github.com/gridbase/backend/internal/models"

// ShapeRows post-processes raw result rows per display mode. Key-only rows
// pass through; key-display rows already carry both the key and its aliased
// display value; display-only rows get the display value moved under the
// foreign-key column's original name. The row-sequence helper column is
// stripped in every mode.
func ShapeRows(rows []map[string]any, mode models.FkDisplayMode, bindings []models.DisplayBinding) []map[string]any {
	for _, row := range rows {
		delete(row, rowSeqColumn)

		if mode != models.FkDisplayOnly {
			continue
		}
		for _, b := range bindings {
			displayKey := b.FkColumn + displaySuffix
			display, ok := row[displayKey]
			if !ok {
				continue
			}
			delete(row, displayKey)
			delete(row, b.FkColumn)
			row[b.FkColumn] = display
		}
	}
	return rows
}
