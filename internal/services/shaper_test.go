package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gridbase/backend/internal/models"
)

func managerBinding() models.DisplayBinding {
	return models.DisplayBinding{
		FkColumn:      "manager_id",
		DisplayColumn: "name",
		Edge: models.ForeignKeyEdge{
			FkColumn:         "manager_id",
			ReferencedSchema: "public",
			ReferencedTable:  "employees",
			ReferencedColumn: "id",
		},
	}
}

func TestShapeRowsKeyOnlyPassesThrough(t *testing.T) {
	rows := []map[string]any{
		{"id": 1, "manager_id": 7},
	}

	shaped := ShapeRows(rows, models.FkKeyOnly, nil)

	assert.Equal(t, []map[string]any{{"id": 1, "manager_id": 7}}, shaped)
}

func TestShapeRowsKeyDisplayKeepsBoth(t *testing.T) {
	rows := []map[string]any{
		{"id": 1, "manager_id": 7, "manager_id_display": "Ada"},
	}

	shaped := ShapeRows(rows, models.FkKeyDisplay, []models.DisplayBinding{managerBinding()})

	assert.Equal(t, map[string]any{"id": 1, "manager_id": 7, "manager_id_display": "Ada"}, shaped[0])
}

func TestShapeRowsDisplayOnlyRenames(t *testing.T) {
	rows := []map[string]any{
		{"id": 1, "manager_id_display": "Ada"},
		{"id": 2, "manager_id_display": nil},
	}

	shaped := ShapeRows(rows, models.FkDisplayOnly, []models.DisplayBinding{managerBinding()})

	assert.Equal(t, map[string]any{"id": 1, "manager_id": "Ada"}, shaped[0])
	assert.Equal(t, map[string]any{"id": 2, "manager_id": nil}, shaped[1])
}

func TestShapeRowsStripsRowSequence(t *testing.T) {
	rows := []map[string]any{
		{"id": 1, "_row_seq": int64(51)},
	}

	shaped := ShapeRows(rows, models.FkKeyOnly, nil)

	assert.Equal(t, map[string]any{"id": 1}, shaped[0])
}
