package repositories

import (
	"context"
	"fmt"

	"github.com/gridbase/backend/internal/database"
	"github.com/gridbase/backend/internal/models"
)

// CatalogRepository reads table, column, and foreign-key metadata from
// information_schema. Nothing here is cached; every call is a fresh read.
type CatalogRepository struct {
	manager *database.Manager
}

func NewCatalogRepository(manager *database.Manager) *CatalogRepository {
	return &CatalogRepository{manager: manager}
}

// GetTables returns all base table names in the specified schema.
func (r *CatalogRepository) GetTables(ctx context.Context, schema string) ([]string, error) {
	pool, err := r.manager.Pool()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := pool.Query(ctx, query, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tables, nil
}

// GetColumns returns all columns for a table, ordered by ordinal position,
// with the primary-key flag resolved in the same round trip.
func (r *CatalogRepository) GetColumns(ctx context.Context, table models.TableRef) ([]models.ColumnMeta, error) {
	pool, err := r.manager.Pool()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT c.column_name, c.data_type, c.character_maximum_length, c.is_nullable,
			pk.column_name IS NOT NULL AS is_primary_key
		FROM information_schema.columns c
		LEFT JOIN (
			SELECT kcu.column_name
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
			WHERE tc.constraint_type = 'PRIMARY KEY'
				AND tc.table_schema = $1
				AND tc.table_name = $2
		) pk ON pk.column_name = c.column_name
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := pool.Query(ctx, query, table.Schema, table.Table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []models.ColumnMeta
	for rows.Next() {
		var col models.ColumnMeta
		var nullable string
		if err := rows.Scan(&col.Name, &col.DataType, &col.MaxLength, &nullable, &col.IsPrimaryKey); err != nil {
			return nil, err
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return columns, nil
}

// GetForeignKeys returns all foreign keys declared on a table.
func (r *CatalogRepository) GetForeignKeys(ctx context.Context, table models.TableRef) ([]models.ForeignKeyEdge, error) {
	pool, err := r.manager.Pool()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT
			tc.constraint_name,
			kcu.column_name,
			ccu.table_schema AS foreign_table_schema,
			ccu.table_name AS foreign_table_name,
			ccu.column_name AS foreign_column_name
		FROM information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage AS ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
			AND tc.table_schema = $1
			AND tc.table_name = $2
	`

	rows, err := pool.Query(ctx, query, table.Schema, table.Table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []models.ForeignKeyEdge
	for rows.Next() {
		var fk models.ForeignKeyEdge
		if err := rows.Scan(&fk.ConstraintName, &fk.FkColumn, &fk.ReferencedSchema, &fk.ReferencedTable, &fk.ReferencedColumn); err != nil {
			return nil, err
		}
		fks = append(fks, fk)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return fks, nil
}

// GetColumnsForTables returns columns for every listed table in one query,
// keyed by table name and ordered by ordinal position within each table. A
// table with a dozen foreign keys must not cost a dozen metadata round trips.
func (r *CatalogRepository) GetColumnsForTables(ctx context.Context, schema string, tables []string) (map[string][]models.ColumnMeta, error) {
	result := make(map[string][]models.ColumnMeta)
	if len(tables) == 0 {
		return result, nil
	}

	pool, err := r.manager.Pool()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT table_name, column_name, data_type, character_maximum_length, is_nullable
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = ANY($2)
		ORDER BY table_name, ordinal_position
	`

	rows, err := pool.Query(ctx, query, schema, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to query referenced table columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tableName string
		var col models.ColumnMeta
		var nullable string
		if err := rows.Scan(&tableName, &col.Name, &col.DataType, &col.MaxLength, &nullable); err != nil {
			return nil, fmt.Errorf("failed to scan referenced table column: %w", err)
		}
		col.Nullable = nullable == "YES"
		result[tableName] = append(result[tableName], col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating referenced table columns: %w", err)
	}

	return result, nil
}
