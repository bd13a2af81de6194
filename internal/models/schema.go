package models

// TableRef identifies a browsable relation.
type TableRef struct {
	Schema string `json:"schema"`
	Table  string `json:"table"`
}

type ColumnMeta struct {
	Name         string `json:"name"`
	DataType     string `json:"data_type"`
	MaxLength    *int   `json:"max_length,omitempty"`
	Nullable     bool   `json:"nullable"`
	IsPrimaryKey bool   `json:"is_primary_key"`
}

type ForeignKeyEdge struct {
	ConstraintName   string `json:"constraint_name"`
	FkColumn         string `json:"fk_column"`
	ReferencedSchema string `json:"referenced_schema"`
	ReferencedTable  string `json:"referenced_table"`
	ReferencedColumn string `json:"referenced_column"`
}

// DisplayBinding maps a foreign-key column to the column on the referenced
// table chosen to represent it to a human reader. Recomputed per request,
// never stored.
type DisplayBinding struct {
	FkColumn      string
	DisplayColumn string
	Edge          ForeignKeyEdge
}
