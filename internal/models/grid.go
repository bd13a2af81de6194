package models

// FkDisplayMode controls how foreign-key columns are rendered in a row set.
type FkDisplayMode string

const (
	// FkKeyOnly renders the raw key value, no joins.
	FkKeyOnly FkDisplayMode = "key"
	// FkKeyDisplay renders the key plus a separately-aliased display value.
	FkKeyDisplay FkDisplayMode = "key-display"
	// FkDisplayOnly replaces the key value with the display value under the
	// original column name.
	FkDisplayOnly FkDisplayMode = "display"
)

// ParseFkDisplayMode maps a request string onto a display mode, defaulting
// to key-only for anything it does not recognize.
func ParseFkDisplayMode(s string) FkDisplayMode {
	switch FkDisplayMode(s) {
	case FkKeyDisplay:
		return FkKeyDisplay
	case FkDisplayOnly:
		return FkDisplayOnly
	default:
		return FkKeyOnly
	}
}

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// SortSpec is a single-column sort request. Column must be validated against
// the table's columns before use; an unknown column is treated as absent.
type SortSpec struct {
	Column    string        `json:"column"`
	Direction SortDirection `json:"direction"`
}

// FilterSpec is a substring filter on one column.
type FilterSpec struct {
	Column  string `json:"column"`
	Pattern string `json:"pattern"`
}

const MaxPageSize = 1000

type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Clamp normalizes the request in place: page is at least 1, page size is
// forced into [1, MaxPageSize].
func (p *PageRequest) Clamp() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 1
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ResultPage is the caller-facing page of rows. TotalCount comes from a
// separate count query sharing the data query's filter predicate.
type ResultPage struct {
	Rows               []map[string]any `json:"rows"`
	TotalCount         int64            `json:"total_count"`
	Page               int              `json:"page"`
	PageSize           int              `json:"page_size"`
	TotalPages         int64            `json:"total_pages"`
	GeneratedQueryText string           `json:"generated_query_text"`
}
