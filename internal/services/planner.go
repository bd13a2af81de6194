package services

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/gridbase/backend/internal/models"
)

const (
	// rowSeqColumn is the helper column added by the row-sequence pagination
	// fallback. The shaper strips it before rows reach the caller.
	rowSeqColumn = "_row_seq"

	// displaySuffix marks the aliased foreign-key display columns in the
	// select list, e.g. manager_id -> manager_id_display.
	displaySuffix = "_display"
)

// PlanInput is the validated state the planner works from. Validation has
// already happened upstream; the planner interpolates only identifiers that
// came out of the catalog.
type PlanInput struct {
	Table      models.TableRef
	AllColumns []models.ColumnMeta
	Visible    []models.ColumnMeta
	Sort       *models.SortSpec
	Filters    []models.FilterSpec
	Page       models.PageRequest
	Bindings   []models.DisplayBinding
	FkMode     models.FkDisplayMode
}

// QueryPlan is a parameterized single-table query with optional one-hop
// foreign-key joins. Built fresh per request, never persisted.
type QueryPlan struct {
	selectList []string
	from       string
	baseRef    string
	joins      []string
	where      string
	args       []any
	orderBy    string
	limit      int
	offset     int
	rowSeq     bool
	filters    []models.FilterSpec
}

// BuildPlan produces the execution plan for one grid page. The planner does
// not re-verify table existence; a missing relation fails downstream and is
// surfaced as-is.
func BuildPlan(in PlanInput) *QueryPlan {
	in.Page.Clamp()

	p := &QueryPlan{
		from:    pgx.Identifier{in.Table.Schema, in.Table.Table}.Sanitize(),
		baseRef: pgx.Identifier{in.Table.Table}.Sanitize(),
		limit:   in.Page.PageSize,
		offset:  in.Page.Offset(),
		filters: in.Filters,
	}

	bindingFor := make(map[string]models.DisplayBinding, len(in.Bindings))
	if in.FkMode != models.FkKeyOnly {
		for _, b := range in.Bindings {
			bindingFor[b.FkColumn] = b
		}
	}

	// Base select list. In display-only mode a bound foreign-key column is
	// dropped here; its display column takes over the name downstream.
	for _, col := range in.Visible {
		if in.FkMode == models.FkDisplayOnly {
			if _, bound := bindingFor[col.Name]; bound {
				continue
			}
		}
		p.selectList = append(p.selectList, p.baseRef+"."+pgx.Identifier{col.Name}.Sanitize())
	}

	// One LEFT JOIN and one aliased display column per bound foreign key
	// whose column is visible.
	if in.FkMode != models.FkKeyOnly {
		visible := make(map[string]bool, len(in.Visible))
		for _, col := range in.Visible {
			visible[col.Name] = true
		}
		joinIdx := 0
		for _, col := range in.Visible {
			b, bound := bindingFor[col.Name]
			if !bound || !visible[b.FkColumn] {
				continue
			}
			joinIdx++
			alias := fmt.Sprintf("fk_%d", joinIdx)
			p.selectList = append(p.selectList, fmt.Sprintf(
				"%s.%s AS %s",
				alias,
				pgx.Identifier{b.DisplayColumn}.Sanitize(),
				pgx.Identifier{b.FkColumn + displaySuffix}.Sanitize(),
			))
			p.joins = append(p.joins, fmt.Sprintf(
				"LEFT JOIN %s AS %s ON %s.%s = %s.%s",
				pgx.Identifier{b.Edge.ReferencedSchema, b.Edge.ReferencedTable}.Sanitize(),
				alias,
				p.baseRef,
				pgx.Identifier{b.FkColumn}.Sanitize(),
				alias,
				pgx.Identifier{b.Edge.ReferencedColumn}.Sanitize(),
			))
		}
	}

	// Substring filters, ANDed, each as a bound parameter. Values are never
	// concatenated into the SQL text.
	var predicates []string
	for _, f := range in.Filters {
		p.args = append(p.args, "%"+f.Pattern+"%")
		predicates = append(predicates, fmt.Sprintf(
			"%s.%s::text LIKE $%d",
			p.baseRef,
			pgx.Identifier{f.Column}.Sanitize(),
			len(p.args),
		))
	}
	p.where = strings.Join(predicates, " AND ")

	// Effective sort: the validated request, else first column by ordinal.
	// A table with no columns has no orderable relation, so pagination
	// falls back to a windowed row sequence.
	sortCol, sortDir, ok := NewIdentifierValidator(in.AllColumns).EffectiveSort(in.Sort)
	if ok {
		p.orderBy = fmt.Sprintf("%s.%s %s", p.baseRef, pgx.Identifier{sortCol}.Sanitize(), sortDir)
	} else {
		p.rowSeq = true
	}

	return p
}

// SQL renders the parameterized query for execution.
func (p *QueryPlan) SQL() string {
	if p.rowSeq {
		return p.rowSeqSQL(false)
	}
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(p.renderSelectList())
	sb.WriteString(" FROM ")
	sb.WriteString(p.from)
	for _, join := range p.joins {
		sb.WriteString(" ")
		sb.WriteString(join)
	}
	if p.where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(p.where)
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(p.orderBy)
	fmt.Fprintf(&sb, " LIMIT %d OFFSET %d", p.limit, p.offset)
	return sb.String()
}

// CountSQL renders the companion count query: same predicate, no joins or
// ordering. LEFT JOINs on unique referenced keys do not change the count;
// non-unique referenced columns are a documented accuracy risk.
func (p *QueryPlan) CountSQL() string {
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) FROM ")
	sb.WriteString(p.from)
	if p.where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(p.where)
	}
	return sb.String()
}

// Args returns the bound parameters, shared by SQL and CountSQL.
func (p *QueryPlan) Args() []any {
	return p.args
}

// Text renders the plan as literal, human-readable SQL with filter values
// inlined. This is what the caller can save as a reusable query; it is
// re-rendered from the structured plan, never patched textually.
func (p *QueryPlan) Text() string {
	if p.rowSeq {
		return p.rowSeqSQL(true)
	}
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(p.renderSelectList())
	sb.WriteString(" FROM ")
	sb.WriteString(p.from)
	for _, join := range p.joins {
		sb.WriteString(" ")
		sb.WriteString(join)
	}
	if lit := p.literalWhere(); lit != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(lit)
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(p.orderBy)
	fmt.Fprintf(&sb, " LIMIT %d OFFSET %d", p.limit, p.offset)
	return sb.String()
}

func (p *QueryPlan) renderSelectList() string {
	if len(p.selectList) == 0 {
		return p.baseRef + ".*"
	}
	return strings.Join(p.selectList, ", ")
}

// rowSeqSQL wraps the base query in a derived table with a dense row
// sequence, ordering by a constant to satisfy the window function, and
// filters the sequence range. Functionally equivalent to LIMIT/OFFSET when
// no natural order exists.
func (p *QueryPlan) rowSeqSQL(literal bool) string {
	where := p.where
	if literal {
		where = p.literalWhere()
	}

	var inner strings.Builder
	fmt.Fprintf(&inner, "SELECT %s.*, ROW_NUMBER() OVER (ORDER BY (SELECT 1)) AS %s FROM %s",
		p.baseRef, pgx.Identifier{rowSeqColumn}.Sanitize(), p.from)
	for _, join := range p.joins {
		inner.WriteString(" ")
		inner.WriteString(join)
	}
	if where != "" {
		inner.WriteString(" WHERE ")
		inner.WriteString(where)
	}

	seq := pgx.Identifier{rowSeqColumn}.Sanitize()
	return fmt.Sprintf("SELECT * FROM (%s) AS numbered WHERE %s > %d AND %s <= %d",
		inner.String(), seq, p.offset, seq, p.offset+p.limit)
}

func (p *QueryPlan) literalWhere() string {
	var predicates []string
	for _, f := range p.filters {
		predicates = append(predicates, fmt.Sprintf(
			"%s.%s::text LIKE %s",
			p.baseRef,
			pgx.Identifier{f.Column}.Sanitize(),
			quoteLiteral("%"+f.Pattern+"%"),
		))
	}
	return strings.Join(predicates, " AND ")
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
