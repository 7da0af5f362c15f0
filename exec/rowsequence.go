package exec

import "github.com/knakk/rdfql"

// RowSequence wraps an in-memory sequence of rows (spec.md §4.7
// "used for testing and for VALUES").
type RowSequence struct {
	schema *rdfql.Schema
	rows   []*rdfql.Row
	idx    int
}

// NewRowSequence returns a row source over a pre-built row slice.
func NewRowSequence(schema *rdfql.Schema, rows []*rdfql.Row) *RowSequence {
	return &RowSequence{schema: schema, rows: rows}
}

// NewValues builds a RowSequence from a SPARQL VALUES binding table: an
// ordered variable list and a parallel row-of-literals table (a nil
// entry means UNDEF).
func NewValues(vars []string, table [][]*rdfql.Literal) *RowSequence {
	schema := rdfql.NewSchema(vars)
	rows := make([]*rdfql.Row, len(table))
	for i, vals := range table {
		row := rdfql.NewRow(schema)
		copy(row.Vals, vals)
		rows[i] = row
	}
	return NewRowSequence(schema, rows)
}

func (rs *RowSequence) Init() error { return nil }

func (rs *RowSequence) EnsureVariables() (*rdfql.Schema, error) { return rs.schema, nil }

func (rs *RowSequence) ReadRow() (*rdfql.Row, error) {
	if rs.idx >= len(rs.rows) {
		return nil, nil
	}
	row := rs.rows[rs.idx]
	rs.idx++
	return row, nil
}

func (rs *RowSequence) ReadAllRows() ([]*rdfql.Row, error) { return ReadAllRows(rs) }

func (rs *RowSequence) Reset() error {
	rs.idx = 0
	return nil
}

func (rs *RowSequence) Inner(i int) RowSource { return nil }

func (rs *RowSequence) Finish() error { return nil }
