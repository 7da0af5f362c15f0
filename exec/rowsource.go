// Package exec implements the row-source framework (spec.md §4.7): the
// pull-iterator contract every concrete row source satisfies, and the
// concrete sources the optimizer's rewritten algebra tree compiles down
// to.
package exec

import (
	"fmt"

	"github.com/knakk/rdfql"
)

// RowSource is the "interface with seven methods" design note of
// spec.md §9: init, ensure_variables, read_row, read_all_rows, reset,
// get_inner, finish.
type RowSource interface {
	// Init prepares the row source (and recursively its inputs) to run.
	Init() error

	// EnsureVariables computes (and caches) this source's output Schema.
	// Called once before the first ReadRow.
	EnsureVariables() (*rdfql.Schema, error)

	// ReadRow returns the next row, or (nil, nil) at end-of-stream.
	// Exactly one nil read signals the end; a Reset restarts iteration.
	ReadRow() (*rdfql.Row, error)

	// ReadAllRows drains the remaining rows. See ReadAllRows (package
	// function) for the default loop-over-ReadRow implementation every
	// concrete source delegates to.
	ReadAllRows() ([]*rdfql.Row, error)

	// Reset restarts iteration from the beginning.
	Reset() error

	// Inner returns the i'th child row source, or nil if there is none
	// at that index.
	Inner(i int) RowSource

	// Finish releases resources (cursors, child sources) in reverse
	// construction order. MUST be called exactly once, even if iteration
	// did not reach end-of-stream (spec.md §5 "Cancellation").
	Finish() error
}

// ReadAllRows is the shared default `read_all_rows` implementation
// (spec.md §9 "Provide a default read_all_rows that loops over
// read_row"): every concrete source's ReadAllRows method calls this.
func ReadAllRows(rs RowSource) ([]*rdfql.Row, error) {
	var out []*rdfql.Row
	for {
		row, err := rs.ReadRow()
		if err != nil {
			return out, err
		}
		if row == nil {
			return out, nil
		}
		out = append(out, row)
	}
}

// Contextual is implemented by row sources that can be driven as the
// inner side of a nested-loop Join or LeftJoin: before iterating such a
// source for a given outer row, the join rebinds it against that row's
// bindings (spec.md §4.7 Triples-match "rebinds on every outer row").
type Contextual interface {
	Rebind(outer *rdfql.Row) error
}

// PrintRowSequence is the shared debug printer of spec.md §4.7 ("The
// framework provides print_row_sequence for debugging; all row sources
// use the same printing").
func PrintRowSequence(rows []*rdfql.Row) string {
	var out string
	for i, r := range rows {
		out += fmt.Sprintf("row %d:", i)
		for j, name := range r.Schema.Names() {
			v := r.Vals[j]
			if v == nil {
				out += fmt.Sprintf(" %s=unbound", name)
				continue
			}
			out += fmt.Sprintf(" %s=%s", name, v.String())
		}
		out += "\n"
	}
	return out
}

// mergeRows builds a row over schema, preferring a's binding then b's
// for each name (spec.md §4.7 Join/Left-join/Union "output schema is the
// union of... schemas").
func mergeRows(schema *rdfql.Schema, a, b *rdfql.Row) *rdfql.Row {
	out := rdfql.NewRow(schema)
	for i, name := range schema.Names() {
		if v := a.Get(name); v != nil {
			out.Vals[i] = v
		} else if b != nil {
			out.Vals[i] = b.Get(name)
		}
	}
	return out
}

// compatibleRows reports whether a and b agree on every variable they
// share (spec.md §4.7 Join "a binding is compatible iff every shared
// variable has the same value in both rows"). Agreement is lexical
// identity of the bound literal's rendered form, which matches RDF-term
// equality for the ground values row sources actually carry.
func compatibleRows(a, b *rdfql.Row) bool {
	for _, name := range a.Schema.Names() {
		av := a.Get(name)
		if av == nil {
			continue
		}
		if bv := b.Get(name); bv != nil && bv.String() != av.String() {
			return false
		}
	}
	return true
}
