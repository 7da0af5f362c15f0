package query

import (
	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/algebra"
	"github.com/knakk/rdfql/exec"
)

// Cursor exposes the verb-dependent operations of spec.md §4.9. Only the
// methods matching the Cursor's verb are meaningful; the others return
// zero values.
type Cursor struct {
	verb algebra.Verb

	// Bindings (Select)
	schema   *rdfql.Schema
	rows     exec.RowSource
	current  *rdfql.Row
	finished bool

	// Boolean (Ask)
	boolVal bool

	// Graph (Construct/Describe)
	triples   []rdfql.Triple
	tripleIdx int
}

// NextRow advances a bindings cursor to the next solution, returning
// false once exhausted. A no-op once Finished is true (spec.md §4.9
// "Calling next_row after finished is a no-op").
func (c *Cursor) NextRow() (bool, error) {
	if c.finished || c.rows == nil {
		return false, nil
	}
	row, err := c.rows.ReadRow()
	if err != nil {
		return false, err
	}
	if row == nil {
		c.finished = true
		c.current = nil
		return false, nil
	}
	c.current = row
	return true, nil
}

// Finished reports whether the bindings cursor has no further rows.
func (c *Cursor) Finished() bool { return c.finished }

// BindingCount returns the number of output columns.
func (c *Cursor) BindingCount() int {
	if c.schema == nil {
		return 0
	}
	return c.schema.Len()
}

// BindingName returns the i'th output column's variable name.
func (c *Cursor) BindingName(i int) string {
	if c.schema == nil || i < 0 || i >= c.schema.Len() {
		return ""
	}
	return c.schema.Name(i)
}

// BindingValue returns the current row's i'th value, stable until the
// next NextRow call (spec.md §4.9).
func (c *Cursor) BindingValue(i int) *rdfql.Literal {
	if c.current == nil || i < 0 || i >= len(c.current.Vals) {
		return nil
	}
	return c.current.Vals[i]
}

// BindingValueByName returns the current row's value for name, or nil if
// name is not an output column or is unbound.
func (c *Cursor) BindingValueByName(name string) *rdfql.Literal {
	if c.current == nil {
		return nil
	}
	return c.current.Get(name)
}

// GetBoolean returns the ASK result.
func (c *Cursor) GetBoolean() bool { return c.boolVal }

// NextTriple advances a graph cursor (Construct/Describe) to the next
// triple, returning false once exhausted.
func (c *Cursor) NextTriple() bool {
	if c.tripleIdx >= len(c.triples) {
		return false
	}
	c.tripleIdx++
	return true
}

// GetTriple returns the triple NextTriple most recently advanced to.
func (c *Cursor) GetTriple() rdfql.Triple {
	if c.tripleIdx == 0 || c.tripleIdx > len(c.triples) {
		return rdfql.Triple{}
	}
	return c.triples[c.tripleIdx-1]
}

// Finish releases the underlying row-source tree, propagating Finish in
// reverse construction order (spec.md §5 "Cancellation"). Safe to call
// on an already-finished or graph/boolean cursor.
func (c *Cursor) Finish() error {
	if c.rows == nil {
		return nil
	}
	return c.rows.Finish()
}
