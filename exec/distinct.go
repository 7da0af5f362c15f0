package exec

import (
	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/eval"
)

// Distinct maintains an insertion-order set of rows, keyed by the row's
// literal tuple under value equality (spec.md §4.7, §8), suppressing any
// row that compares value-equal to one already emitted.
type Distinct struct {
	inner RowSource
	seen  map[string]bool
}

// NewDistinct returns a Distinct row source over inner.
func NewDistinct(inner RowSource) *Distinct {
	return &Distinct{inner: inner, seen: map[string]bool{}}
}

func (d *Distinct) Init() error { return d.inner.Init() }

func (d *Distinct) EnsureVariables() (*rdfql.Schema, error) { return d.inner.EnsureVariables() }

// rowKey builds a per-row key from eval.CanonicalKey, not Literal.String,
// so that value-equal-but-lexically-distinct bindings (e.g. ?x = "1"^^xsd:integer
// vs ?x = "1.0"^^xsd:double) collide rather than both surviving Distinct.
func rowKey(row *rdfql.Row) string {
	key := ""
	for _, v := range row.Vals {
		key += eval.CanonicalKey(v) + "\x01"
	}
	return key
}

func (d *Distinct) ReadRow() (*rdfql.Row, error) {
	for {
		row, err := d.inner.ReadRow()
		if err != nil || row == nil {
			return row, err
		}
		key := rowKey(row)
		if d.seen[key] {
			continue
		}
		d.seen[key] = true
		return row, nil
	}
}

func (d *Distinct) ReadAllRows() ([]*rdfql.Row, error) { return ReadAllRows(d) }

func (d *Distinct) Reset() error {
	d.seen = map[string]bool{}
	return d.inner.Reset()
}

func (d *Distinct) Inner(i int) RowSource {
	if i == 0 {
		return d.inner
	}
	return nil
}

func (d *Distinct) Finish() error { return d.inner.Finish() }
