package exec

import (
	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/algebra"
	"github.com/knakk/rdfql/eval"
)

// Filter evaluates a conjunction of boolean expressions per row,
// forwarding only rows whose EBV is true; evaluation errors drop the row
// (spec.md §4.7 "Errors become false").
type Filter struct {
	inner RowSource
	exprs []*algebra.Expr
	vars  *rdfql.VariablesTable
}

// NewFilter returns a Filter row source over inner, applying exprs'
// conjunction.
func NewFilter(inner RowSource, exprs []*algebra.Expr, vars *rdfql.VariablesTable) *Filter {
	return &Filter{inner: inner, exprs: exprs, vars: vars}
}

func (f *Filter) Init() error { return f.inner.Init() }

func (f *Filter) EnsureVariables() (*rdfql.Schema, error) { return f.inner.EnsureVariables() }

func (f *Filter) passes(row *rdfql.Row) bool {
	ctx := eval.NewContext(row, f.vars)
	for _, e := range f.exprs {
		v, err := eval.Eval(ctx, e)
		if err != nil {
			return false
		}
		ok, err := eval.EBV(v)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

func (f *Filter) ReadRow() (*rdfql.Row, error) {
	for {
		row, err := f.inner.ReadRow()
		if err != nil || row == nil {
			return row, err
		}
		if f.passes(row) {
			return row, nil
		}
	}
}

func (f *Filter) ReadAllRows() ([]*rdfql.Row, error) { return ReadAllRows(f) }

func (f *Filter) Reset() error { return f.inner.Reset() }

func (f *Filter) Inner(i int) RowSource {
	if i == 0 {
		return f.inner
	}
	return nil
}

func (f *Filter) Finish() error { return f.inner.Finish() }
