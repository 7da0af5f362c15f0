package exec

import (
	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/algebra"
	"github.com/knakk/rdfql/eval"
)

// Extend is the `BIND` row source of spec.md §4.7: evaluates one
// expression per row, appending the result under varName. Per spec.md
// §4.7's literal text, a row in which varName is already bound to a
// non-null value is dropped entirely (re-binding a BIND target is an
// error in SPARQL 1.1, not a silent pass-through); evaluation errors
// leave varName unbound rather than dropping the row.
type Extend struct {
	inner   RowSource
	varName string
	expr    *algebra.Expr
	vars    *rdfql.VariablesTable
	schema  *rdfql.Schema
}

// NewExtend returns an Extend row source binding varName to expr's
// result over inner's rows.
func NewExtend(inner RowSource, varName string, expr *algebra.Expr, vars *rdfql.VariablesTable) *Extend {
	return &Extend{inner: inner, varName: varName, expr: expr, vars: vars}
}

func (e *Extend) Init() error { return e.inner.Init() }

func (e *Extend) EnsureVariables() (*rdfql.Schema, error) {
	if e.schema != nil {
		return e.schema, nil
	}
	inner, err := e.inner.EnsureVariables()
	if err != nil {
		return nil, err
	}
	if inner.IndexOf(e.varName) >= 0 {
		e.schema = inner
	} else {
		e.schema = rdfql.NewSchema(append(append([]string(nil), inner.Names()...), e.varName))
	}
	return e.schema, nil
}

func (e *Extend) ReadRow() (*rdfql.Row, error) {
	if e.schema == nil {
		if _, err := e.EnsureVariables(); err != nil {
			return nil, err
		}
	}
	for {
		row, err := e.inner.ReadRow()
		if err != nil || row == nil {
			return row, err
		}
		out := row.Project(e.schema)
		if out.Get(e.varName) != nil {
			continue // already bound: the row is dropped, per spec.md §4.7
		}
		ctx := eval.NewContext(row, e.vars)
		v, err := eval.Eval(ctx, e.expr)
		if err == nil {
			out.Set(e.varName, v)
		}
		return out, nil
	}
}

func (e *Extend) ReadAllRows() ([]*rdfql.Row, error) { return ReadAllRows(e) }

func (e *Extend) Reset() error { return e.inner.Reset() }

func (e *Extend) Inner(i int) RowSource {
	if i == 0 {
		return e.inner
	}
	return nil
}

func (e *Extend) Finish() error { return e.inner.Finish() }
