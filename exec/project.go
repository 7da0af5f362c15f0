package exec

import (
	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/algebra"
	"github.com/knakk/rdfql/eval"
)

// Project narrows rows to an ordered, caller-provided variable list.
// A projected name missing from the input resolves to its projected
// expression if one was given (SELECT's `(expr AS ?name)` form), else to
// unbound (spec.md §4.7).
type Project struct {
	inner     RowSource
	projected []algebra.ProjectedVar
	vars      *rdfql.VariablesTable
	schema    *rdfql.Schema
}

// NewProject returns a Project row source over inner.
func NewProject(inner RowSource, projected []algebra.ProjectedVar, vars *rdfql.VariablesTable) *Project {
	return &Project{inner: inner, projected: projected, vars: vars}
}

func (p *Project) Init() error { return p.inner.Init() }

func (p *Project) EnsureVariables() (*rdfql.Schema, error) {
	if p.schema != nil {
		return p.schema, nil
	}
	if _, err := p.inner.EnsureVariables(); err != nil {
		return nil, err
	}
	names := make([]string, len(p.projected))
	for i, pv := range p.projected {
		names[i] = pv.Name
	}
	p.schema = rdfql.NewSchema(names)
	return p.schema, nil
}

func (p *Project) ReadRow() (*rdfql.Row, error) {
	if p.schema == nil {
		if _, err := p.EnsureVariables(); err != nil {
			return nil, err
		}
	}
	row, err := p.inner.ReadRow()
	if err != nil || row == nil {
		return row, err
	}
	out := rdfql.NewRow(p.schema)
	ctx := eval.NewContext(row, p.vars)
	for _, pv := range p.projected {
		if v := row.Get(pv.Name); v != nil {
			out.Set(pv.Name, v)
			continue
		}
		if pv.Expr != nil {
			if v, err := eval.Eval(ctx, pv.Expr); err == nil {
				out.Set(pv.Name, v)
			}
		}
	}
	return out, nil
}

func (p *Project) ReadAllRows() ([]*rdfql.Row, error) { return ReadAllRows(p) }

func (p *Project) Reset() error { return p.inner.Reset() }

func (p *Project) Inner(i int) RowSource {
	if i == 0 {
		return p.inner
	}
	return nil
}

func (p *Project) Finish() error { return p.inner.Finish() }
