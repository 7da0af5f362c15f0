package exec

import (
	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/algebra"
	"github.com/knakk/rdfql/eval"
)

// LeftJoin is the `Optional` row source of spec.md §4.7: like Join, but
// when no inner row matches an outer row, it emits the outer row once
// with the inner-only variables left unbound. Filters attached to the
// optional arm are evaluated inside the inner loop; a row failing them
// is treated as a non-match.
type LeftJoin struct {
	outer, inner RowSource
	filters      []*algebra.Expr
	vars         *rdfql.VariablesTable

	schema      *rdfql.Schema
	innerSchema *rdfql.Schema
	outerRow    *rdfql.Row
	matchedAny  bool
}

// NewLeftJoin returns an Optional row source over outer/inner, applying
// filters (already lifted onto the optional's Group per the optimizer)
// inside the inner loop.
func NewLeftJoin(outer, inner RowSource, filters []*algebra.Expr, vars *rdfql.VariablesTable) *LeftJoin {
	return &LeftJoin{outer: outer, inner: inner, filters: filters, vars: vars}
}

func (lj *LeftJoin) Init() error {
	if err := lj.outer.Init(); err != nil {
		return err
	}
	return lj.inner.Init()
}

func (lj *LeftJoin) EnsureVariables() (*rdfql.Schema, error) {
	if lj.schema != nil {
		return lj.schema, nil
	}
	os, err := lj.outer.EnsureVariables()
	if err != nil {
		return nil, err
	}
	is, err := lj.inner.EnsureVariables()
	if err != nil {
		return nil, err
	}
	lj.innerSchema = is
	lj.schema = rdfql.Union(os, is)
	return lj.schema, nil
}

func (lj *LeftJoin) passesFilters(row *rdfql.Row) bool {
	if len(lj.filters) == 0 {
		return true
	}
	ctx := eval.NewContext(row, lj.vars)
	for _, f := range lj.filters {
		v, err := eval.Eval(ctx, f)
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

func (lj *LeftJoin) advanceOuter() (bool, error) {
	row, err := lj.outer.ReadRow()
	if err != nil || row == nil {
		return false, err
	}
	lj.outerRow = row
	lj.matchedAny = false
	if err := rebindOrReset(lj.inner, row); err != nil {
		return false, err
	}
	return true, nil
}

func (lj *LeftJoin) ReadRow() (*rdfql.Row, error) {
	if lj.schema == nil {
		if _, err := lj.EnsureVariables(); err != nil {
			return nil, err
		}
	}
	for {
		if lj.outerRow == nil {
			ok, err := lj.advanceOuter()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, nil
			}
		}
		innerRow, err := lj.inner.ReadRow()
		if err != nil {
			return nil, err
		}
		if innerRow == nil {
			if !lj.matchedAny {
				unmatched := mergeRows(lj.schema, lj.outerRow, rdfql.NewRow(lj.innerSchema))
				lj.outerRow = nil
				return unmatched, nil
			}
			lj.outerRow = nil
			continue
		}
		if !compatibleRows(lj.outerRow, innerRow) {
			continue
		}
		merged := mergeRows(lj.schema, lj.outerRow, innerRow)
		if !lj.passesFilters(merged) {
			continue
		}
		lj.matchedAny = true
		return merged, nil
	}
}

func (lj *LeftJoin) ReadAllRows() ([]*rdfql.Row, error) { return ReadAllRows(lj) }

func (lj *LeftJoin) Reset() error {
	lj.outerRow = nil
	return lj.outer.Reset()
}

func (lj *LeftJoin) Inner(i int) RowSource {
	switch i {
	case 0:
		return lj.outer
	case 1:
		return lj.inner
	default:
		return nil
	}
}

func (lj *LeftJoin) Finish() error {
	err1 := lj.inner.Finish()
	err2 := lj.outer.Finish()
	if err1 != nil {
		return err1
	}
	return err2
}
