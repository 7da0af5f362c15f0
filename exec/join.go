package exec

import "github.com/knakk/rdfql"

// Join is the nested-loop join row source of spec.md §4.7: for each
// outer row it iterates inner, yielding the merge of every compatible
// pair. Output schema is the union of outer's and inner's schemas.
type Join struct {
	outer, inner RowSource
	schema       *rdfql.Schema
	outerRow     *rdfql.Row
}

// NewJoin returns a nested-loop join of outer and inner.
func NewJoin(outer, inner RowSource) *Join {
	return &Join{outer: outer, inner: inner}
}

func (j *Join) Init() error {
	if err := j.outer.Init(); err != nil {
		return err
	}
	return j.inner.Init()
}

func (j *Join) EnsureVariables() (*rdfql.Schema, error) {
	if j.schema != nil {
		return j.schema, nil
	}
	os, err := j.outer.EnsureVariables()
	if err != nil {
		return nil, err
	}
	is, err := j.inner.EnsureVariables()
	if err != nil {
		return nil, err
	}
	j.schema = rdfql.Union(os, is)
	return j.schema, nil
}

func (j *Join) advanceOuter() (bool, error) {
	row, err := j.outer.ReadRow()
	if err != nil || row == nil {
		return false, err
	}
	j.outerRow = row
	if err := rebindOrReset(j.inner, row); err != nil {
		return false, err
	}
	return true, nil
}

// rebindOrReset rebinds inner against outer if it's context-sensitive
// (a TriplesMatch, or another Join/LeftJoin whose own inner is), else
// just restarts its independent iteration.
func rebindOrReset(rs RowSource, outer *rdfql.Row) error {
	if c, ok := rs.(Contextual); ok {
		return c.Rebind(outer)
	}
	return rs.Reset()
}

func (j *Join) ReadRow() (*rdfql.Row, error) {
	if j.schema == nil {
		if _, err := j.EnsureVariables(); err != nil {
			return nil, err
		}
	}
	for {
		if j.outerRow == nil {
			ok, err := j.advanceOuter()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, nil
			}
		}
		innerRow, err := j.inner.ReadRow()
		if err != nil {
			return nil, err
		}
		if innerRow == nil {
			j.outerRow = nil
			continue
		}
		if compatibleRows(j.outerRow, innerRow) {
			return mergeRows(j.schema, j.outerRow, innerRow), nil
		}
	}
}

func (j *Join) ReadAllRows() ([]*rdfql.Row, error) { return ReadAllRows(j) }

func (j *Join) Reset() error {
	j.outerRow = nil
	return j.outer.Reset()
}

func (j *Join) Inner(i int) RowSource {
	switch i {
	case 0:
		return j.outer
	case 1:
		return j.inner
	default:
		return nil
	}
}

// Rebind lets a Join serve as the inner side of an enclosing Join: ctx's
// bindings are threaded down by rebinding/resetting this Join's own
// outer side against them, so variables bound above this subtree reach
// every triples-match nested within it.
func (j *Join) Rebind(ctx *rdfql.Row) error {
	j.outerRow = nil
	return rebindOrReset(j.outer, ctx)
}

func (j *Join) Finish() error {
	err1 := j.inner.Finish()
	err2 := j.outer.Finish()
	if err1 != nil {
		return err1
	}
	return err2
}
