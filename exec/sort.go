package exec

import (
	"sort"

	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/algebra"
	"github.com/knakk/rdfql/eval"
)

// Sort materializes all input rows, stable-sorts them by the given
// order-conditions, then yields them in order (spec.md §4.7). A stable
// sort is required so two rows equal under every order-condition keep
// their relative input order.
type Sort struct {
	inner RowSource
	order []algebra.OrderCondition
	vars  *rdfql.VariablesTable
	flags eval.Flags

	rows         []*rdfql.Row
	idx          int
	materialized bool
}

// NewSort returns a Sort row source over inner using order.
func NewSort(inner RowSource, order []algebra.OrderCondition, vars *rdfql.VariablesTable, flags eval.Flags) *Sort {
	return &Sort{inner: inner, order: order, vars: vars, flags: flags}
}

func (s *Sort) Init() error { return s.inner.Init() }

func (s *Sort) EnsureVariables() (*rdfql.Schema, error) { return s.inner.EnsureVariables() }

func (s *Sort) materialize() error {
	rows, err := s.inner.ReadAllRows()
	if err != nil {
		return err
	}
	keys := make([][]*rdfql.Literal, len(rows))
	for i, row := range rows {
		ctx := eval.NewContext(row, s.vars)
		vals := make([]*rdfql.Literal, len(s.order))
		for j, oc := range s.order {
			v, err := eval.Eval(ctx, oc.Key)
			if err == nil {
				vals[j] = v
			}
		}
		keys[i] = vals
	}
	descs := make([]bool, len(s.order))
	for j, oc := range s.order {
		descs[j] = oc.Desc
	}
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return eval.CompareSequence(keys[idx[a]], keys[idx[b]], descs, s.flags) < 0
	})
	sorted := make([]*rdfql.Row, len(rows))
	for i, j := range idx {
		sorted[i] = rows[j]
	}
	s.rows = sorted
	s.materialized = true
	return nil
}

func (s *Sort) ReadRow() (*rdfql.Row, error) {
	if !s.materialized {
		if err := s.materialize(); err != nil {
			return nil, err
		}
	}
	if s.idx >= len(s.rows) {
		return nil, nil
	}
	row := s.rows[s.idx]
	s.idx++
	return row, nil
}

func (s *Sort) ReadAllRows() ([]*rdfql.Row, error) { return ReadAllRows(s) }

func (s *Sort) Reset() error {
	s.idx = 0
	if !s.materialized {
		return nil
	}
	return nil
}

func (s *Sort) Inner(i int) RowSource {
	if i == 0 {
		return s.inner
	}
	return nil
}

func (s *Sort) Finish() error { return s.inner.Finish() }
