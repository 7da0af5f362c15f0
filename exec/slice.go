package exec

import "github.com/knakk/rdfql"

// Slice forwards rows after skipping offset of them and stops once limit
// have been forwarded (spec.md §4.7). A negative limit means unbounded.
type Slice struct {
	inner          RowSource
	offset, limit  int64
	skipped, taken int64
}

// NewSlice returns a Slice row source over inner.
func NewSlice(inner RowSource, offset, limit int64) *Slice {
	return &Slice{inner: inner, offset: offset, limit: limit}
}

func (s *Slice) Init() error { return s.inner.Init() }

func (s *Slice) EnsureVariables() (*rdfql.Schema, error) { return s.inner.EnsureVariables() }

func (s *Slice) ReadRow() (*rdfql.Row, error) {
	if s.limit >= 0 && s.taken >= s.limit {
		return nil, nil
	}
	for s.skipped < s.offset {
		row, err := s.inner.ReadRow()
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, nil
		}
		s.skipped++
	}
	row, err := s.inner.ReadRow()
	if err != nil || row == nil {
		return row, err
	}
	s.taken++
	return row, nil
}

func (s *Slice) ReadAllRows() ([]*rdfql.Row, error) { return ReadAllRows(s) }

func (s *Slice) Reset() error {
	s.skipped, s.taken = 0, 0
	return s.inner.Reset()
}

func (s *Slice) Inner(i int) RowSource {
	if i == 0 {
		return s.inner
	}
	return nil
}

func (s *Slice) Finish() error { return s.inner.Finish() }
