package exec

import "github.com/knakk/rdfql"

// Union concatenates its children's row streams in order, yielding every
// row of the first child before any row of the second (spec.md §4.7,
// §5). Output schema is the union of every child's schema; a row lacking
// one child's variable reads as unbound there.
type Union struct {
	children []RowSource
	schema   *rdfql.Schema
	idx      int
}

// NewUnion returns a Union over children, in order.
func NewUnion(children ...RowSource) *Union {
	return &Union{children: children}
}

func (u *Union) Init() error {
	for _, c := range u.children {
		if err := c.Init(); err != nil {
			return err
		}
	}
	return nil
}

func (u *Union) EnsureVariables() (*rdfql.Schema, error) {
	if u.schema != nil {
		return u.schema, nil
	}
	if len(u.children) == 0 {
		u.schema = rdfql.NewSchema(nil)
		return u.schema, nil
	}
	schema, err := u.children[0].EnsureVariables()
	if err != nil {
		return nil, err
	}
	for _, c := range u.children[1:] {
		cs, err := c.EnsureVariables()
		if err != nil {
			return nil, err
		}
		schema = rdfql.Union(schema, cs)
	}
	u.schema = schema
	return u.schema, nil
}

func (u *Union) ReadRow() (*rdfql.Row, error) {
	if u.schema == nil {
		if _, err := u.EnsureVariables(); err != nil {
			return nil, err
		}
	}
	for u.idx < len(u.children) {
		row, err := u.children[u.idx].ReadRow()
		if err != nil {
			return nil, err
		}
		if row == nil {
			u.idx++
			continue
		}
		return row.Project(u.schema), nil
	}
	return nil, nil
}

func (u *Union) ReadAllRows() ([]*rdfql.Row, error) { return ReadAllRows(u) }

func (u *Union) Reset() error {
	u.idx = 0
	for _, c := range u.children {
		if err := c.Reset(); err != nil {
			return err
		}
	}
	return nil
}

func (u *Union) Inner(i int) RowSource {
	if i < 0 || i >= len(u.children) {
		return nil
	}
	return u.children[i]
}

func (u *Union) Finish() error {
	var first error
	for _, c := range u.children {
		if err := c.Finish(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
