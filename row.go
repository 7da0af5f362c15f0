package rdfql

// Schema is the ordered list of variable names a Row's slots correspond
// to. Row sources agree on a Schema during EnsureVariables (spec.md §4.7).
type Schema struct {
	names []string
	index map[string]int
}

// NewSchema builds a Schema from an ordered variable-name list.
func NewSchema(names []string) *Schema {
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	return &Schema{names: append([]string(nil), names...), index: idx}
}

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.names) }

// Name returns the variable name at position i.
func (s *Schema) Name(i int) string { return s.names[i] }

// Names returns the full ordered name list; callers must not mutate it.
func (s *Schema) Names() []string { return s.names }

// IndexOf returns the column offset of name, or -1 if name is not present.
func (s *Schema) IndexOf(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Union returns a new Schema containing every name in a followed by every
// name in b not already present in a, preserving relative order — the
// "output schema is union of outer and inner schemas" rule used by Join,
// Union and Left-join (spec.md §4.7).
func Union(a, b *Schema) *Schema {
	names := append([]string(nil), a.names...)
	for _, n := range b.names {
		if a.IndexOf(n) < 0 {
			names = append(names, n)
		}
	}
	return NewSchema(names)
}

// Row is a fixed-width array of shared literal pointers matching its
// owning row source's Schema (spec.md §3). A nil slot means that variable
// is unbound in this row.
type Row struct {
	Schema *Schema
	Vals   []*Literal
}

// NewRow allocates an all-unbound row for schema.
func NewRow(schema *Schema) *Row {
	return &Row{Schema: schema, Vals: make([]*Literal, schema.Len())}
}

// Get returns the value bound to name in the row, or nil if name is not
// in the schema or is unbound.
func (r *Row) Get(name string) *Literal {
	i := r.Schema.IndexOf(name)
	if i < 0 {
		return nil
	}
	return r.Vals[i]
}

// Set binds name to value, returning false if name is not in the schema.
func (r *Row) Set(name string, value *Literal) bool {
	i := r.Schema.IndexOf(name)
	if i < 0 {
		return false
	}
	r.Vals[i] = value
	return true
}

// Clone deep-copies the Vals slice (but not the underlying Literals, which
// are shared pointers per spec.md §3 "copying a row deep-copies literal
// pointers (shared) but not literals").
func (r *Row) Clone() *Row {
	vals := make([]*Literal, len(r.Vals))
	copy(vals, r.Vals)
	return &Row{Schema: r.Schema, Vals: vals}
}

// Project returns a new Row over targetSchema, pulling values from r by
// name (unbound where targetSchema names a variable r's schema lacks).
func (r *Row) Project(targetSchema *Schema) *Row {
	out := NewRow(targetSchema)
	for i, name := range targetSchema.names {
		out.Vals[i] = r.Get(name)
	}
	return out
}
