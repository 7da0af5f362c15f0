package rdfql

// VariableKind distinguishes a user-written variable from one the engine
// introduces internally (e.g. a fresh name for an anonymous blank node
// inside a graph pattern).
type VariableKind int

const (
	VariableNormal VariableKind = iota
	VariableAnonymous
)

// Variable is an entry in a query's VariablesTable: a name, its offset
// into that table, its current bound value (nil if unbound), and —
// for BIND-introduced variables — the expression that computes it.
//
// Variable.BindExpr is declared as `any` here (rather than *algebra.Expr)
// to avoid a root-package import of algebra, which itself needs Literal;
// a holder of an *algebra.Expr stores it here and type-asserts it back.
type Variable struct {
	Name  string
	Kind  VariableKind
	Index int // offset into the owning VariablesTable

	Value *Literal // current binding; nil means unbound

	BindExpr any
}

// VariablesTable is the per-query variable registry every Variable
// reference elsewhere in the query is a pointer into (spec.md §3). It is
// shared mutable state: expression evaluation reads a variable's binding
// from the current row and falls back to the Variable's Value field, which
// row sources do not write; Reset clears it. This is only safe because
// execution of a single query is single-threaded.
type VariablesTable struct {
	byName map[string]*Variable
	order  []*Variable
}

// NewVariablesTable returns an empty table.
func NewVariablesTable() *VariablesTable {
	return &VariablesTable{byName: make(map[string]*Variable)}
}

// Intern returns the Variable named name, creating it (as VariableNormal)
// if it does not already exist.
func (t *VariablesTable) Intern(name string) *Variable {
	if v, ok := t.byName[name]; ok {
		return v
	}
	v := &Variable{Name: name, Kind: VariableNormal, Index: len(t.order)}
	t.byName[name] = v
	t.order = append(t.order, v)
	return v
}

// NewAnonymous creates and registers a fresh anonymous variable, e.g. for
// a blank node that appears in a graph pattern (which SPARQL treats as an
// existentially-scoped variable). name is used only for debug printing and
// need not be unique across calls in the caller's eyes, but Intern-style
// collisions are avoided by prefixing with "_anon".
func (t *VariablesTable) NewAnonymous(hint string) *Variable {
	name := "_anon:" + hint
	for {
		if _, exists := t.byName[name]; !exists {
			break
		}
		name += "'"
	}
	v := &Variable{Name: name, Kind: VariableAnonymous, Index: len(t.order)}
	t.byName[name] = v
	t.order = append(t.order, v)
	return v
}

// Lookup returns the Variable named name, or nil if it is not registered.
func (t *VariablesTable) Lookup(name string) *Variable {
	return t.byName[name]
}

// Len returns the number of registered variables.
func (t *VariablesTable) Len() int { return len(t.order) }

// All returns every registered variable in registration order.
func (t *VariablesTable) All() []*Variable { return t.order }

// Reset clears every variable's current binding. Used between query
// executions that share a VariablesTable (not supported concurrently,
// spec.md §5).
func (t *VariablesTable) Reset() {
	for _, v := range t.order {
		v.Value = nil
	}
}
