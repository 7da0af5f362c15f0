// Package algebra defines the graph-pattern and expression algebra a
// SPARQL/RDQL parser must yield (spec.md §3, §4.6): the tagged-variant
// pattern tree, the 31-operator expression tree, and the top-level Query
// struct tying them together with the variables table and dataset
// descriptors.
package algebra

import "github.com/knakk/rdfql"

// PatternKind discriminates the variants of Pattern (spec.md §3).
type PatternKind int

const (
	PatternBasic PatternKind = iota
	PatternGroup
	PatternOptional
	PatternUnion
	PatternGraph
	// PatternValues is a SPARQL 1.1 VALUES block: an inline table of
	// bindings. spec.md §4.7 names it ("Row-sequence... used for testing
	// and for VALUES") without folding it into the §3 Pattern variant
	// list; resolved as an Open Question (see DESIGN.md) by adding it
	// here as a sixth variant rather than silently dropping VALUES.
	PatternValues
	// PatternExtend is a BIND: same situation as PatternValues — spec.md
	// §4.7 names Extend as a concrete row source ("Extend (BIND): ...")
	// without a matching §3 Pattern variant. Added for the same reason.
	PatternExtend
)

func (k PatternKind) String() string {
	switch k {
	case PatternBasic:
		return "Basic"
	case PatternGroup:
		return "Group"
	case PatternOptional:
		return "Optional"
	case PatternUnion:
		return "Union"
	case PatternGraph:
		return "Graph"
	case PatternValues:
		return "Values"
	case PatternExtend:
		return "Extend"
	default:
		return "unknown"
	}
}

// Pattern is the closed-sum graph-pattern tree a parser produces and the
// optimizer rewrites (spec.md §3, §4.6). Children and Triples lists are
// ordered, and that order is preserved through optimization except where
// §4.6 explicitly allows a rewrite.
type Pattern struct {
	Kind PatternKind

	// PatternBasic
	Triples []rdfql.Triple

	// PatternGroup, PatternOptional, PatternUnion
	Children []*Pattern

	// PatternGraph
	GraphTerm *rdfql.Literal // URI or Variable
	Child     *Pattern

	// PatternValues
	ValuesVars []string
	ValuesRows [][]*rdfql.Literal // nil entries mean UNDEF

	// PatternExtend
	ExtendVar  string
	ExtendExpr *Expr

	// Filters is the conjunction of boolean expressions attached to this
	// node (spec.md §3 "plus an attached sequence of filter expressions
	// (logical AND)").
	Filters []*Expr
}

// NewBasic returns a Basic graph pattern over triples.
func NewBasic(triples ...rdfql.Triple) *Pattern {
	return &Pattern{Kind: PatternBasic, Triples: append([]rdfql.Triple(nil), triples...)}
}

// NewGroup returns a Group (conjunction) over children, in order.
func NewGroup(children ...*Pattern) *Pattern {
	return &Pattern{Kind: PatternGroup, Children: children}
}

// NewOptional returns an Optional (left-join) pattern. SPARQL's
// `P1 OPTIONAL { P2 }` is represented as Optional{Children: [P1, P2]}.
func NewOptional(required, optional *Pattern) *Pattern {
	return &Pattern{Kind: PatternOptional, Children: []*Pattern{required, optional}}
}

// NewUnion returns a Union over children, in order (Union yields all of
// its first child's rows before any of its second child's, spec.md §5).
func NewUnion(children ...*Pattern) *Pattern {
	return &Pattern{Kind: PatternUnion, Children: children}
}

// NewGraph returns a Graph(term, child) pattern scoping child's triple
// lookups to the named graph term denotes (a URI) or iterating over every
// named graph (a Variable).
func NewGraph(term *rdfql.Literal, child *Pattern) *Pattern {
	return &Pattern{Kind: PatternGraph, GraphTerm: term, Child: child}
}

// NewValues returns a VALUES pattern binding vars to the given rows.
func NewValues(vars []string, rows [][]*rdfql.Literal) *Pattern {
	return &Pattern{Kind: PatternValues, ValuesVars: vars, ValuesRows: rows}
}

// NewExtend returns a BIND pattern: child's rows each extended with
// varName bound to expr's evaluation.
func NewExtend(child *Pattern, varName string, expr *Expr) *Pattern {
	return &Pattern{Kind: PatternExtend, Child: child, ExtendVar: varName, ExtendExpr: expr}
}

// AddFilter appends expr to p's attached filter conjunction.
func (p *Pattern) AddFilter(expr *Expr) {
	p.Filters = append(p.Filters, expr)
}

// Variables returns every variable name referenced by p's triples,
// VALUES bindings and graph term, recursively through children — not
// including variables introduced only inside Filters (callers that need
// those walk the Filter expressions themselves via Expr.Variables).
func (p *Pattern) Variables() []string {
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	var walk func(n *Pattern)
	walk = func(n *Pattern) {
		if n == nil {
			return
		}
		switch n.Kind {
		case PatternBasic:
			for _, t := range n.Triples {
				for _, slot := range []*rdfql.Literal{t.Subj, t.Pred, t.Obj, t.Origin} {
					if slot != nil && slot.Kind() == rdfql.KindVariable && slot.Variable() != nil {
						add(slot.Variable().Name)
					}
				}
			}
		case PatternGroup, PatternOptional, PatternUnion:
			for _, c := range n.Children {
				walk(c)
			}
		case PatternGraph:
			if n.GraphTerm != nil && n.GraphTerm.Kind() == rdfql.KindVariable && n.GraphTerm.Variable() != nil {
				add(n.GraphTerm.Variable().Name)
			}
			walk(n.Child)
		case PatternValues:
			for _, v := range n.ValuesVars {
				add(v)
			}
		case PatternExtend:
			walk(n.Child)
			add(n.ExtendVar)
		}
	}
	walk(p)
	return out
}
