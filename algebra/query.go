package algebra

import "github.com/knakk/rdfql"

// Verb is the query form (spec.md §3).
type Verb int

const (
	Select Verb = iota
	Construct
	Describe
	Ask
)

func (v Verb) String() string {
	switch v {
	case Select:
		return "SELECT"
	case Construct:
		return "CONSTRUCT"
	case Describe:
		return "DESCRIBE"
	case Ask:
		return "ASK"
	default:
		return "unknown"
	}
}

// DatasetFlag marks a data-graph descriptor as the default (background)
// graph or a named graph (spec.md §3, §6).
type DatasetFlag int

const (
	Background DatasetFlag = iota
	Named
)

// DatasetDescriptor is one entry of a query's FROM/FROM NAMED dataset
// (spec.md §3, §6). At most one Background entry is honored; duplicates
// produce a Warning-severity log (spec.md §6).
type DatasetDescriptor struct {
	URI     *rdfql.IRI
	NameURI *rdfql.IRI // set only when Flag == Named
	Flag    DatasetFlag
}

// OrderCondition pairs a sort key expression with its direction. The
// parser yields these wrapped as OpAsc/OpDesc per spec.md §3; Key strips
// the wrapper so callers can evaluate the bare expression and consult Desc
// to know whether to invert the comparison (spec.md §4.2).
type OrderCondition struct {
	Key  *Expr
	Desc bool
}

// NewOrderCondition unwraps an OpAsc/OpDesc-wrapped expression (or accepts
// a bare expression, defaulting to ascending).
func NewOrderCondition(e *Expr) OrderCondition {
	switch e.Op {
	case OpDesc:
		return OrderCondition{Key: e.Args[0], Desc: true}
	case OpAsc:
		return OrderCondition{Key: e.Args[0], Desc: false}
	default:
		return OrderCondition{Key: e, Desc: false}
	}
}

// Query holds everything a parser must produce for the engine to prepare
// and execute a request (spec.md §3).
type Query struct {
	Verb      Verb
	Variables *rdfql.VariablesTable

	DataGraphs []DatasetDescriptor
	Prefixes   map[string]string // prefix -> namespace IRI

	// Project is the SELECT projection: one entry per output column. A
	// nil Expr means "project the named variable verbatim"; a non-nil
	// Expr is a computed projection (SPARQL 1.1 `SELECT (expr AS ?x)`).
	Project []ProjectedVar

	Pattern *Pattern

	Order    []OrderCondition
	Distinct bool

	// Limit and Offset are negative when unset (spec.md §3).
	Limit, Offset int64

	// ConstructTemplate is the triple template for CONSTRUCT.
	ConstructTemplate []rdfql.Triple

	// ServiceEndpoint is set when the query should be evaluated against
	// a remote SPARQL endpoint rather than a local triples source
	// (spec.md §4.7 "Remote service").
	ServiceEndpoint *rdfql.IRI
}

// ProjectedVar is one entry of a SELECT projection list.
type ProjectedVar struct {
	Name string // output variable name
	Expr *Expr  // nil for a plain `?name` projection
}

// NewQuery returns a Query with Limit/Offset defaulted to "unset" (-1).
func NewQuery(verb Verb, vars *rdfql.VariablesTable) *Query {
	return &Query{
		Verb:      verb,
		Variables: vars,
		Prefixes:  map[string]string{},
		Limit:     -1,
		Offset:    -1,
	}
}

// ProjectedNames returns the plain ordered list of output variable names.
func (q *Query) ProjectedNames() []string {
	names := make([]string, len(q.Project))
	for i, p := range q.Project {
		names[i] = p.Name
	}
	return names
}
