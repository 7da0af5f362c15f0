package algebra

import "github.com/knakk/rdfql"

// Op discriminates the 31 SPARQL/XPath operators an Expr node can carry
// (spec.md §3). Each Expr node owns its children (Args).
type Op int

const (
	// Leaves.
	OpLiteral Op = iota // a constant Literal (Lit)
	OpVar               // a variable reference (Var)

	// Logical.
	OpAnd
	OpOr
	OpNot

	// Value comparison.
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLe
	OpGe

	// Term comparison.
	OpSameTerm

	// Numeric.
	OpPlus
	OpMinus
	OpMul
	OpDiv
	OpUMinus

	// String predicates.
	OpRegex
	OpStrEq
	OpStrNeq

	// RDF introspection.
	OpBound
	OpIsURI
	OpIsBlank
	OpIsLiteral
	OpStr
	OpLang
	OpDatatype

	// Cast-to-datatype.
	OpCast

	// Function call (URI + argument list).
	OpFuncCall

	// Order-direction wrappers.
	OpAsc
	OpDesc
)

func (op Op) String() string {
	names := [...]string{
		"Literal", "Var", "And", "Or", "Not", "Eq", "Neq", "Lt", "Gt", "Le", "Ge",
		"SameTerm", "Plus", "Minus", "Mul", "Div", "UMinus", "Regex", "StrEq",
		"StrNeq", "Bound", "IsURI", "IsBlank", "IsLiteral", "Str", "Lang",
		"Datatype", "Cast", "FuncCall", "Asc", "Desc",
	}
	if int(op) < len(names) {
		return names[op]
	}
	return "unknown"
}

// Expr is the closed-sum expression-tree node type (spec.md §3).
type Expr struct {
	Op   Op
	Args []*Expr

	Lit *rdfql.Literal    // OpLiteral
	Var *rdfql.Variable   // OpVar
	Fn  *rdfql.IRI        // OpFuncCall: the function's URI
	To  *rdfql.IRI        // OpCast: the target datatype URI
}

// NewLiteral wraps a constant Literal as a leaf expression.
func NewLiteral(l *rdfql.Literal) *Expr { return &Expr{Op: OpLiteral, Lit: l} }

// NewVar wraps a variable reference as a leaf expression.
func NewVar(v *rdfql.Variable) *Expr { return &Expr{Op: OpVar, Var: v} }

// New builds an interior node with op and the given children.
func New(op Op, args ...*Expr) *Expr { return &Expr{Op: op, Args: args} }

// NewCast builds a cast(t, e) expression.
func NewCast(to *rdfql.IRI, e *Expr) *Expr { return &Expr{Op: OpCast, To: to, Args: []*Expr{e}} }

// NewFuncCall builds a function-call expression.
func NewFuncCall(fn *rdfql.IRI, args ...*Expr) *Expr {
	return &Expr{Op: OpFuncCall, Fn: fn, Args: args}
}

// Variables returns the names of every variable referenced anywhere in
// the expression tree rooted at e, in first-occurrence order.
func (e *Expr) Variables() []string {
	seen := map[string]bool{}
	var out []string
	var walk func(n *Expr)
	walk = func(n *Expr) {
		if n == nil {
			return
		}
		if n.Op == OpVar && n.Var != nil && !seen[n.Var.Name] {
			seen[n.Var.Name] = true
			out = append(out, n.Var.Name)
		}
		for _, a := range n.Args {
			walk(a)
		}
	}
	walk(e)
	return out
}

// ReferencesOnly reports whether every variable e mentions is in allowed.
func (e *Expr) ReferencesOnly(allowed map[string]bool) bool {
	for _, name := range e.Variables() {
		if !allowed[name] {
			return false
		}
	}
	return true
}
