package eval

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/algebra"
	"github.com/shopspring/decimal"
)

// Context carries the state expression evaluation needs beyond the
// expression tree itself: the current row's bindings (through the shared
// VariablesTable, spec.md §4.5), the comparison/ordering flags, and a
// per-context regex cache keyed by expression instance (spec.md §4.5
// "regex compiles on first use and caches per expression instance for
// the lifetime of the evaluation context").
type Context struct {
	Row   *rdfql.Row
	Vars  *rdfql.VariablesTable
	Flags Flags

	Funcs map[string]Func // URI -> built-in implementation, for OpFuncCall

	regexCache map[*algebra.Expr]*regexp.Regexp
}

// Func is a built-in SPARQL/XPath extension function implementation.
type Func func(ctx *Context, args []*rdfql.Literal) (*rdfql.Literal, error)

// NewContext returns an evaluation context over row, using DefaultFlags
// and the built-in function registry (see Builtins).
func NewContext(row *rdfql.Row, vars *rdfql.VariablesTable) *Context {
	return &Context{Row: row, Vars: vars, Flags: DefaultFlags, Funcs: Builtins()}
}

// lookup returns v's binding in the context's current Row, falling back
// to v.Value when the row has no value for v (or there is no row).
func (c *Context) lookup(v *rdfql.Variable) *rdfql.Literal {
	if c.Row != nil {
		if val := c.Row.Get(v.Name); val != nil {
			return val
		}
	}
	return v.Value
}

// Eval evaluates e against ctx, post-order, per spec.md §4.5. Callers
// MUST check the returned error: a nil result and a "false" result are
// distinct outcomes.
func Eval(ctx *Context, e *algebra.Expr) (*rdfql.Literal, error) {
	switch e.Op {
	case algebra.OpLiteral:
		return e.Lit, nil
	case algebra.OpVar:
		return ctx.lookup(e.Var), nil

	case algebra.OpAnd:
		return evalAnd(ctx, e)
	case algebra.OpOr:
		return evalOr(ctx, e)
	case algebra.OpNot:
		v, err := Eval(ctx, e.Args[0])
		if err != nil {
			return nil, err // "input error propagates" (spec.md §4.5)
		}
		b, err := EBV(v)
		if err != nil {
			return nil, err
		}
		return rdfql.NewBoolean(!b), nil

	case algebra.OpEq, algebra.OpNeq, algebra.OpLt, algebra.OpGt, algebra.OpLe, algebra.OpGe:
		return evalCompare(ctx, e)
	case algebra.OpSameTerm:
		a, err := Eval(ctx, e.Args[0])
		if err != nil {
			return nil, err
		}
		b, err := Eval(ctx, e.Args[1])
		if err != nil {
			return nil, err
		}
		return rdfql.NewBoolean(SameTerm(a, b)), nil

	case algebra.OpPlus, algebra.OpMinus, algebra.OpMul, algebra.OpDiv:
		return evalArith(ctx, e)
	case algebra.OpUMinus:
		v, err := Eval(ctx, e.Args[0])
		if err != nil {
			return nil, err
		}
		return negate(v)

	case algebra.OpRegex:
		return evalRegex(ctx, e)
	case algebra.OpStrEq, algebra.OpStrNeq:
		return evalStrEq(ctx, e)

	case algebra.OpBound:
		v := e.Args[0]
		if v.Op != algebra.OpVar {
			return nil, &rdfql.TypeError{Op: "bound", Msg: "argument must be a variable"}
		}
		return rdfql.NewBoolean(ctx.lookup(v.Var) != nil), nil
	case algebra.OpIsURI:
		return evalIsKind(ctx, e, rdfql.KindURI)
	case algebra.OpIsBlank:
		return evalIsKind(ctx, e, rdfql.KindBlank)
	case algebra.OpIsLiteral:
		v, err := Eval(ctx, e.Args[0])
		if err != nil {
			return nil, err
		}
		r := v.Resolve()
		return rdfql.NewBoolean(r != nil && r.Kind() != rdfql.KindURI && r.Kind() != rdfql.KindBlank), nil
	case algebra.OpStr:
		v, err := Eval(ctx, e.Args[0])
		if err != nil {
			return nil, err
		}
		r := v.Resolve()
		if r == nil {
			return nil, &rdfql.TypeError{Op: "str", Msg: "unbound argument"}
		}
		return rdfql.NewXsdString(r.Lex()), nil
	case algebra.OpLang:
		v, err := Eval(ctx, e.Args[0])
		if err != nil {
			return nil, err
		}
		r := v.Resolve()
		if r == nil {
			return nil, &rdfql.TypeError{Op: "lang", Msg: "unbound argument"}
		}
		return rdfql.NewXsdString(r.Lang()), nil
	case algebra.OpDatatype:
		v, err := Eval(ctx, e.Args[0])
		if err != nil {
			return nil, err
		}
		r := v.Resolve()
		if r == nil || r.DataType() == nil {
			return nil, &rdfql.TypeError{Op: "datatype", Msg: "literal has no datatype"}
		}
		return rdfql.NewURI(r.DataType()), nil

	case algebra.OpCast:
		v, err := Eval(ctx, e.Args[0])
		if err != nil {
			return nil, err
		}
		return Cast(e.To, v)

	case algebra.OpFuncCall:
		return evalFuncCall(ctx, e)

	case algebra.OpAsc, algebra.OpDesc:
		return Eval(ctx, e.Args[0])

	default:
		return nil, &rdfql.TypeError{Op: "eval", Msg: fmt.Sprintf("unhandled operator %s", e.Op)}
	}
}

func evalAnd(ctx *Context, e *algebra.Expr) (*rdfql.Literal, error) {
	var sawErr error
	for _, a := range e.Args {
		v, err := Eval(ctx, a)
		if err != nil {
			sawErr = err
			continue
		}
		b, ebvErr := EBV(v)
		if ebvErr != nil {
			sawErr = ebvErr
			continue
		}
		if !b {
			return rdfql.NewBoolean(false), nil // "error AND false = false"
		}
	}
	if sawErr != nil {
		return nil, sawErr
	}
	return rdfql.NewBoolean(true), nil
}

func evalOr(ctx *Context, e *algebra.Expr) (*rdfql.Literal, error) {
	var sawErr error
	for _, a := range e.Args {
		v, err := Eval(ctx, a)
		if err != nil {
			sawErr = err
			continue
		}
		b, ebvErr := EBV(v)
		if ebvErr != nil {
			sawErr = ebvErr
			continue
		}
		if b {
			return rdfql.NewBoolean(true), nil // "error OR true = true"
		}
	}
	if sawErr != nil {
		return nil, sawErr
	}
	return rdfql.NewBoolean(false), nil
}

func evalCompare(ctx *Context, e *algebra.Expr) (*rdfql.Literal, error) {
	a, err := Eval(ctx, e.Args[0])
	if err != nil {
		return nil, err
	}
	b, err := Eval(ctx, e.Args[1])
	if err != nil {
		return nil, err
	}
	c, err := Compare(a, b, ctx.Flags)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case algebra.OpEq:
		return rdfql.NewBoolean(c == 0), nil
	case algebra.OpNeq:
		return rdfql.NewBoolean(c != 0), nil
	case algebra.OpLt:
		return rdfql.NewBoolean(c < 0), nil
	case algebra.OpGt:
		return rdfql.NewBoolean(c > 0), nil
	case algebra.OpLe:
		return rdfql.NewBoolean(c <= 0), nil
	case algebra.OpGe:
		return rdfql.NewBoolean(c >= 0), nil
	}
	panic("unreachable")
}

func evalArith(ctx *Context, e *algebra.Expr) (*rdfql.Literal, error) {
	a, err := Eval(ctx, e.Args[0])
	if err != nil {
		return nil, err
	}
	b, err := Eval(ctx, e.Args[1])
	if err != nil {
		return nil, err
	}
	ra, rb := a.Resolve(), b.Resolve()
	if ra == nil || rb == nil || !ra.Kind().IsNumeric() || !rb.Kind().IsNumeric() {
		return nil, &rdfql.TypeError{Op: "arith", Msg: "operands must be numeric"}
	}
	pa, pb, kind, err := Promote(ra, rb, ctx.Flags.Mode)
	if err != nil {
		return nil, err
	}

	if e.Op == algebra.OpDiv && kind == rdfql.KindInteger {
		// XPath F&O: integer division yields an exact xsd:decimal.
		if pb.IntVal() == 0 {
			return nil, &rdfql.TypeError{Op: "div", Msg: "division by zero"}
		}
		num := numericAsDecimal(pa)
		den := numericAsDecimal(pb)
		return rdfql.NewDecimal(num.DivRound(den, 18)), nil
	}

	switch kind {
	case rdfql.KindDouble:
		return arithDouble(e.Op, pa.DoubleVal(), pb.DoubleVal())
	case rdfql.KindFloat:
		r, err := arithDouble(e.Op, float64(pa.FloatVal()), float64(pb.FloatVal()))
		if err != nil {
			return nil, err
		}
		return rdfql.NewFloat(float32(r.DoubleVal())), nil
	case rdfql.KindDecimal:
		return arithDecimal(e.Op, pa.DecVal(), pb.DecVal())
	case rdfql.KindInteger:
		return arithInteger(e.Op, pa.IntVal(), pb.IntVal())
	default:
		return nil, &rdfql.TypeError{Op: "arith", Msg: "non-arithmetic promoted kind"}
	}
}

func arithDouble(op algebra.Op, a, b float64) (*rdfql.Literal, error) {
	switch op {
	case algebra.OpPlus:
		return rdfql.NewDouble(a + b), nil
	case algebra.OpMinus:
		return rdfql.NewDouble(a - b), nil
	case algebra.OpMul:
		return rdfql.NewDouble(a * b), nil
	case algebra.OpDiv:
		if b == 0 {
			return nil, &rdfql.TypeError{Op: "div", Msg: "division by zero"}
		}
		return rdfql.NewDouble(a / b), nil
	}
	panic("unreachable")
}

func arithDecimal(op algebra.Op, a, b decimal.Decimal) (*rdfql.Literal, error) {
	switch op {
	case algebra.OpPlus:
		return rdfql.NewDecimal(a.Add(b)), nil
	case algebra.OpMinus:
		return rdfql.NewDecimal(a.Sub(b)), nil
	case algebra.OpMul:
		return rdfql.NewDecimal(a.Mul(b)), nil
	case algebra.OpDiv:
		if b.IsZero() {
			return nil, &rdfql.TypeError{Op: "div", Msg: "division by zero"}
		}
		return rdfql.NewDecimal(a.DivRound(b, 18)), nil
	}
	panic("unreachable")
}

func arithInteger(op algebra.Op, a, b int64) (*rdfql.Literal, error) {
	switch op {
	case algebra.OpPlus:
		return rdfql.NewInteger(a + b), nil
	case algebra.OpMinus:
		return rdfql.NewInteger(a - b), nil
	case algebra.OpMul:
		return rdfql.NewInteger(a * b), nil
	}
	panic("unreachable")
}

func negate(v *rdfql.Literal) (*rdfql.Literal, error) {
	r := v.Resolve()
	if r == nil || !r.Kind().IsNumeric() {
		return nil, &rdfql.TypeError{Op: "uminus", Msg: "operand must be numeric"}
	}
	switch r.Kind() {
	case rdfql.KindInteger:
		return rdfql.NewInteger(-r.IntVal()), nil
	case rdfql.KindFloat:
		return rdfql.NewFloat(-r.FloatVal()), nil
	case rdfql.KindDouble:
		return rdfql.NewDouble(-r.DoubleVal()), nil
	case rdfql.KindDecimal:
		return rdfql.NewDecimal(r.DecVal().Neg()), nil
	default: // Boolean
		return rdfql.NewInteger(-int64(numericAsFloat64(r))), nil
	}
}

func evalRegex(ctx *Context, e *algebra.Expr) (*rdfql.Literal, error) {
	target, err := Eval(ctx, e.Args[0])
	if err != nil {
		return nil, err
	}
	r := target.Resolve()
	if r == nil {
		return nil, &rdfql.TypeError{Op: "regex", Msg: "unbound subject"}
	}

	re, err := ctx.compileRegex(e)
	if err != nil {
		return nil, err
	}
	return rdfql.NewBoolean(re.MatchString(r.Lex())), nil
}

// compileRegex compiles e's pattern/flags arguments once and caches the
// result for the lifetime of ctx (spec.md §4.5).
func (c *Context) compileRegex(e *algebra.Expr) (*regexp.Regexp, error) {
	if c.regexCache == nil {
		c.regexCache = map[*algebra.Expr]*regexp.Regexp{}
	}
	if re, ok := c.regexCache[e]; ok {
		return re, nil
	}
	patLit, err := Eval(c, e.Args[1])
	if err != nil {
		return nil, err
	}
	pattern := patLit.Resolve().Lex()
	flags := ""
	if len(e.Args) > 2 {
		fl, err := Eval(c, e.Args[2])
		if err != nil {
			return nil, err
		}
		flags = fl.Resolve().Lex()
	}
	goPattern := pattern
	if strings.Contains(flags, "i") {
		goPattern = "(?i)" + goPattern
	}
	if strings.Contains(flags, "s") {
		goPattern = "(?s)" + goPattern
	}
	if strings.Contains(flags, "m") {
		goPattern = "(?m)" + goPattern
	}
	re, err := regexp.Compile(goPattern)
	if err != nil {
		return nil, &rdfql.TypeError{Op: "regex", Msg: err.Error()}
	}
	c.regexCache[e] = re
	return re, nil
}

func evalStrEq(ctx *Context, e *algebra.Expr) (*rdfql.Literal, error) {
	a, err := Eval(ctx, e.Args[0])
	if err != nil {
		return nil, err
	}
	b, err := Eval(ctx, e.Args[1])
	if err != nil {
		return nil, err
	}
	ra, rb := a.Resolve(), b.Resolve()
	if ra == nil || rb == nil {
		return nil, &rdfql.TypeError{Op: "streq", Msg: "unbound operand"}
	}
	eq := ra.Lex() == rb.Lex()
	if e.Op == algebra.OpStrNeq {
		eq = !eq
	}
	return rdfql.NewBoolean(eq), nil
}

func evalIsKind(ctx *Context, e *algebra.Expr, kind rdfql.Kind) (*rdfql.Literal, error) {
	v, err := Eval(ctx, e.Args[0])
	if err != nil {
		return nil, err
	}
	r := v.Resolve()
	return rdfql.NewBoolean(r != nil && r.Kind() == kind), nil
}

func evalFuncCall(ctx *Context, e *algebra.Expr) (*rdfql.Literal, error) {
	fn, ok := ctx.Funcs[e.Fn.Value()]
	if !ok {
		return nil, &rdfql.TypeError{Op: "funcall", Msg: "unknown function " + e.Fn.Value()}
	}
	args := make([]*rdfql.Literal, len(e.Args))
	for i, a := range e.Args {
		v, err := Eval(ctx, a)
		if err != nil {
			return nil, err
		}
		args[i] = v.Resolve()
	}
	return fn(ctx, args)
}
