package eval_test

import (
	"testing"

	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/algebra"
	"github.com/knakk/rdfql/eval"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCompareIntegerVsDouble(t *testing.T) {
	// scenario 2 of spec.md §8: "42"^^xsd:integer compared with
	// "42.0"^^xsd:double under XQuery flags: equal, compare=0.
	a := rdfql.NewInteger(42)
	b := rdfql.NewDouble(42.0)

	c, err := eval.Compare(a, b, eval.DefaultFlags)
	require.NoError(t, err)
	require.Equal(t, 0, c)

	eq, err := eval.ValueEqual(a, b, eval.DefaultFlags)
	require.NoError(t, err)
	require.True(t, eq)
}

func TestCompareIsAntisymmetric(t *testing.T) {
	// invariant: compare(a,b) == -compare(b,a)
	pairs := [][2]*rdfql.Literal{
		{rdfql.NewInteger(1), rdfql.NewInteger(2)},
		{rdfql.NewDouble(1.5), rdfql.NewInteger(2)},
		{rdfql.NewDecimal(decimal.NewFromFloat(3.14)), rdfql.NewDouble(3.14)},
	}
	for _, p := range pairs {
		ab, err := eval.Compare(p[0], p[1], eval.DefaultFlags)
		require.NoError(t, err)
		ba, err := eval.Compare(p[1], p[0], eval.DefaultFlags)
		require.NoError(t, err)
		require.Equal(t, ab, -ba)
	}
}

func TestLanguageTagCompareCaseInsensitive(t *testing.T) {
	// scenario 3: FILTER (?x = "abc"@EN) against ?x = "abc"@en passes.
	a := rdfql.NewPlainString("abc", "en")
	b := rdfql.NewPlainString("abc", "EN")
	eq, err := eval.ValueEqual(a, b, eval.DefaultFlags)
	require.NoError(t, err)
	require.True(t, eq)
}

func TestSameTermRequiresExactDatatype(t *testing.T) {
	a := rdfql.NewTyped("42", "", rdfql.XSDInteger)
	b := rdfql.NewTyped("42", "", rdfql.XSDDouble)
	require.False(t, eval.SameTerm(a, b))
	require.True(t, eval.SameTerm(a, rdfql.NewTyped("42", "", rdfql.XSDInteger)))
}

func TestEBV(t *testing.T) {
	cases := []struct {
		name string
		lit  *rdfql.Literal
		want bool
		err  bool
	}{
		{"unbound", nil, false, false},
		{"true", rdfql.NewBoolean(true), true, false},
		{"false", rdfql.NewBoolean(false), false, false},
		{"empty string", rdfql.NewXsdString(""), false, false},
		{"non-empty string", rdfql.NewXsdString("x"), true, false},
		{"zero int", rdfql.NewInteger(0), false, false},
		{"nonzero int", rdfql.NewInteger(7), true, false},
		{"uri is type error", rdfql.NewURI(rdfql.NewIRI("http://example/")), false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := eval.EBV(c.lit)
			if c.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.want, got)
		})
	}
}

func TestEBVIdempotent(t *testing.T) {
	l := rdfql.NewInteger(5)
	a, errA := eval.EBV(l)
	b, errB := eval.EBV(l)
	require.NoError(t, errA)
	require.NoError(t, errB)
	require.Equal(t, a, b)
}

func TestBoundFunction(t *testing.T) {
	vars := rdfql.NewVariablesTable()
	o := vars.Intern("o")

	row := rdfql.NewRow(rdfql.NewSchema([]string{"s", "o"}))
	row.Set("s", rdfql.NewURI(rdfql.NewIRI("http://example/bob")))
	// o left unbound

	ctx := eval.NewContext(row, vars)
	boundExpr := algebra.New(algebra.OpBound, algebra.NewVar(o))
	result, err := eval.Eval(ctx, boundExpr)
	require.NoError(t, err)
	require.False(t, result.BoolVal())
}

func TestDivideByZeroIsError(t *testing.T) {
	vars := rdfql.NewVariablesTable()
	ctx := eval.NewContext(nil, vars)
	e := algebra.New(algebra.OpDiv, algebra.NewLiteral(rdfql.NewDouble(1)), algebra.NewLiteral(rdfql.NewDouble(0)))
	_, err := eval.Eval(ctx, e)
	require.Error(t, err)
}

func TestIntegerDivisionYieldsExactDecimal(t *testing.T) {
	vars := rdfql.NewVariablesTable()
	ctx := eval.NewContext(nil, vars)
	e := algebra.New(algebra.OpDiv, algebra.NewLiteral(rdfql.NewInteger(1)), algebra.NewLiteral(rdfql.NewInteger(3)))
	result, err := eval.Eval(ctx, e)
	require.NoError(t, err)
	require.Equal(t, rdfql.KindDecimal, result.Kind())
}

func TestRegexReevaluatesConsistently(t *testing.T) {
	// The regex cache (keyed by expression instance, spec.md §4.5) is an
	// internal optimization; what's externally observable is that
	// repeated evaluation of the same expression against different rows
	// keeps producing correct results.
	vars := rdfql.NewVariablesTable()
	ctx := eval.NewContext(nil, vars)
	pattern := algebra.NewLiteral(rdfql.NewXsdString("^h"))
	e := algebra.New(algebra.OpRegex, algebra.NewLiteral(rdfql.NewXsdString("hello")), pattern)

	for i := 0; i < 3; i++ {
		v, err := eval.Eval(ctx, e)
		require.NoError(t, err)
		require.True(t, v.BoolVal())
	}
}
