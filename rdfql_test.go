package rdfql_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/knakk/rdfql"
)

func TestLiteralRetainReleaseCatchesDoubleRelease(t *testing.T) {
	l := rdfql.NewXsdString("hello")
	l.Retain()
	l.Release()
	l.Release()
	require.Panics(t, func() { l.Release() })
}

func TestKindOrderingMatchesSpecInvariant(t *testing.T) {
	require.True(t, rdfql.KindBlank < rdfql.KindURI)
	require.True(t, rdfql.KindURI < rdfql.KindPlainString)
	require.True(t, rdfql.KindPlainString < rdfql.KindXsdString)
	require.True(t, rdfql.KindXsdString < rdfql.KindBoolean)
	require.True(t, rdfql.KindBoolean < rdfql.KindInteger)
	require.True(t, rdfql.KindInteger < rdfql.KindFloat)
	require.True(t, rdfql.KindFloat < rdfql.KindDouble)
	require.True(t, rdfql.KindDouble < rdfql.KindDecimal)
	require.True(t, rdfql.KindDecimal < rdfql.KindDate)
	require.True(t, rdfql.KindDate < rdfql.KindDateTime)
	require.True(t, rdfql.KindDateTime < rdfql.KindUDT)
	require.True(t, rdfql.KindUDT < rdfql.KindPattern)
	require.True(t, rdfql.KindPattern < rdfql.KindQName)
	require.True(t, rdfql.KindQName < rdfql.KindVariable)
}

func TestIsNumericRangeMatchesPromotionScan(t *testing.T) {
	numeric := []rdfql.Kind{rdfql.KindBoolean, rdfql.KindInteger, rdfql.KindFloat, rdfql.KindDouble, rdfql.KindDecimal}
	for _, k := range numeric {
		require.Truef(t, k.IsNumeric(), "%s should be numeric", k)
	}
	nonNumeric := []rdfql.Kind{rdfql.KindBlank, rdfql.KindURI, rdfql.KindPlainString, rdfql.KindDate, rdfql.KindDateTime, rdfql.KindQName, rdfql.KindVariable}
	for _, k := range nonNumeric {
		require.Falsef(t, k.IsNumeric(), "%s should not be numeric", k)
	}
}

func TestNewTypedValidatesAgainstDatatypeFallingBackToUDT(t *testing.T) {
	ok := rdfql.NewTyped("42", "", rdfql.XSDInteger)
	require.Equal(t, rdfql.KindInteger, ok.Kind())
	require.Equal(t, int64(42), ok.IntVal())
	require.True(t, ok.Valid())

	bad := rdfql.NewTyped("not-a-bool", "", rdfql.XSDBoolean)
	require.Equal(t, rdfql.KindUDT, bad.Kind())
	require.False(t, bad.Valid())
}

func TestNewTypedDropsLangWhenDatatypeGiven(t *testing.T) {
	l := rdfql.NewTyped("hello", "en", rdfql.XSDString)
	require.Equal(t, rdfql.KindXsdString, l.Kind())
	require.Equal(t, "", l.Lang())
}

func TestNewIntegerFromLexDemotesOverflowToDecimal(t *testing.T) {
	l := rdfql.NewTyped("99999999999999999999999999", "", rdfql.XSDInteger)
	require.Equal(t, rdfql.KindDecimal, l.Kind())
	require.Equal(t, rdfql.XSDInteger, l.DataType())
}

func TestSchemaUnionPreservesOrderAndDedups(t *testing.T) {
	a := rdfql.NewSchema([]string{"x", "y"})
	b := rdfql.NewSchema([]string{"y", "z"})
	u := rdfql.Union(a, b)
	require.Equal(t, []string{"x", "y", "z"}, u.Names())
}

func TestRowGetSetAndProject(t *testing.T) {
	schema := rdfql.NewSchema([]string{"x", "y"})
	row := rdfql.NewRow(schema)
	require.Nil(t, row.Get("x"))

	v := rdfql.NewInteger(7)
	require.True(t, row.Set("y", v))
	require.False(t, row.Set("nope", v))
	require.Equal(t, v, row.Get("y"))

	target := rdfql.NewSchema([]string{"y", "z"})
	projected := row.Project(target)
	require.Equal(t, v, projected.Get("y"))
	require.Nil(t, projected.Get("z"))
}

func TestRowCloneIsIndependentSliceSharedLiterals(t *testing.T) {
	schema := rdfql.NewSchema([]string{"x"})
	row := rdfql.NewRow(schema)
	v := rdfql.NewInteger(1)
	row.Set("x", v)

	clone := row.Clone()
	clone.Set("x", rdfql.NewInteger(2))
	require.Equal(t, v, row.Get("x"))
	require.NotEqual(t, row.Get("x"), clone.Get("x"))
}

func TestVariablesTableInternIsIdempotent(t *testing.T) {
	vt := rdfql.NewVariablesTable()
	a := vt.Intern("x")
	b := vt.Intern("x")
	require.Same(t, a, b)
	require.Equal(t, 1, vt.Len())
}

func TestVariablesTableNewAnonymousAvoidsCollision(t *testing.T) {
	vt := rdfql.NewVariablesTable()
	a := vt.NewAnonymous("b0")
	b := vt.NewAnonymous("b0")
	require.NotEqual(t, a.Name, b.Name)
	require.Equal(t, rdfql.VariableAnonymous, a.Kind)
}

func TestVariablesTableResetClearsBindings(t *testing.T) {
	vt := rdfql.NewVariablesTable()
	v := vt.Intern("x")
	v.Value = rdfql.NewInteger(1)
	vt.Reset()
	require.Nil(t, vt.Lookup("x").Value)
}

func TestLiteralResolveFollowsVariableIndirection(t *testing.T) {
	v := &rdfql.Variable{Name: "x"}
	ref := rdfql.NewVariableRef(v)
	require.Nil(t, ref.Resolve())

	v.Value = rdfql.NewInteger(5)
	require.Equal(t, v.Value, ref.Resolve())
}

func TestTripleBoundMaskAndIsPattern(t *testing.T) {
	vt := rdfql.NewVariablesTable()
	s := rdfql.NewURI(rdfql.NewIRI("http://example/bob"))
	p := rdfql.NewURI(rdfql.NewIRI("http://example/knows"))
	o := rdfql.NewVariableRef(vt.Intern("friend"))

	tr := rdfql.Triple{Subj: s, Pred: p, Obj: o}
	require.True(t, tr.IsPattern())
	require.Equal(t, rdfql.BoundSubj|rdfql.BoundPred, tr.BoundMask())
}

func TestWorldInternIRIReturnsSharedPointer(t *testing.T) {
	w := rdfql.NewWorld()
	a := w.InternIRI("http://example/p")
	b := w.InternIRI("http://example/p")
	require.Same(t, a, b)
}

func TestWorldLogHandlerReceivesSeverity(t *testing.T) {
	var got rdfql.Severity
	var gotErr error
	w := &rdfql.World{LogHandler: func(sev rdfql.Severity, err error) {
		got = sev
		gotErr = err
	}}
	err := &rdfql.DataError{Msg: "boom"}
	w.LogHandler(rdfql.Warning, err)
	require.Equal(t, rdfql.Warning, got)
	require.Equal(t, err, gotErr)
}

func TestIoErrorUnwraps(t *testing.T) {
	cause := &rdfql.DataError{Msg: "bad"}
	wrapped := rdfql.NewIoError("reading fixture", cause)
	require.ErrorContains(t, wrapped, "reading fixture")
	var de *rdfql.DataError
	require.ErrorAs(t, wrapped, &de)
}
