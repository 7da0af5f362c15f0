package exec_test

import (
	"testing"

	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/algebra"
	"github.com/knakk/rdfql/eval"
	"github.com/knakk/rdfql/exec"
	"github.com/knakk/rdfql/store"
	"github.com/stretchr/testify/require"
)

func u(s string) *rdfql.Literal { return rdfql.NewURI(rdfql.NewIRI(s)) }

const rdfTypeURI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
const foafPersonURI = "http://xmlns.com/foaf/0.1/Person"

// TestScenario1SingleTripleMatch reproduces spec.md §8 scenario 1: a
// single-triple pattern over a dataset with exactly one matching fact
// yields one row, then ReadRow reports end-of-stream.
func TestScenario1SingleTripleMatch(t *testing.T) {
	vars := rdfql.NewVariablesTable()
	ms := store.NewMemStore()
	bob := u("http://example/bob")
	ms.Add(rdfql.Triple{Subj: bob, Pred: u(rdfTypeURI), Obj: u(foafPersonURI)})

	person := vars.Intern("person")
	pattern := rdfql.Triple{Subj: rdfql.NewVariableRef(person), Pred: u(rdfTypeURI), Obj: u(foafPersonURI)}
	rs := exec.NewTriplesMatch(pattern, ms)
	require.NoError(t, rs.Init())
	defer rs.Finish()

	row, err := rs.ReadRow()
	require.NoError(t, err)
	require.NotNil(t, row)
	require.Equal(t, "http://example/bob", row.Get("person").Lex())

	row2, err := rs.ReadRow()
	require.NoError(t, err)
	require.Nil(t, row2)
}

// TestReadAllRowsEqualsSuccessiveReadRow covers spec.md §8's invariant:
// ReadAllRows after Init equals the concatenation of successive ReadRow
// calls until nil.
func TestReadAllRowsEqualsSuccessiveReadRow(t *testing.T) {
	vars := rdfql.NewVariablesTable()
	ms := store.NewMemStore()
	ms.Add(rdfql.Triple{Subj: u("http://a/1"), Pred: u("http://p/"), Obj: u("http://o/1")})
	ms.Add(rdfql.Triple{Subj: u("http://a/2"), Pred: u("http://p/"), Obj: u("http://o/2")})

	s := vars.Intern("s")
	o := vars.Intern("o")
	pattern := rdfql.Triple{Subj: rdfql.NewVariableRef(s), Pred: u("http://p/"), Obj: rdfql.NewVariableRef(o)}

	one := exec.NewTriplesMatch(pattern, ms)
	require.NoError(t, one.Init())
	var viaLoop []*rdfql.Row
	for {
		row, err := one.ReadRow()
		require.NoError(t, err)
		if row == nil {
			break
		}
		viaLoop = append(viaLoop, row)
	}
	one.Finish()

	two := exec.NewTriplesMatch(pattern, ms)
	require.NoError(t, two.Init())
	viaAll, err := two.ReadAllRows()
	require.NoError(t, err)
	two.Finish()

	require.Equal(t, len(viaLoop), len(viaAll))
	for i := range viaLoop {
		require.Equal(t, viaLoop[i].Get("s").Lex(), viaAll[i].Get("s").Lex())
	}
}

// TestJoinMergesCompatibleRows exercises the nested-loop Join: two
// triple patterns sharing ?s produce one merged row per compatible pair.
func TestJoinMergesCompatibleRows(t *testing.T) {
	vars := rdfql.NewVariablesTable()
	ms := store.NewMemStore()
	bob := u("http://example/bob")
	ms.Add(rdfql.Triple{Subj: bob, Pred: u(rdfTypeURI), Obj: u(foafPersonURI)})
	ms.Add(rdfql.Triple{Subj: bob, Pred: u("http://xmlns.com/foaf/0.1/name"), Obj: rdfql.NewXsdString("Bob")})

	s := vars.Intern("s")
	name := vars.Intern("name")
	p1 := rdfql.Triple{Subj: rdfql.NewVariableRef(s), Pred: u(rdfTypeURI), Obj: u(foafPersonURI)}
	p2 := rdfql.Triple{Subj: rdfql.NewVariableRef(s), Pred: u("http://xmlns.com/foaf/0.1/name"), Obj: rdfql.NewVariableRef(name)}

	join := exec.NewJoin(exec.NewTriplesMatch(p1, ms), exec.NewTriplesMatch(p2, ms))
	require.NoError(t, join.Init())
	defer join.Finish()

	row, err := join.ReadRow()
	require.NoError(t, err)
	require.NotNil(t, row)
	require.Equal(t, "http://example/bob", row.Get("s").Lex())
	require.Equal(t, "Bob", row.Get("name").Lex())

	row2, err := join.ReadRow()
	require.NoError(t, err)
	require.Nil(t, row2)
}

// TestScenario4OptionalUnboundFilteredOut reproduces spec.md §8 scenario
// 4: OPTIONAL { ?s :p ?o } FILTER(bound(?o)) over a row with ?s bound but
// no :p match — the OPTIONAL emits ?o unbound, the FILTER drops it.
func TestScenario4OptionalUnboundFilteredOut(t *testing.T) {
	vars := rdfql.NewVariablesTable()
	ms := store.NewMemStore()
	alice := u("http://example/alice")
	ms.Add(rdfql.Triple{Subj: alice, Pred: u(rdfTypeURI), Obj: u(foafPersonURI)})
	// No :p triple for alice exists.

	s := vars.Intern("s")
	o := vars.Intern("o")
	outer := exec.NewTriplesMatch(rdfql.Triple{Subj: rdfql.NewVariableRef(s), Pred: u(rdfTypeURI), Obj: u(foafPersonURI)}, ms)
	inner := exec.NewTriplesMatch(rdfql.Triple{Subj: rdfql.NewVariableRef(s), Pred: u("http://example/p"), Obj: rdfql.NewVariableRef(o)}, ms)
	lj := exec.NewLeftJoin(outer, inner, nil, vars)
	require.NoError(t, lj.Init())

	row, err := lj.ReadRow()
	require.NoError(t, err)
	require.NotNil(t, row)
	require.Equal(t, "http://example/alice", row.Get("s").Lex())
	require.Nil(t, row.Get("o"))
	lj.Finish()

	// Now the FILTER(bound(?o)) atop it.
	outer2 := exec.NewTriplesMatch(rdfql.Triple{Subj: rdfql.NewVariableRef(s), Pred: u(rdfTypeURI), Obj: u(foafPersonURI)}, ms)
	inner2 := exec.NewTriplesMatch(rdfql.Triple{Subj: rdfql.NewVariableRef(s), Pred: u("http://example/p"), Obj: rdfql.NewVariableRef(o)}, ms)
	lj2 := exec.NewLeftJoin(outer2, inner2, nil, vars)
	boundExpr := algebra.New(algebra.OpBound, algebra.NewVar(o))
	filtered := exec.NewFilter(lj2, []*algebra.Expr{boundExpr}, vars)
	require.NoError(t, filtered.Init())
	defer filtered.Finish()

	dropped, err := filtered.ReadRow()
	require.NoError(t, err)
	require.Nil(t, dropped)
}

// TestDistinctSuppressesValueEqualRows covers spec.md §8's invariant:
// Distinct output contains no two rows that compare value-equal.
func TestDistinctSuppressesValueEqualRows(t *testing.T) {
	vars := rdfql.NewVariablesTable()
	schema := rdfql.NewSchema([]string{"x"})
	r1 := rdfql.NewRow(schema)
	r1.Set("x", rdfql.NewInteger(1))
	r2 := rdfql.NewRow(schema)
	r2.Set("x", rdfql.NewInteger(1))
	r3 := rdfql.NewRow(schema)
	r3.Set("x", rdfql.NewInteger(2))

	seq := exec.NewRowSequence(schema, []*rdfql.Row{r1, r2, r3})
	d := exec.NewDistinct(seq)
	require.NoError(t, d.Init())
	defer d.Finish()

	rows, err := d.ReadAllRows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	_ = vars
}

// TestDistinctSuppressesValueEqualRowsAcrossLexicalForms covers the same
// spec.md §8 invariant for bindings that are value-equal under promotion
// but lexically distinct: "1"^^xsd:integer and "1.0"^^xsd:double compare
// equal (Compare via numeric promotion), so Distinct must key on value,
// not on Literal.String().
func TestDistinctSuppressesValueEqualRowsAcrossLexicalForms(t *testing.T) {
	schema := rdfql.NewSchema([]string{"x"})
	r1 := rdfql.NewRow(schema)
	r1.Set("x", rdfql.NewInteger(1))
	r2 := rdfql.NewRow(schema)
	r2.Set("x", rdfql.NewDouble(1.0))
	r3 := rdfql.NewRow(schema)
	r3.Set("x", rdfql.NewDouble(2.0))

	seq := exec.NewRowSequence(schema, []*rdfql.Row{r1, r2, r3})
	d := exec.NewDistinct(seq)
	require.NoError(t, d.Init())
	defer d.Finish()

	rows, err := d.ReadAllRows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, rdfql.KindInteger, rows[0].Get("x").Kind())
	require.Equal(t, rdfql.KindDouble, rows[1].Get("x").Kind())
}

// TestExtendDropsRowWhenTargetAlreadyBound covers spec.md §4.7's BIND
// text literally: a row in which the target variable is already bound to
// a non-null value is dropped, not passed through unchanged.
func TestExtendDropsRowWhenTargetAlreadyBound(t *testing.T) {
	vars := rdfql.NewVariablesTable()
	schema := rdfql.NewSchema([]string{"x"})
	unbound := rdfql.NewRow(schema)
	bound := rdfql.NewRow(schema)
	bound.Set("x", rdfql.NewInteger(99))

	seq := exec.NewRowSequence(schema, []*rdfql.Row{unbound, bound})
	expr := algebra.NewLiteral(rdfql.NewInteger(1))
	ext := exec.NewExtend(seq, "x", expr, vars)
	require.NoError(t, ext.Init())
	defer ext.Finish()

	rows, err := ext.ReadAllRows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, int64(1), rows[0].Get("x").IntVal())
}

// TestSortIsStablePermutationOfInput covers spec.md §8's Sort invariant:
// output is sorted and a permutation of the input.
func TestSortIsStablePermutationOfInput(t *testing.T) {
	vars := rdfql.NewVariablesTable()
	x := vars.Intern("x")
	schema := rdfql.NewSchema([]string{"x"})
	values := []int64{3, 1, 2}
	rows := make([]*rdfql.Row, len(values))
	for i, v := range values {
		r := rdfql.NewRow(schema)
		r.Set("x", rdfql.NewInteger(v))
		rows[i] = r
	}
	seq := exec.NewRowSequence(schema, rows)
	order := []algebra.OrderCondition{{Key: algebra.NewVar(x)}}
	s := exec.NewSort(seq, order, vars, eval.DefaultFlags)
	require.NoError(t, s.Init())
	defer s.Finish()

	out, err := s.ReadAllRows()
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Equal(t, int64(1), out[0].Get("x").IntVal())
	require.Equal(t, int64(2), out[1].Get("x").IntVal())
	require.Equal(t, int64(3), out[2].Get("x").IntVal())
}

// TestScenario5LimitZeroYieldsEmptyCursor reproduces spec.md §8 scenario
// 5: LIMIT 0 yields an empty sequence, cursor immediately finished.
func TestScenario5LimitZeroYieldsEmptyCursor(t *testing.T) {
	vars := rdfql.NewVariablesTable()
	ms := store.NewMemStore()
	ms.Add(rdfql.Triple{Subj: u("http://a/"), Pred: u("http://p/"), Obj: u("http://o/")})

	s := vars.Intern("s")
	o := vars.Intern("o")
	tm := exec.NewTriplesMatch(rdfql.Triple{Subj: rdfql.NewVariableRef(s), Pred: u("http://p/"), Obj: rdfql.NewVariableRef(o)}, ms)
	sl := exec.NewSlice(tm, 0, 0)
	require.NoError(t, sl.Init())
	defer sl.Finish()

	row, err := sl.ReadRow()
	require.NoError(t, err)
	require.Nil(t, row)
}

// TestSliceIsInputOffsetLimit covers spec.md §8's Slice invariant:
// Slice(offset=O, limit=L) output is input[O..O+L].
func TestSliceIsInputOffsetLimit(t *testing.T) {
	schema := rdfql.NewSchema([]string{"x"})
	rows := make([]*rdfql.Row, 5)
	for i := range rows {
		r := rdfql.NewRow(schema)
		r.Set("x", rdfql.NewInteger(int64(i)))
		rows[i] = r
	}
	seq := exec.NewRowSequence(schema, rows)
	sl := exec.NewSlice(seq, 1, 2)
	require.NoError(t, sl.Init())
	defer sl.Finish()

	out, err := sl.ReadAllRows()
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, int64(1), out[0].Get("x").IntVal())
	require.Equal(t, int64(2), out[1].Get("x").IntVal())
}
