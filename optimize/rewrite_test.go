package optimize_test

import (
	"testing"

	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/algebra"
	"github.com/knakk/rdfql/optimize"
	"github.com/stretchr/testify/require"
)

func varTriple(s, p, o string, vars *rdfql.VariablesTable) rdfql.Triple {
	return rdfql.Triple{
		Subj: rdfql.NewURI(rdfql.NewIRI(s)),
		Pred: rdfql.NewURI(rdfql.NewIRI(p)),
		Obj:  rdfql.NewVariableRef(vars.Intern(o)),
	}
}

func TestFlattenNestedGroups(t *testing.T) {
	vars := rdfql.NewVariablesTable()
	inner := algebra.NewBasic(varTriple("http://a/", "http://p/", "o", vars))
	nested := algebra.NewGroup(algebra.NewGroup(inner))

	out, err := optimize.Rewrite(nested, nil)
	require.NoError(t, err)
	require.Equal(t, algebra.PatternBasic, out.Kind)
}

func TestCollapseSingleChildGroup(t *testing.T) {
	vars := rdfql.NewVariablesTable()
	basic := algebra.NewBasic(varTriple("http://a/", "http://p/", "o", vars))
	group := algebra.NewGroup(basic)

	out, err := optimize.Rewrite(group, nil)
	require.NoError(t, err)
	require.Same(t, basic, out)
}

func TestLiftFiltersOntoGroup(t *testing.T) {
	vars := rdfql.NewVariablesTable()
	o := vars.Intern("o")
	basic := algebra.NewBasic(varTriple("http://a/", "http://p/", "o", vars))
	filter := algebra.New(algebra.OpBound, algebra.NewVar(o))
	basic.AddFilter(filter)
	// A second child keeps the Group from collapsing back onto Basic,
	// so the lift is externally observable.
	other := algebra.NewBasic(varTriple("http://b/", "http://p/", "o", vars))
	group := algebra.NewGroup(basic, other)

	out, err := optimize.Rewrite(group, nil)
	require.NoError(t, err)
	require.Equal(t, algebra.PatternGroup, out.Kind)
	require.Len(t, out.Filters, 1)
	require.Len(t, out.Children[0].Filters, 0)
}

func TestGraphPushesDownOntoTripleOrigin(t *testing.T) {
	vars := rdfql.NewVariablesTable()
	basic := algebra.NewBasic(varTriple("http://a/", "http://p/", "o", vars))
	g := rdfql.NewURI(rdfql.NewIRI("http://graph/1"))
	graph := algebra.NewGraph(g, basic)

	out, err := optimize.Rewrite(graph, nil)
	require.NoError(t, err)
	require.Equal(t, algebra.PatternGraph, out.Kind)
	require.True(t, out.Child.Triples[0].Origin.DataType().Eq(g.DataType()))
}

func TestExpandQNameResolvesViaPrefixMap(t *testing.T) {
	vars := rdfql.NewVariablesTable()
	triple := rdfql.Triple{
		Subj: rdfql.NewURI(rdfql.NewIRI("http://a/")),
		Pred: rdfql.NewQName("foaf", "name"),
		Obj:  rdfql.NewVariableRef(vars.Intern("o")),
	}
	basic := algebra.NewBasic(triple)

	out, err := optimize.Rewrite(basic, map[string]string{"foaf": "http://xmlns.com/foaf/0.1/"})
	require.NoError(t, err)
	require.Equal(t, rdfql.KindURI, out.Triples[0].Pred.Kind())
	require.Equal(t, "http://xmlns.com/foaf/0.1/name", out.Triples[0].Pred.Lex())
}

func TestExpandQNameFailsOnUnknownPrefix(t *testing.T) {
	triple := rdfql.Triple{
		Subj: rdfql.NewURI(rdfql.NewIRI("http://a/")),
		Pred: rdfql.NewQName("dc", "title"),
		Obj:  rdfql.NewURI(rdfql.NewIRI("http://b/")),
	}
	basic := algebra.NewBasic(triple)

	_, err := optimize.Rewrite(basic, map[string]string{})
	require.Error(t, err)
}

func TestRewriteNeverReordersTriples(t *testing.T) {
	vars := rdfql.NewVariablesTable()
	t1 := varTriple("http://a/", "http://p1/", "o1", vars)
	t2 := varTriple("http://b/", "http://p2/", "o2", vars)
	basic := algebra.NewBasic(t1, t2)

	out, err := optimize.Rewrite(basic, nil)
	require.NoError(t, err)
	require.Equal(t, t1.Subj.Lex(), out.Triples[0].Subj.Lex())
	require.Equal(t, t2.Subj.Lex(), out.Triples[1].Subj.Lex())
}
