package store_test

import (
	"testing"

	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/store"
	"github.com/stretchr/testify/require"
)

func uri(s string) *rdfql.Literal { return rdfql.NewURI(rdfql.NewIRI(s)) }

func TestMemStoreTriplePresent(t *testing.T) {
	ms := store.NewMemStore()
	bob := uri("http://example/bob")
	rdfType := uri("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")
	person := uri("http://xmlns.com/foaf/0.1/Person")
	ms.Add(rdfql.Triple{Subj: bob, Pred: rdfType, Obj: person})

	present, err := ms.TriplePresent(rdfql.Triple{Subj: bob, Pred: rdfType, Obj: person})
	require.NoError(t, err)
	require.True(t, present)

	present, err = ms.TriplePresent(rdfql.Triple{Subj: bob, Pred: rdfType, Obj: uri("http://xmlns.com/foaf/0.1/Agent")})
	require.NoError(t, err)
	require.False(t, present)
}

func TestMemStoreNewMatchBindsVariableSlots(t *testing.T) {
	vars := rdfql.NewVariablesTable()
	ms := store.NewMemStore()
	bob := uri("http://example/bob")
	rdfType := uri("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")
	person := uri("http://xmlns.com/foaf/0.1/Person")
	ms.Add(rdfql.Triple{Subj: bob, Pred: rdfType, Obj: person})

	pv := vars.Intern("person")
	pattern := rdfql.Triple{Subj: rdfql.NewVariableRef(pv), Pred: rdfType, Obj: person}
	cur, err := ms.NewMatch(pattern)
	require.NoError(t, err)
	defer cur.Finish()

	mask, end, err := cur.BindNext()
	require.NoError(t, err)
	require.False(t, end)
	require.Equal(t, rdfql.BoundSubj, mask)
	require.Equal(t, "http://example/bob", cur.Current().Subj.Lex())

	_, end, err = cur.BindNext()
	require.NoError(t, err)
	require.True(t, end)
}

func TestMemStoreAddResourceMintsDistinctBlankSubjects(t *testing.T) {
	ms := store.NewMemStore()
	rdfType := uri("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")
	person := uri("http://xmlns.com/foaf/0.1/Person")

	r1 := ms.AddResource(rdfType, person)
	r2 := ms.AddResource(rdfType, person)
	require.Equal(t, rdfql.KindBlank, r1.Kind())
	require.NotEqual(t, r1.BlankID(), r2.BlankID())

	present, err := ms.TriplePresent(rdfql.Triple{Subj: r1, Pred: rdfType, Obj: person})
	require.NoError(t, err)
	require.True(t, present)
}

func TestMemStoreNoMatchYieldsImmediateEnd(t *testing.T) {
	ms := store.NewMemStore()
	cur, err := ms.NewMatch(rdfql.Triple{Subj: uri("http://nothing/"), Pred: uri("http://p/"), Obj: uri("http://o/")})
	require.NoError(t, err)
	defer cur.Finish()

	_, end, err := cur.BindNext()
	require.NoError(t, err)
	require.True(t, end)
}
