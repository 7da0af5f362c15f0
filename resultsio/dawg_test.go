package resultsio_test

import (
	"sort"
	"testing"

	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/resultsio"
	"github.com/stretchr/testify/require"
)

// TestRoundTripScenario6 reproduces spec.md §8 scenario 6: write a
// bindings cursor as the RDF-results format, read it back via the
// RDF-results row source; the resulting rows compare equal as
// literal-sequences in some order.
func TestRoundTripScenario6(t *testing.T) {
	vars := []string{"s", "o"}
	schema := rdfql.NewSchema(vars)
	r1 := rdfql.NewRow(schema)
	r1.Set("s", rdfql.NewURI(rdfql.NewIRI("http://example/bob")))
	r1.Set("o", rdfql.NewXsdString("hello"))
	r2 := rdfql.NewRow(schema)
	r2.Set("s", rdfql.NewURI(rdfql.NewIRI("http://example/alice")))
	// o left unbound

	triples := resultsio.WriteResultSet(vars, []*rdfql.Row{r1, r2})
	require.NotEmpty(t, triples)

	gotVars, gotRows, err := resultsio.ReadResultSet(triples)
	require.NoError(t, err)
	require.ElementsMatch(t, vars, gotVars)
	require.Len(t, gotRows, 2)

	render := func(r *rdfql.Row) string {
		var parts []string
		for _, name := range vars {
			v := r.Get(name)
			if v == nil {
				parts = append(parts, name+"=unbound")
			} else {
				parts = append(parts, name+"="+v.String())
			}
		}
		sort.Strings(parts)
		out := ""
		for _, p := range parts {
			out += p + ";"
		}
		return out
	}

	want := map[string]bool{render(r1): true, render(r2): true}
	got := map[string]bool{render(gotRows[0]): true, render(gotRows[1]): true}
	require.Equal(t, want, got)
}

func TestRoundTripPreservesOrderViaIndex(t *testing.T) {
	vars := []string{"n"}
	schema := rdfql.NewSchema(vars)
	rows := make([]*rdfql.Row, 5)
	for i := range rows {
		r := rdfql.NewRow(schema)
		r.Set("n", rdfql.NewInteger(int64(i)))
		rows[i] = r
	}

	triples := resultsio.WriteResultSet(vars, rows)
	// Shuffle the triples to simulate an unordered transport.
	shuffled := make([]rdfql.Triple, len(triples))
	for i, t := range triples {
		shuffled[len(triples)-1-i] = t
	}

	_, gotRows, err := resultsio.ReadResultSet(shuffled)
	require.NoError(t, err)
	require.Len(t, gotRows, 5)
	for i, r := range gotRows {
		require.Equal(t, int64(i), r.Get("n").IntVal())
	}
}

func TestNTFormatterRoundTrip(t *testing.T) {
	f, ok := resultsio.Default.Lookup("application/n-triples")
	require.True(t, ok)

	vars := []string{"x"}
	schema := rdfql.NewSchema(vars)
	row := rdfql.NewRow(schema)
	row.Set("x", rdfql.NewInteger(7))
	triples := resultsio.WriteResultSet(vars, []*rdfql.Row{row})

	data, err := f.EncodeTriples(triples)
	require.NoError(t, err)

	decoded, err := f.DecodeTriples(data)
	require.NoError(t, err)

	_, gotRows, err := resultsio.ReadResultSet(decoded)
	require.NoError(t, err)
	require.Len(t, gotRows, 1)
	require.Equal(t, int64(7), gotRows[0].Get("x").IntVal())
}
