package service_test

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/algebra"
	"github.com/knakk/rdfql/resultsio"
	"github.com/knakk/rdfql/service"
)

type fakeClient struct {
	resp *http.Response
	err  error
	gotURL string
}

func (f *fakeClient) Do(req *http.Request) (*http.Response, error) {
	f.gotURL = req.URL.String()
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func encodedResultSet(t *testing.T, vars []string, rows []*rdfql.Row) []byte {
	t.Helper()
	f, ok := resultsio.Default.Lookup("application/n-triples")
	require.True(t, ok)
	triples := resultsio.WriteResultSet(vars, rows)
	data, err := f.EncodeTriples(triples)
	require.NoError(t, err)
	return data
}

func TestRowSourceDecodesRemoteResultSet(t *testing.T) {
	vars := []string{"s"}
	schema := rdfql.NewSchema(vars)
	row := rdfql.NewRow(schema)
	row.Set("s", rdfql.NewURI(rdfql.NewIRI("http://example/bob")))
	body := encodedResultSet(t, vars, []*rdfql.Row{row})

	client := &fakeClient{resp: &http.Response{
		StatusCode: 200,
		Header:     http.Header{"Content-Type": []string{"application/n-triples"}},
		Body:       io.NopCloser(bytes.NewReader(body)),
	}}

	world := rdfql.NewWorld()
	endpoint := rdfql.NewIRI("http://remote.example/sparql")
	rs := service.New(world, endpoint, "SELECT ?s WHERE { ?s a <http://x/T> }", nil, service.WithClient(client))

	require.NoError(t, rs.Init())
	rows, err := rs.ReadAllRows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "http://example/bob", rows[0].Get("s").Lex())
	require.Contains(t, client.gotURL, "query=SELECT")
}

func TestRowSourceWarnsOnDuplicateBackgroundGraph(t *testing.T) {
	body := encodedResultSet(t, []string{"s"}, nil)
	client := &fakeClient{resp: &http.Response{
		StatusCode: 200,
		Header:     http.Header{"Content-Type": []string{"application/n-triples"}},
		Body:       io.NopCloser(bytes.NewReader(body)),
	}}

	var warnings []error
	world := &rdfql.World{LogHandler: func(sev rdfql.Severity, err error) {
		if sev == rdfql.Warning {
			warnings = append(warnings, err)
		}
	}}

	datasets := []algebra.DatasetDescriptor{
		{URI: rdfql.NewIRI("http://g1/"), Flag: algebra.Background},
		{URI: rdfql.NewIRI("http://g2/"), Flag: algebra.Background},
	}

	rs := service.New(world, rdfql.NewIRI("http://remote.example/sparql"), "SELECT * WHERE {}", datasets, service.WithClient(client))
	require.NoError(t, rs.Init())
	require.Len(t, warnings, 1)
	require.Contains(t, client.gotURL, "default-graph-uri=http%3A%2F%2Fg1%2F")
	require.NotContains(t, client.gotURL, "g2")
}

func TestRowSourceSurfacesProtocolErrorOnBadStatus(t *testing.T) {
	client := &fakeClient{resp: &http.Response{
		StatusCode: 500,
		Status:     "500 Internal Server Error",
		Header:     http.Header{},
		Body:       io.NopCloser(bytes.NewReader(nil)),
	}}
	rs := service.New(rdfql.NewWorld(), rdfql.NewIRI("http://remote.example/sparql"), "ASK {}", nil, service.WithClient(client))
	err := rs.Init()
	require.Error(t, err)
	var pe *rdfql.ProtocolError
	require.ErrorAs(t, err, &pe)
}
