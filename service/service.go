// Package service implements the remote triples-source (spec.md §4.7
// "Remote service", §6 "Remote SPARQL protocol"): an exec.RowSource that
// drives an HTTP GET against a remote SPARQL endpoint and decodes the
// response into rows through the resultsio.Formatter registry, in place
// of the teacher's Fuseki/SPARQL-over-HTTP client (the teacher has none;
// this is grounded on the stdlib net/http client idiom the rest of the
// corpus's HTTP-speaking repos use, with I/O failures wrapped by
// github.com/pkg/errors' errors.Wrapf).
package service

import (
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/algebra"
	"github.com/knakk/rdfql/exec"
	"github.com/knakk/rdfql/resultsio"
)

const defaultAccept = "application/sparql-results+xml"

// HTTPClient is the subset of *http.Client a RowSource needs, so tests
// can substitute a fake transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RowSource evaluates a query against a remote SPARQL endpoint over the
// SPARQL 1.1 protocol's HTTP GET binding (spec.md §6).
type RowSource struct {
	world    *rdfql.World
	client   HTTPClient
	endpoint *rdfql.IRI
	queryStr string
	datasets []algebra.DatasetDescriptor
	registry *resultsio.Registry
	accept   string

	schema *rdfql.Schema
	rows   []*rdfql.Row
	idx    int
}

// Option configures a RowSource at construction time.
type Option func(*RowSource)

// WithClient overrides the HTTP client (default http.DefaultClient).
func WithClient(c HTTPClient) Option { return func(rs *RowSource) { rs.client = c } }

// WithAccept overrides the default Accept header
// (application/sparql-results+xml per spec.md §6).
func WithAccept(accept string) Option { return func(rs *RowSource) { rs.accept = accept } }

// WithRegistry overrides the formatter registry used to decode the
// response body (default resultsio.Default).
func WithRegistry(r *resultsio.Registry) Option { return func(rs *RowSource) { rs.registry = r } }

// New returns a RowSource querying endpoint with queryStr and the given
// dataset descriptors. world supplies the log handler that receives the
// "multiple background graphs" warning (spec.md §4.7).
func New(world *rdfql.World, endpoint *rdfql.IRI, queryStr string, datasets []algebra.DatasetDescriptor, opts ...Option) *RowSource {
	rs := &RowSource{
		world:    world,
		client:   http.DefaultClient,
		endpoint: endpoint,
		queryStr: queryStr,
		datasets: datasets,
		registry: resultsio.Default,
		accept:   defaultAccept,
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// buildURL renders the GET request URL: query, at most one
// default-graph-uri, and every named-graph-uri (spec.md §6).
func (rs *RowSource) buildURL() (string, error) {
	u, err := url.Parse(rs.endpoint.Value())
	if err != nil {
		return "", errors.Wrapf(err, "service: invalid endpoint")
	}
	q := u.Query()
	q.Set("query", rs.queryStr)

	background := 0
	for _, d := range rs.datasets {
		switch d.Flag {
		case algebra.Background:
			if background == 0 {
				q.Add("default-graph-uri", d.URI.Value())
			} else if rs.world != nil && rs.world.LogHandler != nil {
				rs.world.LogHandler(rdfql.Warning, &rdfql.ProtocolError{
					Msg: "multiple background graphs in SERVICE dataset; only the first is sent",
				})
			}
			background++
		case algebra.Named:
			if d.NameURI != nil {
				q.Add("named-graph-uri", d.NameURI.Value())
			} else {
				q.Add("named-graph-uri", d.URI.Value())
			}
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Init issues the HTTP GET, decodes the response via the formatter
// selected by its Content-Type, and reconstructs the binding rows.
func (rs *RowSource) Init() error {
	reqURL, err := rs.buildURL()
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrapf(err, "service: building request")
	}
	req.Header.Set("Accept", rs.accept)

	resp, err := rs.client.Do(req)
	if err != nil {
		return &rdfql.IoError{Cause: errors.Wrapf(err, "service: request to %s", rs.endpoint.Value())}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &rdfql.ProtocolError{Msg: "service: unexpected status " + resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &rdfql.IoError{Cause: errors.Wrapf(err, "service: reading response body")}
	}

	contentType := firstMediaType(resp.Header.Get("Content-Type"))
	formatter, ok := rs.registry.Lookup(contentType)
	if !ok {
		return &rdfql.ProtocolError{Msg: "service: no formatter registered for content type " + contentType}
	}

	triples, err := formatter.DecodeTriples(body)
	if err != nil {
		return &rdfql.IoError{Cause: errors.Wrapf(err, "service: decoding response")}
	}

	vars, rows, err := resultsio.ReadResultSet(triples)
	if err != nil {
		return errors.Wrapf(err, "service: reconstructing result set")
	}
	rs.schema = rdfql.NewSchema(vars)
	rs.rows = rows
	return nil
}

func firstMediaType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(contentType)
}

func (rs *RowSource) EnsureVariables() (*rdfql.Schema, error) {
	if rs.schema == nil {
		return nil, &rdfql.ResourceError{Msg: "service: EnsureVariables called before Init"}
	}
	return rs.schema, nil
}

func (rs *RowSource) ReadRow() (*rdfql.Row, error) {
	if rs.idx >= len(rs.rows) {
		return nil, nil
	}
	row := rs.rows[rs.idx]
	rs.idx++
	return row, nil
}

func (rs *RowSource) ReadAllRows() ([]*rdfql.Row, error) { return exec.ReadAllRows(rs) }

func (rs *RowSource) Reset() error {
	rs.idx = 0
	return nil
}

func (rs *RowSource) Inner(i int) exec.RowSource { return nil }

func (rs *RowSource) Finish() error { return nil }
