package query

import (
	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/algebra"
	"github.com/knakk/rdfql/service"
)

// PrepareRemote prepares a Query whose Query.ServiceEndpoint is set
// (spec.md §4.7 "Remote service"): rather than compiling q.Pattern
// against a local triples source, it evaluates queryText directly
// against the remote endpoint over the SPARQL HTTP protocol (spec.md
// §6). The query's own Pattern/algebra tree goes unused in this path —
// query compilation and optimization are a local-execution concern, and
// a SERVICE-routed query is, by construction, somebody else's local
// execution.
func PrepareRemote(q *algebra.Query, world *rdfql.World, queryText string, opts ...service.Option) (*Prepared, error) {
	if q.ServiceEndpoint == nil {
		return nil, &rdfql.ResourceError{Msg: "query: PrepareRemote requires Query.ServiceEndpoint"}
	}
	rs := service.New(world, q.ServiceEndpoint, queryText, q.DataGraphs, opts...)
	return &Prepared{query: q, base: rs, remote: true}, nil
}
