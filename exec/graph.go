package exec

import (
	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/store"
)

// Graph implements the `GRAPH` row source of spec.md §4.7. When term is
// a ground URI, the optimizer has already pushed it onto every contained
// triple's origin slot (spec.md §4.6 pass 4), so Graph is a pass-through
// to child. When term is a Variable, Graph enumerates the dataset's
// named graphs (via store.GraphLister) and joins child against a
// row-sequence binding the variable to each graph name in turn, so every
// contained triples-match picks up the current graph through the same
// Contextual.Rebind path a nested-loop Join uses.
type Graph struct {
	term     *rdfql.Literal
	child    RowSource
	source   store.Source
	delegate RowSource
}

// NewGraph returns a Graph row source scoping child to term.
func NewGraph(term *rdfql.Literal, child RowSource, source store.Source) *Graph {
	return &Graph{term: term, child: child, source: source}
}

func (g *Graph) Init() error {
	if g.term.Kind() != rdfql.KindVariable {
		g.delegate = g.child
		return g.delegate.Init()
	}
	lister, ok := g.source.(store.GraphLister)
	if !ok {
		return &rdfql.ResourceError{Msg: "store does not support GRAPH ?var enumeration"}
	}
	graphs, err := lister.ListGraphs()
	if err != nil {
		return err
	}
	v := g.term.Variable()
	schema := rdfql.NewSchema([]string{v.Name})
	rows := make([]*rdfql.Row, len(graphs))
	for i, name := range graphs {
		r := rdfql.NewRow(schema)
		r.Set(v.Name, name)
		rows[i] = r
	}
	g.delegate = NewJoin(NewRowSequence(schema, rows), g.child)
	return g.delegate.Init()
}

func (g *Graph) EnsureVariables() (*rdfql.Schema, error) { return g.delegate.EnsureVariables() }

func (g *Graph) ReadRow() (*rdfql.Row, error) { return g.delegate.ReadRow() }

func (g *Graph) ReadAllRows() ([]*rdfql.Row, error) { return ReadAllRows(g) }

func (g *Graph) Reset() error { return g.delegate.Reset() }

func (g *Graph) Inner(i int) RowSource {
	if i == 0 {
		return g.delegate
	}
	return nil
}

func (g *Graph) Finish() error { return g.delegate.Finish() }
