// Package store defines the pluggable triples-source interface (spec.md
// §4.8) and a MemStore in-memory reference implementation indexed for
// the three permutations pattern matching needs (S,P,O / P,O,S / O,S,P).
package store

import (
	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/algebra"
)

// Factory supplies a per-query Source (spec.md §4.8 "triples-source
// factory... init(query) -> source").
type Factory interface {
	Init(q *algebra.Query) (Source, error)
}

// Source is a per-query handle onto a triples store.
type Source interface {
	// TriplePresent reports whether the fully-ground triple t exists.
	TriplePresent(t rdfql.Triple) (bool, error)

	// NewMatch opens a cursor over triples matching pattern, whose
	// variable-typed slots (Kind() == KindVariable) are wildcards.
	NewMatch(pattern rdfql.Triple) (MatchCursor, error)

	// Close releases the source. MUST be called exactly once.
	Close() error
}

// MatchCursor walks the ground triples matching a single triple pattern
// (spec.md §4.8 "match cursor"). Cursors are owned by the caller and MUST
// be Finished.
type MatchCursor interface {
	// BindNext advances to the next match. end reports end-of-stream: no
	// further call to Current is valid once end is true. mask reports
	// which of (subject, predicate, object, origin) the pattern left as
	// a variable and this step bound, via the Bound* bit constants of
	// rdfql.Triple.BoundMask.
	BindNext() (mask int, end bool, err error)

	// Current returns the ground triple produced by the most recent
	// BindNext call that did not report end.
	Current() rdfql.Triple

	// Finish releases the cursor. MUST be called exactly once.
	Finish() error
}

// GraphLister is an optional Source capability: a store that can name
// its distinct graphs lets the `Graph` row source (package exec) iterate
// `GRAPH ?g { }` where the graph term is a variable. A Source that
// doesn't implement it can still serve `GRAPH <uri> { }` queries, where
// the graph term is already ground.
type GraphLister interface {
	ListGraphs() ([]*rdfql.Literal, error)
}
