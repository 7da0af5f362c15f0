package resultsio

import (
	"sync"

	"github.com/knakk/rdfql"
)

// Formatter is a results serialization plug-in, registered by content
// type (spec.md §6 "accept any formatter plug-in whose descriptor is
// registered at world initialization").
type Formatter interface {
	// ContentType is the MIME type this formatter produces/consumes,
	// e.g. "application/sparql-results+xml".
	ContentType() string

	// EncodeTriples serializes an RDF-results triple set (the output of
	// WriteResultSet) to its wire form.
	EncodeTriples(triples []rdfql.Triple) ([]byte, error)

	// DecodeTriples parses a formatter's wire form back into an
	// RDF-results triple set consumable by ReadResultSet.
	DecodeTriples(data []byte) ([]rdfql.Triple, error)
}

// Registry is a content-type-keyed Formatter lookup table.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{formatters: map[string]Formatter{}}
}

// Register adds f under f.ContentType(), replacing any prior formatter
// registered for that content type.
func (r *Registry) Register(f Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[f.ContentType()] = f
}

// Lookup returns the formatter registered for contentType, if any.
func (r *Registry) Lookup(contentType string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[contentType]
	return f, ok
}

// Default is the registry populated with the engine's built-in
// formatters at package initialization (spec.md §6 "registered at world
// initialization").
var Default = NewRegistry()

func init() {
	Default.Register(ntFormatter{})
}
