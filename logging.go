package rdfql

import (
	"log"
	"os"
	"sync"
)

var stdLogger = log.New(os.Stderr, "rdfql: ", log.LstdFlags)

// World holds process-wide shared state: the log handler that components
// given this World (service.RowSource) report through, and the interned datatype-URI table
// literals point into (spec.md §5 "Literal datatype URIs are world-shared
// and reference-counted").
type World struct {
	LogHandler LogHandler

	mu      sync.Mutex
	interns map[string]*IRI
}

// NewWorld returns a World using DefaultLogHandler.
func NewWorld() *World {
	return &World{
		LogHandler: DefaultLogHandler,
		interns:    make(map[string]*IRI),
	}
}

func (w *World) log(sev Severity, err error) {
	if w == nil || w.LogHandler == nil {
		return
	}
	w.LogHandler(sev, err)
}

// InternIRI returns a shared *IRI for uri, creating and caching it on first
// use. Interning keeps datatype URIs (xsd:integer, xsd:dateTime, ...) as a
// single shared value across every literal that carries them.
func (w *World) InternIRI(uri string) *IRI {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i, ok := w.interns[uri]; ok {
		return i
	}
	i := &IRI{str: uri}
	w.interns[uri] = i
	return i
}
