package resultsio

import (
	"bytes"

	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/serial"
)

// ntFormatter serializes an RDF-results triple set as N-Triples via
// package serial, the engine's built-in default formatter.
type ntFormatter struct{}

func (ntFormatter) ContentType() string { return "application/n-triples" }

func (ntFormatter) EncodeTriples(triples []rdfql.Triple) ([]byte, error) {
	var buf bytes.Buffer
	enc := serial.NewTripleEncoder(&buf, serial.NTriples)
	if err := enc.EncodeAll(triples); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (ntFormatter) DecodeTriples(data []byte) ([]rdfql.Triple, error) {
	dec := serial.NewTripleDecoder(bytes.NewReader(data), serial.NTriples)
	return dec.DecodeAll()
}
