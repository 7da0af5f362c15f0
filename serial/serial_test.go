package serial_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/serial"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeNTriplesRoundTrip(t *testing.T) {
	triples := []rdfql.Triple{
		{
			Subj: rdfql.NewURI(rdfql.NewIRI("http://example/bob")),
			Pred: rdfql.NewURI(rdfql.NewIRI("http://xmlns.com/foaf/0.1/name")),
			Obj:  rdfql.NewPlainString("Bob", "en"),
		},
		{
			Subj: rdfql.NewBlank("b0"),
			Pred: rdfql.NewURI(rdfql.NewIRI("http://xmlns.com/foaf/0.1/age")),
			Obj:  rdfql.NewInteger(42),
		},
	}

	var buf bytes.Buffer
	enc := serial.NewTripleEncoder(&buf, serial.NTriples)
	require.NoError(t, enc.EncodeAll(triples))
	require.NoError(t, enc.Close())

	dec := serial.NewTripleDecoder(&buf, serial.NTriples)
	got, err := dec.DecodeAll()
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, "http://example/bob", got[0].Subj.Lex())
	require.Equal(t, "Bob", got[0].Obj.Lex())
	require.Equal(t, "en", got[0].Obj.Lang())

	require.Equal(t, rdfql.KindBlank, got[1].Subj.Kind())
	require.Equal(t, "b0", got[1].Subj.BlankID())
	require.Equal(t, int64(42), got[1].Obj.IntVal())
}

func TestEncodeDecodeNQuadsRoundTripWithGraph(t *testing.T) {
	tr := rdfql.Triple{
		Subj:   rdfql.NewURI(rdfql.NewIRI("http://example/bob")),
		Pred:   rdfql.NewURI(rdfql.NewIRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")),
		Obj:    rdfql.NewURI(rdfql.NewIRI("http://xmlns.com/foaf/0.1/Person")),
		Origin: rdfql.NewURI(rdfql.NewIRI("http://example/graph1")),
	}

	var buf bytes.Buffer
	enc := serial.NewTripleEncoder(&buf, serial.NQuads)
	require.NoError(t, enc.Encode(tr))
	require.NoError(t, enc.Close())

	dec := serial.NewTripleDecoder(&buf, serial.NQuads)
	got, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, "http://example/graph1", got.Origin.Lex())

	_, err = dec.Decode()
	require.Equal(t, io.EOF, err)
}

func TestDecodeSkipsBlankLinesAndComments(t *testing.T) {
	input := "# a comment\n\n<http://a/> <http://p/> \"x\" .\n"
	dec := serial.NewTripleDecoder(bytes.NewBufferString(input), serial.NTriples)
	tr, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, "x", tr.Obj.Lex())
}

func TestDecodeUnterminatedIRIIsParseError(t *testing.T) {
	dec := serial.NewTripleDecoder(bytes.NewBufferString("<http://a/ <http://p/> \"x\" .\n"), serial.NTriples)
	_, err := dec.Decode()
	require.Error(t, err)
	var pe *rdfql.ParseError
	require.ErrorAs(t, err, &pe)
}
