package serial

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/knakk/rdfql"
)

// TripleEncoder serializes Triples as N-Triples or N-Quads, mirroring
// the teacher's TripleEncoder (encoder.go): buffered io.Writer, one
// Encode call per statement, Close flushes and forbids further writes.
type TripleEncoder struct {
	format Format
	w      *bufio.Writer
	closed bool
}

// NewTripleEncoder returns an encoder writing f-formatted statements to w.
func NewTripleEncoder(w io.Writer, f Format) *TripleEncoder {
	return &TripleEncoder{format: f, w: bufio.NewWriter(w)}
}

// Encode serializes one triple. For NQuads, a nil Origin is written as
// the default graph (no fourth term).
func (e *TripleEncoder) Encode(t rdfql.Triple) error {
	if e.closed {
		return io.ErrClosedPipe
	}
	var b strings.Builder
	b.WriteString(termString(t.Subj))
	b.WriteByte(' ')
	b.WriteString(termString(t.Pred))
	b.WriteByte(' ')
	b.WriteString(termString(t.Obj))
	if e.format == NQuads && t.Origin != nil {
		b.WriteByte(' ')
		b.WriteString(termString(t.Origin))
	}
	b.WriteString(" .\n")
	_, err := e.w.WriteString(b.String())
	return err
}

// EncodeAll encodes every triple in ts, in order.
func (e *TripleEncoder) EncodeAll(ts []rdfql.Triple) error {
	for _, t := range ts {
		if err := e.Encode(t); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes buffered output. Encode after Close returns an error.
func (e *TripleEncoder) Close() error {
	e.closed = true
	return e.w.Flush()
}

// termString renders l in N-Triples/N-Quads term syntax.
func termString(l *rdfql.Literal) string {
	if l == nil {
		return ""
	}
	switch l.Kind() {
	case rdfql.KindBlank:
		return "_:" + l.BlankID()
	case rdfql.KindURI:
		return "<" + l.Lex() + ">"
	default:
		var b strings.Builder
		b.WriteByte('"')
		b.WriteString(escapeLiteral(l.Lex()))
		b.WriteByte('"')
		if l.Lang() != "" {
			b.WriteByte('@')
			b.WriteString(l.Lang())
		} else if dt := l.DataType(); dt != nil {
			b.WriteString("^^<")
			b.WriteString(dt.Value())
			b.WriteByte('>')
		}
		return b.String()
	}
}

func escapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u`)
				b.WriteString(strconv.FormatInt(int64(r), 16))
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
