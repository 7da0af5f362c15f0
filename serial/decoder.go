package serial

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/knakk/rdfql"
)

// TripleDecoder parses N-Triples/N-Quads, mirroring the shape of the
// teacher's TripleDecoder (decoder.go) but reading line-by-line with a
// small hand-rolled term scanner instead of the teacher's full
// rune-at-a-time lexer (lex.go/rune.go) — N-Triples/N-Quads' grammar is
// regular enough per line that the extra lexer machinery buys nothing
// here.
type TripleDecoder struct {
	format Format
	sc     *bufio.Scanner
	line   int
}

// NewTripleDecoder returns a decoder reading f-formatted statements
// from r.
func NewTripleDecoder(r io.Reader, f Format) *TripleDecoder {
	return &TripleDecoder{format: f, sc: bufio.NewScanner(r)}
}

// Decode reads and parses the next non-blank, non-comment statement.
// Returns io.EOF once the input is exhausted.
func (d *TripleDecoder) Decode() (rdfql.Triple, error) {
	for {
		if !d.sc.Scan() {
			if err := d.sc.Err(); err != nil {
				return rdfql.Triple{}, err
			}
			return rdfql.Triple{}, io.EOF
		}
		d.line++
		line := strings.TrimSpace(d.sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return d.parseLine(line)
	}
}

// DecodeAll parses every remaining statement.
func (d *TripleDecoder) DecodeAll() ([]rdfql.Triple, error) {
	var out []rdfql.Triple
	for {
		t, err := d.Decode()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
}

func (d *TripleDecoder) errf(format string, args ...interface{}) error {
	return &rdfql.ParseError{Line: d.line, Msg: fmt.Sprintf(format, args...)}
}

func (d *TripleDecoder) parseLine(line string) (rdfql.Triple, error) {
	p := &termScanner{s: line}

	subj, err := p.term()
	if err != nil {
		return rdfql.Triple{}, d.errf("subject: %s", err)
	}
	p.skipSpace()
	pred, err := p.term()
	if err != nil {
		return rdfql.Triple{}, d.errf("predicate: %s", err)
	}
	p.skipSpace()
	obj, err := p.term()
	if err != nil {
		return rdfql.Triple{}, d.errf("object: %s", err)
	}
	p.skipSpace()

	var origin *rdfql.Literal
	if d.format == NQuads {
		rest := strings.TrimSpace(p.s[p.i:])
		if !strings.HasPrefix(rest, ".") {
			g, err := p.term()
			if err != nil {
				return rdfql.Triple{}, d.errf("graph: %s", err)
			}
			origin = g
			p.skipSpace()
		}
	}

	if p.i >= len(p.s) || p.s[p.i] != '.' {
		return rdfql.Triple{}, d.errf("expected terminating '.'")
	}

	return rdfql.Triple{Subj: subj, Pred: pred, Obj: obj, Origin: origin}, nil
}

// termScanner walks one RDF term at a time out of a single NT/NQuads
// statement line.
type termScanner struct {
	s string
	i int
}

func (p *termScanner) skipSpace() {
	for p.i < len(p.s) && (p.s[p.i] == ' ' || p.s[p.i] == '\t') {
		p.i++
	}
}

func (p *termScanner) term() (*rdfql.Literal, error) {
	if p.i >= len(p.s) {
		return nil, fmt.Errorf("unexpected end of statement")
	}
	switch p.s[p.i] {
	case '<':
		return p.iri()
	case '_':
		return p.blank()
	case '"':
		return p.literal()
	default:
		return nil, fmt.Errorf("unexpected character %q", p.s[p.i])
	}
}

func (p *termScanner) iri() (*rdfql.Literal, error) {
	end := strings.IndexByte(p.s[p.i+1:], '>')
	if end < 0 {
		return nil, fmt.Errorf("unterminated IRI")
	}
	uri := p.s[p.i+1 : p.i+1+end]
	p.i += end + 2
	return rdfql.NewURI(rdfql.NewIRI(uri)), nil
}

func (p *termScanner) blank() (*rdfql.Literal, error) {
	start := p.i + 2 // skip "_:"
	j := start
	for j < len(p.s) && p.s[j] != ' ' && p.s[j] != '\t' {
		j++
	}
	id := p.s[start:j]
	p.i = j
	return rdfql.NewBlank(id), nil
}

func (p *termScanner) literal() (*rdfql.Literal, error) {
	var sb strings.Builder
	j := p.i + 1
	for j < len(p.s) {
		c := p.s[j]
		if c == '\\' && j+1 < len(p.s) {
			j++
			switch p.s[j] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				sb.WriteByte(p.s[j])
			}
			j++
			continue
		}
		if c == '"' {
			break
		}
		sb.WriteByte(c)
		j++
	}
	if j >= len(p.s) {
		return nil, fmt.Errorf("unterminated literal")
	}
	j++ // skip closing quote
	p.i = j

	if p.i < len(p.s) && p.s[p.i] == '@' {
		k := p.i + 1
		for k < len(p.s) && p.s[k] != ' ' && p.s[k] != '\t' {
			k++
		}
		lang := p.s[p.i+1 : k]
		p.i = k
		return rdfql.NewPlainString(sb.String(), lang), nil
	}
	if p.i+1 < len(p.s) && p.s[p.i] == '^' && p.s[p.i+1] == '^' {
		p.i += 2
		dt, err := p.iri()
		if err != nil {
			return nil, err
		}
		return rdfql.NewTyped(sb.String(), "", dt.DataType()), nil
	}
	return rdfql.NewXsdString(sb.String()), nil
}
