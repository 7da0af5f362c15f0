package rdfql

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind discriminates the variants of Literal, the closed sum type every RDF
// term and every SPARQL expression value is represented as. The numeric
// values are significant: spec.md §3's invariant ordering is
//
//	Blank < Uri < PlainString < XsdString < Boolean < Integer < Float <
//	Double < Decimal < Date < DateTime < UDT < Pattern < QName < Variable
//
// and the numeric-promotion scan range (§4.3) is [Boolean, DateTime].
type Kind uint8

const (
	KindBlank Kind = iota
	KindURI
	KindPlainString
	KindXsdString
	KindBoolean
	KindInteger
	KindFloat
	KindDouble
	KindDecimal
	KindDate
	KindDateTime
	KindUDT
	KindPattern
	KindQName
	KindVariable
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "Blank"
	case KindURI:
		return "Uri"
	case KindPlainString:
		return "PlainString"
	case KindXsdString:
		return "XsdString"
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindDouble:
		return "Double"
	case KindDecimal:
		return "Decimal"
	case KindDate:
		return "Date"
	case KindDateTime:
		return "DateTime"
	case KindUDT:
		return "UserDefinedType"
	case KindPattern:
		return "Pattern"
	case KindQName:
		return "QName"
	case KindVariable:
		return "Variable"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether k lies in the XSD numeric promotion range.
func (k Kind) IsNumeric() bool {
	return k == KindBoolean || k == KindInteger || k == KindFloat || k == KindDouble || k == KindDecimal
}

// IRI is a shared, interned datatype/predicate identifier. It is its own
// type (rather than a Literal of KindURI) because it is used structurally
// as a map key and table pointer throughout the engine (datatype slots,
// prefix expansion, graph terms); NewURI adapts one into a Literal term
// when a URI is needed as a value.
type IRI struct {
	str string
}

// NewIRI returns an IRI. No validation is performed; callers that need
// validation should use NewTyped with xsd.String's inverse, or validate
// upstream in the parser.
func NewIRI(uri string) *IRI { return &IRI{str: uri} }

func (u *IRI) String() string {
	if u == nil {
		return "<>"
	}
	return "<" + u.str + ">"
}

// Value returns the bare IRI string, without angle brackets.
func (u *IRI) Value() string {
	if u == nil {
		return ""
	}
	return u.str
}

func (u *IRI) Eq(other *IRI) bool {
	if u == nil || other == nil {
		return u == other
	}
	return u.str == other.str
}

type refCount struct{ n int32 }

// Literal is the tagged-variant value every RDF term and SPARQL expression
// result is represented as (spec.md §3). It is reference-counted per the
// source's lifecycle contract (spec.md §9): Retain increments, Release
// decrements and panics if released more times than retained. Go's GC
// reclaims the backing memory regardless; the counter exists to preserve
// the create/copy/free contract's shape and to catch double-release bugs
// in tests, the same non-destructive purpose a `usage` counter serves in
// the teacher's source lineage.
type Literal struct {
	refs *refCount

	kind     Kind
	lex      string // lexical form, UTF-8
	lang     string // lowercased language tag, "" if absent
	datatype *IRI   // nil if absent
	valid    bool

	boolVal   bool
	intVal    int64
	floatVal  float32
	doubleVal float64
	decVal    decimal.Decimal
	timeVal   time.Time
	hasTZ     bool

	pattern      string
	patternFlags string

	qnamePrefix string
	qnameLocal  string

	blankID string

	variable *Variable // KindVariable: non-owning reference into a VariablesTable
}

func newLiteral(k Kind) *Literal {
	return &Literal{refs: &refCount{n: 1}, kind: k, valid: true}
}

// Retain increments the reference count and returns l, mirroring "copy"
// in spec.md §3's lifecycle.
func (l *Literal) Retain() *Literal {
	if l == nil {
		return nil
	}
	l.refs.n++
	return l
}

// Release decrements the reference count ("free"). It panics if called
// more times than Retain plus the initial construction.
func (l *Literal) Release() {
	if l == nil {
		return
	}
	l.refs.n--
	if l.refs.n < 0 {
		panic("rdfql: literal released more times than retained")
	}
}

// Kind returns the literal's variant tag.
func (l *Literal) Kind() Kind {
	if l == nil {
		return KindVariable // an unbound/nil literal behaves as an unresolved indirection
	}
	return l.kind
}

// Lex returns the lexical form.
func (l *Literal) Lex() string { return l.lex }

// Lang returns the (lowercased) language tag, or "" if absent.
func (l *Literal) Lang() string { return l.lang }

// DataType returns the literal's datatype IRI, or nil if absent.
func (l *Literal) DataType() *IRI { return l.datatype }

// Valid reports whether the lexical form validated against its datatype.
// A literal retyped to KindUDT after a failed validation has Valid()==false.
func (l *Literal) Valid() bool { return l == nil || l.valid }

// NewBlank returns a fresh blank node with the given label.
func NewBlank(id string) *Literal {
	l := newLiteral(KindBlank)
	l.blankID = id
	l.lex = id
	return l
}

// NewURI returns a URI term.
func NewURI(uri *IRI) *Literal {
	l := newLiteral(KindURI)
	l.datatype = uri
	l.lex = uri.Value()
	return l
}

// NewPlainString returns an RDF 1.0-style plain literal, optionally
// carrying a language tag. Per spec.md §4.1 the tag is lowercased.
func NewPlainString(value, lang string) *Literal {
	l := newLiteral(KindPlainString)
	l.lex = value
	l.lang = lowerASCII(lang)
	return l
}

// NewXsdString returns an explicitly xsd:string-typed literal.
func NewXsdString(value string) *Literal {
	l := newLiteral(KindXsdString)
	l.lex = value
	l.datatype = XSDString
	return l
}

// NewBoolean returns an xsd:boolean literal.
func NewBoolean(b bool) *Literal {
	l := newLiteral(KindBoolean)
	l.boolVal = b
	l.datatype = XSDBoolean
	if b {
		l.lex = "true"
	} else {
		l.lex = "false"
	}
	return l
}

// NewInteger returns an xsd:integer literal from a machine int64.
func NewInteger(i int64) *Literal {
	l := newLiteral(KindInteger)
	l.intVal = i
	l.datatype = XSDInteger
	l.lex = fmt.Sprintf("%d", i)
	return l
}

// NewFloat returns an xsd:float literal.
func NewFloat(f float32) *Literal {
	l := newLiteral(KindFloat)
	l.floatVal = f
	l.datatype = XSDFloat
	l.lex = fmt.Sprintf("%v", f)
	return l
}

// NewDouble returns an xsd:double literal.
func NewDouble(f float64) *Literal {
	l := newLiteral(KindDouble)
	l.doubleVal = f
	l.datatype = XSDDouble
	l.lex = fmt.Sprintf("%v", f)
	return l
}

// NewDecimal returns an xsd:decimal literal backed by an arbitrary
// precision decimal.Decimal (spec.md §3 "Decimal (arbitrary precision)").
func NewDecimal(d decimal.Decimal) *Literal {
	l := newLiteral(KindDecimal)
	l.decVal = d
	l.datatype = XSDDecimal
	l.lex = d.String()
	return l
}

// NewDate returns an xsd:date literal.
func NewDate(t time.Time, hasTZ bool) *Literal {
	l := newLiteral(KindDate)
	l.timeVal = t
	l.hasTZ = hasTZ
	l.datatype = XSDDate
	l.lex = t.Format("2006-01-02")
	return l
}

// NewDateTime returns an xsd:dateTime literal. Per spec.md §4.3, a
// DateTime produced by promoting a Date that lacks an explicit timezone is
// assigned UTC by the caller (see eval.Promote); NewDateTime itself does
// not guess.
func NewDateTime(t time.Time, hasTZ bool) *Literal {
	l := newLiteral(KindDateTime)
	l.timeVal = t
	l.hasTZ = hasTZ
	l.datatype = XSDDateTime
	l.lex = t.Format(DateFormat)
	return l
}

// DateFormat is the lexical layout used to render xsd:dateTime values.
// Exported, like the teacher's rdf.DateFormat, so callers can override it.
var DateFormat = time.RFC3339

// NewPattern returns a regex-literal (used by the `regex` expression
// operator's pattern argument when given as a literal rather than computed).
func NewPattern(pattern, flags string) *Literal {
	l := newLiteral(KindPattern)
	l.pattern = pattern
	l.patternFlags = flags
	l.lex = pattern
	return l
}

// NewQName returns an unresolved prefix:local literal, awaiting prefix-map
// expansion by the optimizer (spec.md §4.6 pass 5).
func NewQName(prefix, local string) *Literal {
	l := newLiteral(KindQName)
	l.qnamePrefix = prefix
	l.qnameLocal = local
	l.lex = prefix + ":" + local
	return l
}

// QName returns the literal's prefix and local parts. Only meaningful when
// Kind() == KindQName.
func (l *Literal) QName() (prefix, local string) { return l.qnamePrefix, l.qnameLocal }

// NewVariableRef returns a Literal that indirects to v's current binding.
func NewVariableRef(v *Variable) *Literal {
	l := newLiteral(KindVariable)
	l.variable = v
	if v != nil {
		l.lex = v.Name
	}
	return l
}

// Variable returns the referenced Variable. Only meaningful when
// Kind() == KindVariable.
func (l *Literal) Variable() *Variable { return l.variable }

// NewUDT returns a non-validating user-defined-type literal: a lexical
// form paired with a datatype URI the engine does not know how to parse.
func NewUDT(lex string, datatype *IRI) *Literal {
	l := newLiteral(KindUDT)
	l.lex = lex
	l.datatype = datatype
	return l
}

// BoolVal, IntVal, FloatVal, DoubleVal, DecVal, TimeVal return the decoded
// native value for the corresponding Kind. Calling the wrong accessor for
// the literal's actual Kind returns the zero value.
func (l *Literal) BoolVal() bool             { return l.boolVal }
func (l *Literal) IntVal() int64             { return l.intVal }
func (l *Literal) FloatVal() float32         { return l.floatVal }
func (l *Literal) DoubleVal() float64        { return l.doubleVal }
func (l *Literal) DecVal() decimal.Decimal   { return l.decVal }
func (l *Literal) TimeVal() (time.Time, bool) { return l.timeVal, l.hasTZ }
func (l *Literal) BlankID() string           { return l.blankID }
func (l *Literal) Pattern() (string, string) { return l.pattern, l.patternFlags }

// Resolve follows KindVariable indirection to the variable's current
// bound value (or nil if unbound), and is a no-op for every other Kind.
func (l *Literal) Resolve() *Literal {
	for l != nil && l.kind == KindVariable {
		if l.variable == nil {
			return nil
		}
		l = l.variable.Value
	}
	return l
}

// String renders l in a form suitable for insertion into a SPARQL query or
// debug output, mirroring the teacher's Term.String().
func (l *Literal) String() string {
	if l == nil {
		return "<unbound>"
	}
	switch l.kind {
	case KindBlank:
		return "_:" + l.blankID
	case KindURI:
		return "<" + l.lex + ">"
	case KindPlainString:
		if l.lang != "" {
			return fmt.Sprintf("%q@%s", l.lex, l.lang)
		}
		return fmt.Sprintf("%q", l.lex)
	case KindXsdString:
		return fmt.Sprintf("%q", l.lex)
	case KindBoolean, KindInteger, KindFloat, KindDouble, KindDecimal:
		return l.lex
	case KindDate, KindDateTime:
		return fmt.Sprintf("%q^^<%s>", l.lex, l.datatype.Value())
	case KindUDT:
		dt := ""
		if l.datatype != nil {
			dt = l.datatype.Value()
		}
		return fmt.Sprintf("%q^^<%s>", l.lex, dt)
	case KindPattern:
		return "/" + l.pattern + "/" + l.patternFlags
	case KindQName:
		return l.qnamePrefix + ":" + l.qnameLocal
	case KindVariable:
		return "?" + l.lex
	default:
		return l.lex
	}
}

func lowerASCII(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}
