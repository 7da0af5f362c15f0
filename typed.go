package rdfql

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NewTyped constructs a literal from a lexical form and a datatype IRI,
// validating the lexical form against well-known XSD datatypes (spec.md
// §4.1). On validation failure the literal is retained but retyped to
// KindUDT with Valid()==false, never discarded.
//
// A non-empty lang together with a non-nil datatype is a caller error per
// RDF's "literal cannot have both a language tag and a datatype" rule;
// NewTyped resolves it the way the spec prescribes: the language tag is
// dropped.
func NewTyped(lex string, lang string, datatype *IRI) *Literal {
	if lang != "" && datatype != nil {
		lang = ""
	}
	if datatype == nil {
		return NewPlainString(lex, lang)
	}
	l, ok := stringToNative(lex, datatype)
	if !ok {
		udt := NewUDT(lex, datatype)
		udt.valid = false
		return udt
	}
	return l
}

// stringToNative inspects datatype and, if it names a known XSD type,
// parses lex into the corresponding native Go value. It returns ok=false
// (never an error) when the datatype is unknown or the lexical form fails
// to parse, so the caller can fall back to an invalid UDT literal per
// spec.md §4.1's "string_to_native" contract.
func stringToNative(lex string, datatype *IRI) (*Literal, bool) {
	switch datatype.Value() {
	case XSDString.Value():
		l := NewXsdString(lex)
		return l, true
	case XSDBoolean.Value():
		b, err := strconv.ParseBool(strings.TrimSpace(lex))
		if err != nil {
			return nil, false
		}
		l := NewBoolean(b)
		l.lex = lex
		return l, true
	case XSDInteger.Value():
		return newIntegerFromLex(lex)
	case XSDFloat.Value():
		f, err := strconv.ParseFloat(strings.TrimSpace(lex), 32)
		if err != nil {
			return nil, false
		}
		l := NewFloat(float32(f))
		l.lex = lex
		return l, true
	case XSDDouble.Value():
		f, err := strconv.ParseFloat(strings.TrimSpace(lex), 64)
		if err != nil {
			return nil, false
		}
		l := NewDouble(f)
		l.lex = lex
		return l, true
	case XSDDecimal.Value():
		d, err := decimal.NewFromString(strings.TrimSpace(lex))
		if err != nil {
			return nil, false
		}
		l := NewDecimal(d)
		l.lex = lex
		return l, true
	case XSDDate.Value():
		t, hasTZ, err := parseXSDDate(lex)
		if err != nil {
			return nil, false
		}
		l := NewDate(t, hasTZ)
		l.lex = lex
		return l, true
	case XSDDateTime.Value():
		t, hasTZ, err := parseXSDDateTime(lex)
		if err != nil {
			return nil, false
		}
		l := NewDateTime(t, hasTZ)
		l.lex = lex
		return l, true
	default:
		return nil, false
	}
}

// newIntegerFromLex parses lex as xsd:integer. On int64 overflow it
// demotes to Decimal per spec.md §4.1 "Numeric integer constructors out of
// machine-int range automatically demote to Decimal".
func newIntegerFromLex(lex string) (*Literal, bool) {
	trimmed := strings.TrimSpace(lex)
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		l := NewInteger(i)
		l.lex = lex
		return l, true
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, false
	}
	l := NewDecimal(d)
	l.lex = lex
	l.datatype = XSDInteger // demoted, but remembers its origin type lexically
	return l, true
}

const xsdDateLayout = "2006-01-02"

func parseXSDDate(lex string) (time.Time, bool, error) {
	s := lex
	hasTZ := strings.HasSuffix(s, "Z") || hasNumericTZSuffix(s[min(len(s), 10):])
	if t, err := time.Parse(xsdDateLayout+"Z07:00", s); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(xsdDateLayout, s)
	return t, hasTZ, err
}

func parseXSDDateTime(lex string) (time.Time, bool, error) {
	s := lex
	hasTZ := strings.HasSuffix(s, "Z") || hasNumericTZSuffix(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true, nil
	}
	// No explicit offset: xsd:dateTime without timezone.
	layouts := []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, false, nil
		}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	return t, hasTZ, err
}

func hasNumericTZSuffix(s string) bool {
	// Looks for a trailing +HH:MM or -HH:MM beyond the date/time prefix.
	i := strings.LastIndexAny(s, "+-")
	if i <= 9 { // shorter than "YYYY-MM-DD" can't carry a zone offset
		return false
	}
	rest := s[i:]
	return len(rest) == 6 && rest[3] == ':'
}
