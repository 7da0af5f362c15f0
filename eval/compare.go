package eval

import (
	"math"
	"strings"
	"time"

	"github.com/knakk/rdfql"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Flags carries the caller-selectable comparison behavior spec.md §4.2
// and §4.5 describe: the promotion table to use, whether URI ordering is
// permitted, and whether string ordering should be locale-aware.
type Flags struct {
	Mode              CompareMode
	AllowURIOrder     bool
	LocaleInsensitive bool
	Locale            language.Tag // used only when LocaleInsensitive
}

// DefaultFlags is XQuery mode, no URI ordering, byte-wise string order.
var DefaultFlags = Flags{Mode: XQuery}

var rootCollator = collate.New(language.Und, collate.IgnoreCase)

// SameTerm implements RDF-term equality (spec.md §4.2): two literals are
// equal iff their RDF-term type (URI, literal, blank) matches, their
// lexical forms are byte-equal, and for literals both language tag and
// datatype URI match exactly.
func SameTerm(a, b *rdfql.Literal) bool {
	a, b = a.Resolve(), b.Resolve()
	if a == nil || b == nil {
		return a == b
	}
	ak, bk := termClassOf(a), termClassOf(b)
	if ak != bk {
		return false
	}
	switch ak {
	case termBlank:
		return a.BlankID() == b.BlankID()
	case termURI:
		return a.Lex() == b.Lex()
	default: // literal of any kind
		if a.Kind() != b.Kind() {
			return false
		}
		if a.Lex() != b.Lex() {
			return false
		}
		if a.Lang() != b.Lang() {
			return false
		}
		return dataTypeEq(a.DataType(), b.DataType())
	}
}

type termClass int

const (
	termBlank termClass = iota
	termURI
	termLiteral
)

func termClassOf(l *rdfql.Literal) termClass {
	switch l.Kind() {
	case rdfql.KindBlank:
		return termBlank
	case rdfql.KindURI:
		return termURI
	default:
		return termLiteral
	}
}

func dataTypeEq(a, b *rdfql.IRI) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Eq(b)
}

// ValueEqual implements SPARQL/XPath value equality (spec.md §4.2).
func ValueEqual(a, b *rdfql.Literal, flags Flags) (bool, error) {
	c, err := Compare(a, b, flags)
	if err != nil {
		return false, err
	}
	return c == 0, nil
}

// Compare implements SPARQL/XPath value comparison (spec.md §4.2),
// returning -1, 0, or 1. It returns a *rdfql.TypeError when the operands
// are incomparable after promotion.
func Compare(a, b *rdfql.Literal, flags Flags) (int, error) {
	a, b = a.Resolve(), b.Resolve()
	if a == nil || b == nil {
		return 0, &rdfql.TypeError{Op: "compare", Msg: "unbound operand"}
	}
	ak, bk := a.Kind(), b.Kind()

	switch {
	case ak.IsNumeric() && bk.IsNumeric():
		return compareNumeric(a, b, flags.Mode)
	case (ak == rdfql.KindDate || ak == rdfql.KindDateTime) && (bk == rdfql.KindDate || bk == rdfql.KindDateTime):
		return compareDate(a, b)
	case isStringy(ak) && isStringy(bk):
		return compareString(a, b, flags)
	case ak == rdfql.KindURI && bk == rdfql.KindURI:
		if !flags.AllowURIOrder {
			if a.Lex() == b.Lex() {
				return 0, nil
			}
			return 0, &rdfql.TypeError{Op: "compare", Msg: "URI ordering not permitted"}
		}
		return strings.Compare(a.Lex(), b.Lex()), nil
	case ak == rdfql.KindBlank && bk == rdfql.KindBlank:
		if a.BlankID() == b.BlankID() {
			return 0, nil
		}
		return 0, &rdfql.TypeError{Op: "compare", Msg: "blank node ordering is a type error"}
	default:
		return 0, &rdfql.TypeError{Op: "compare", Msg: "incomparable types " + ak.String() + " and " + bk.String()}
	}
}

func isStringy(k rdfql.Kind) bool {
	return k == rdfql.KindPlainString || k == rdfql.KindXsdString
}

func compareString(a, b *rdfql.Literal, flags Flags) (int, error) {
	if !strings.EqualFold(a.Lang(), b.Lang()) {
		return 0, &rdfql.TypeError{Op: "compare", Msg: "language tags differ"}
	}
	if !dataTypeEq(a.DataType(), b.DataType()) {
		return 0, &rdfql.TypeError{Op: "compare", Msg: "datatypes differ"}
	}
	if flags.LocaleInsensitive {
		col := rootCollator
		if flags.Locale != language.Und {
			col = collate.New(flags.Locale, collate.IgnoreCase)
		}
		return col.CompareString(a.Lex(), b.Lex()), nil
	}
	return strings.Compare(a.Lex(), b.Lex()), nil
}

func compareNumeric(a, b *rdfql.Literal, mode CompareMode) (int, error) {
	pa, pb, kind, err := Promote(a, b, mode)
	if err != nil {
		return 0, err
	}
	switch kind {
	case rdfql.KindDouble:
		return compareDouble(pa.DoubleVal(), pb.DoubleVal()), nil
	case rdfql.KindFloat:
		return compareDouble(float64(pa.FloatVal()), float64(pb.FloatVal())), nil
	case rdfql.KindDecimal:
		return pa.DecVal().Cmp(pb.DecVal()), nil
	case rdfql.KindInteger:
		switch {
		case pa.IntVal() < pb.IntVal():
			return -1, nil
		case pa.IntVal() > pb.IntVal():
			return 1, nil
		default:
			return 0, nil
		}
	case rdfql.KindBoolean:
		switch {
		case !pa.BoolVal() && pb.BoolVal():
			return -1, nil
		case pa.BoolVal() && !pb.BoolVal():
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, ErrNoCommonType
	}
}

// compareDouble is NaN-aware per spec.md §4.2: NaN is not equal to itself
// and NaN sorts after finite values. Equality uses an epsilon to absorb
// binary floating-point noise the way the spec's "epsilon for equality"
// note prescribes.
const doubleEpsilon = 1e-9

func compareDouble(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 1 // NaN is never equal to itself; pick a stable, non-zero order
	case aNaN:
		return 1
	case bNaN:
		return -1
	}
	if math.Abs(a-b) <= doubleEpsilon {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

func compareDate(a, b *rdfql.Literal) (int, error) {
	pa, pb, _, err := promoteDate(a, b)
	if err != nil {
		return 0, err
	}
	ta, _ := pa.TimeVal()
	tb, _ := pb.TimeVal()
	switch {
	case ta.Before(tb):
		return -1, nil
	case ta.After(tb):
		return 1, nil
	default:
		return 0, nil
	}
}

// CanonicalKey returns a byte-string encoding of l such that two literals
// produce identical keys iff they are value-equal under Compare (spec.md
// §4.2): numeric kinds canonicalize through the same decimal widening
// Promote uses, so "1"^^xsd:integer and "1.0"^^xsd:double collide, and
// Date/DateTime canonicalize through the same UTC promotion Compare's
// compareDate uses. Kinds with no defined value-equality beyond term
// equality (strings, URIs, blanks, UDTs, ...) key on their term form, so
// callers that key a set of rows by CanonicalKey per column (e.g.
// exec.Distinct) get exactly spec.md §8's "no two rows that compare
// value-equal as tuples" invariant.
func CanonicalKey(l *rdfql.Literal) string {
	l = l.Resolve()
	if l == nil {
		return "\x00unbound"
	}
	switch {
	case l.Kind().IsNumeric():
		return "N:" + numericAsDecimal(l).String()
	case l.Kind() == rdfql.KindDate || l.Kind() == rdfql.KindDateTime:
		t, _ := toDateTimeUTC(l).TimeVal()
		return "D:" + t.UTC().Format(time.RFC3339Nano)
	case l.Kind() == rdfql.KindBlank:
		return "B:" + l.BlankID()
	case l.Kind() == rdfql.KindURI:
		return "U:" + l.Lex()
	default:
		dt := ""
		if l.DataType() != nil {
			dt = l.DataType().Value()
		}
		return "T:" + l.Kind().String() + "\x01" + l.Lex() + "\x01" + l.Lang() + "\x01" + dt
	}
}

// CompareSequence lifts Compare to a lexicographic comparison over two
// equal-length literal sequences (spec.md §4.2 "literal-sequence
// comparator"). An unbound (nil) literal sorts first. desc, if non-nil,
// flips the sign of the corresponding position (SPARQL ORDER BY DESC).
func CompareSequence(a, b []*rdfql.Literal, desc []bool, flags Flags) int {
	for i := range a {
		c := compareOne(a[i], b[i], flags)
		if len(desc) > i && desc[i] {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

func compareOne(a, b *rdfql.Literal, flags Flags) int {
	ra, rb := a.Resolve(), b.Resolve()
	if ra == nil && rb == nil {
		return 0
	}
	if ra == nil {
		return -1
	}
	if rb == nil {
		return 1
	}
	c, err := Compare(ra, rb, flags)
	if err != nil {
		// Type errors do not abort a sort; fall back to a stable,
		// deterministic order so Sort's "total order" invariant holds.
		return strings.Compare(ra.String(), rb.String())
	}
	return c
}
