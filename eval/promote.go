// Package eval implements the expression evaluator: numeric promotion,
// term/value equality and comparison, effective boolean value, and
// post-order evaluation of algebra.Expr trees (spec.md §4.2–§4.5).
package eval

import (
	"github.com/knakk/rdfql"
	"github.com/shopspring/decimal"
)

// CompareMode selects which promotion table §9's Open Question applies:
// XQuery (the SPARQL/XPath F&O rules, primary) or RDQL (the legacy
// dialect's simpler widen-to-double rule, which the spec allows an
// implementation to omit but does not require omitting).
type CompareMode int

const (
	XQuery CompareMode = iota
	RDQL
)

func numericRank(k rdfql.Kind) int {
	switch k {
	case rdfql.KindBoolean:
		return 0
	case rdfql.KindInteger:
		return 1
	case rdfql.KindFloat:
		return 2
	case rdfql.KindDouble:
		return 3
	case rdfql.KindDecimal:
		return 4
	default:
		return -1
	}
}

// ErrNoCommonType is returned by Promote when no common type is reachable
// in the promotion lattice (spec.md §4.3 "the result is unknown and the
// operation yields a type error").
var ErrNoCommonType = &rdfql.TypeError{Op: "promote", Msg: "no common type for operands"}

// promoteNumericKind picks the result Kind two numeric kinds promote to,
// under XQuery rules: Decimal demotes to Float/Double when paired with
// one of them (spec.md §4.3); otherwise the higher-ranked kind wins.
func promoteNumericKind(a, b rdfql.Kind) (rdfql.Kind, bool) {
	if a == b {
		return a, true
	}
	if a == rdfql.KindDecimal && (b == rdfql.KindFloat || b == rdfql.KindDouble) {
		return b, true
	}
	if b == rdfql.KindDecimal && (a == rdfql.KindFloat || a == rdfql.KindDouble) {
		return a, true
	}
	ra, rb := numericRank(a), numericRank(b)
	if ra < 0 || rb < 0 {
		return 0, false
	}
	if ra > rb {
		return a, true
	}
	return b, true
}

// Promote converts a and b to a common numeric or date(time) kind per
// spec.md §4.3, returning the converted pair and the result kind. It
// returns ErrNoCommonType if a and b cannot be reconciled.
func Promote(a, b *rdfql.Literal, mode CompareMode) (*rdfql.Literal, *rdfql.Literal, rdfql.Kind, error) {
	ak, bk := a.Kind(), b.Kind()

	if ak == rdfql.KindDate || ak == rdfql.KindDateTime || bk == rdfql.KindDate || bk == rdfql.KindDateTime {
		return promoteDate(a, b)
	}
	if !ak.IsNumeric() || !bk.IsNumeric() {
		return nil, nil, 0, ErrNoCommonType
	}
	if mode == RDQL {
		return rdqlPromote(a, b)
	}

	result, ok := promoteNumericKind(ak, bk)
	if !ok {
		return nil, nil, 0, ErrNoCommonType
	}
	pa, err := convertNumeric(a, result)
	if err != nil {
		return nil, nil, 0, err
	}
	pb, err := convertNumeric(b, result)
	if err != nil {
		return nil, nil, 0, err
	}
	return pa, pb, result, nil
}

// rdqlPromote implements the legacy RDQL promotion rule: every numeric
// pair widens to Double, the simplest common representation and the one
// the original RDQL evaluator used throughout.
func rdqlPromote(a, b *rdfql.Literal) (*rdfql.Literal, *rdfql.Literal, rdfql.Kind, error) {
	pa, err := convertNumeric(a, rdfql.KindDouble)
	if err != nil {
		return nil, nil, 0, err
	}
	pb, err := convertNumeric(b, rdfql.KindDouble)
	if err != nil {
		return nil, nil, 0, err
	}
	return pa, pb, rdfql.KindDouble, nil
}

func numericAsDecimal(l *rdfql.Literal) decimal.Decimal {
	switch l.Kind() {
	case rdfql.KindBoolean:
		if l.BoolVal() {
			return decimal.NewFromInt(1)
		}
		return decimal.NewFromInt(0)
	case rdfql.KindInteger:
		return decimal.NewFromInt(l.IntVal())
	case rdfql.KindFloat:
		return decimal.NewFromFloat32(l.FloatVal())
	case rdfql.KindDouble:
		return decimal.NewFromFloat(l.DoubleVal())
	case rdfql.KindDecimal:
		return l.DecVal()
	default:
		return decimal.Zero
	}
}

func numericAsFloat64(l *rdfql.Literal) float64 {
	switch l.Kind() {
	case rdfql.KindBoolean:
		if l.BoolVal() {
			return 1
		}
		return 0
	case rdfql.KindInteger:
		return float64(l.IntVal())
	case rdfql.KindFloat:
		return float64(l.FloatVal())
	case rdfql.KindDouble:
		return l.DoubleVal()
	case rdfql.KindDecimal:
		f, _ := l.DecVal().Float64()
		return f
	default:
		return 0
	}
}

func convertNumeric(l *rdfql.Literal, to rdfql.Kind) (*rdfql.Literal, error) {
	if l.Kind() == to {
		return l, nil
	}
	switch to {
	case rdfql.KindInteger:
		return rdfql.NewInteger(int64(numericAsFloat64(l))), nil
	case rdfql.KindFloat:
		return rdfql.NewFloat(float32(numericAsFloat64(l))), nil
	case rdfql.KindDouble:
		return rdfql.NewDouble(numericAsFloat64(l)), nil
	case rdfql.KindDecimal:
		return rdfql.NewDecimal(numericAsDecimal(l)), nil
	default:
		return nil, ErrNoCommonType
	}
}

// promoteDate implements the Date/DateTime corner of the lattice: Date
// promotes to DateTime for comparison, and a DateTime produced by that
// promotion which lacks an explicit timezone is assigned UTC (spec.md
// §4.3).
func promoteDate(a, b *rdfql.Literal) (*rdfql.Literal, *rdfql.Literal, rdfql.Kind, error) {
	ak, bk := a.Kind(), b.Kind()
	if ak != rdfql.KindDate && ak != rdfql.KindDateTime {
		return nil, nil, 0, ErrNoCommonType
	}
	if bk != rdfql.KindDate && bk != rdfql.KindDateTime {
		return nil, nil, 0, ErrNoCommonType
	}
	if ak == rdfql.KindDate && bk == rdfql.KindDate {
		return a, b, rdfql.KindDate, nil
	}
	return toDateTimeUTC(a), toDateTimeUTC(b), rdfql.KindDateTime, nil
}

func toDateTimeUTC(l *rdfql.Literal) *rdfql.Literal {
	if l.Kind() == rdfql.KindDateTime {
		return l
	}
	t, hasTZ := l.TimeVal()
	if !hasTZ {
		t = t.UTC()
	}
	return rdfql.NewDateTime(t, true)
}
