package eval

import "github.com/knakk/rdfql"

// EBV computes a literal's Effective Boolean Value per spec.md §4.4.
// It returns a *rdfql.TypeError for any type EBV is undefined on.
func EBV(l *rdfql.Literal) (bool, error) {
	l = l.Resolve()
	if l == nil {
		return false, nil // unbound variable => false
	}
	switch l.Kind() {
	case rdfql.KindBoolean:
		return l.BoolVal(), nil
	case rdfql.KindPlainString, rdfql.KindXsdString:
		return l.Lex() != "", nil
	case rdfql.KindInteger:
		return l.IntVal() != 0, nil
	case rdfql.KindFloat:
		f := l.FloatVal()
		return f != 0 && f == f, nil // f==f false for NaN
	case rdfql.KindDouble:
		d := l.DoubleVal()
		return d != 0 && d == d, nil
	case rdfql.KindDecimal:
		return !l.DecVal().IsZero(), nil
	default:
		return false, &rdfql.TypeError{Op: "ebv", Msg: "no effective boolean value for " + l.Kind().String()}
	}
}
