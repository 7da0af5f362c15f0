package eval

import (
	"github.com/knakk/rdfql"
)

// Cast implements the `cast(t, e)` expression operator. Per spec.md §4.5
// only URI→xsd:string, numeric↔numeric, and string→date/datetime (with
// datatype-check validation) are permitted; every other combination is a
// *rdfql.TypeError.
func Cast(to *rdfql.IRI, v *rdfql.Literal) (*rdfql.Literal, error) {
	r := v.Resolve()
	if r == nil {
		return nil, &rdfql.TypeError{Op: "cast", Msg: "unbound argument"}
	}

	switch {
	case to.Eq(rdfql.XSDString):
		switch r.Kind() {
		case rdfql.KindURI:
			return rdfql.NewXsdString(r.Lex()), nil
		}
		return nil, castError(r, to)

	case r.Kind().IsNumeric() && isNumericDatatype(to):
		return castNumeric(r, to)

	case isStringy(r.Kind()) && (to.Eq(rdfql.XSDDate) || to.Eq(rdfql.XSDDateTime)):
		out := rdfql.NewTyped(r.Lex(), "", to)
		if out.Kind() == rdfql.KindUDT {
			return nil, &rdfql.TypeError{Op: "cast", Msg: "invalid lexical form for " + to.Value()}
		}
		return out, nil

	default:
		return nil, castError(r, to)
	}
}

func castError(v *rdfql.Literal, to *rdfql.IRI) error {
	return &rdfql.TypeError{Op: "cast", Msg: "cannot cast " + v.Kind().String() + " to " + to.Value()}
}

func isNumericDatatype(t *rdfql.IRI) bool {
	return t.Eq(rdfql.XSDInteger) || t.Eq(rdfql.XSDFloat) || t.Eq(rdfql.XSDDouble) || t.Eq(rdfql.XSDDecimal) || t.Eq(rdfql.XSDBoolean)
}

func castNumeric(v *rdfql.Literal, to *rdfql.IRI) (*rdfql.Literal, error) {
	switch {
	case to.Eq(rdfql.XSDInteger):
		return rdfql.NewInteger(int64(numericAsFloat64(v))), nil
	case to.Eq(rdfql.XSDFloat):
		return rdfql.NewFloat(float32(numericAsFloat64(v))), nil
	case to.Eq(rdfql.XSDDouble):
		return rdfql.NewDouble(numericAsFloat64(v)), nil
	case to.Eq(rdfql.XSDDecimal):
		return rdfql.NewDecimal(numericAsDecimal(v)), nil
	case to.Eq(rdfql.XSDBoolean):
		return rdfql.NewBoolean(numericAsFloat64(v) != 0), nil
	}
	return nil, castError(v, to)
}
