// Package xsd exports IRIs of the XSD datatypes the engine knows how to
// validate and promote, mirroring the teacher package's xsd subpackage
// (github.com/knakk/rdf/xsd), which re-exports rdf.IRI values for the
// same built-in datatypes.
package xsd

import "github.com/knakk/rdfql"

var (
	String  = rdfql.XSDString
	Boolean = rdfql.XSDBoolean
	Decimal = rdfql.XSDDecimal
	Integer = rdfql.XSDInteger

	Double = rdfql.XSDDouble
	Float  = rdfql.XSDFloat

	Date     = rdfql.XSDDate
	DateTime = rdfql.XSDDateTime

	LangString = rdfql.RDFLangString
)
