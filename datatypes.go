package rdfql

// Well-known XSD and RDF datatype IRIs, interned once at package init.
// Exported so both the xsd subpackage (a thin re-export, mirroring the
// teacher's xsd subpackage re-exporting rdf.IRI values) and the evaluator
// can refer to them without an import cycle.
var (
	XSDString   = NewIRI("http://www.w3.org/2001/XMLSchema#string")
	XSDBoolean  = NewIRI("http://www.w3.org/2001/XMLSchema#boolean")
	XSDDecimal  = NewIRI("http://www.w3.org/2001/XMLSchema#decimal")
	XSDInteger  = NewIRI("http://www.w3.org/2001/XMLSchema#integer")
	XSDDouble   = NewIRI("http://www.w3.org/2001/XMLSchema#double")
	XSDFloat    = NewIRI("http://www.w3.org/2001/XMLSchema#float")
	XSDDate     = NewIRI("http://www.w3.org/2001/XMLSchema#date")
	XSDDateTime = NewIRI("http://www.w3.org/2001/XMLSchema#dateTime")

	RDFLangString = NewIRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#langString")
)
