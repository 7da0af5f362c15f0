package rdfql

import (
	"fmt"

	"github.com/pkg/errors"
)

// Severity classifies how a log handler should treat an error.
type Severity int

// Exported severities, in the order the log handler dispatches on them.
const (
	Debug Severity = iota
	Info
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ParseError signals a malformed query. Fatal to the current operation.
type ParseError struct {
	Line, Col int
	Msg       string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col, e.Msg)
	}
	return "parse error: " + e.Msg
}

// TypeError is an evaluation-time error per SPARQL/XPath F&O. Type errors
// are local: they never abort a query, they convert to false inside EBV and
// filter contexts and to unbound inside BIND.
type TypeError struct {
	Op  string
	Msg string
}

func (e *TypeError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("type error in %s: %s", e.Op, e.Msg)
	}
	return "type error: " + e.Msg
}

// DataError signals malformed RDF input (a lexical form that cannot be
// parsed into its declared datatype, a truncated serialization, etc).
type DataError struct {
	Msg string
}

func (e *DataError) Error() string { return "data error: " + e.Msg }

// IoError wraps a failure reading or writing a triples source or
// serialization stream.
type IoError struct {
	Cause error
}

func (e *IoError) Error() string { return "io error: " + e.Cause.Error() }
func (e *IoError) Unwrap() error { return e.Cause }

// NewIoError wraps err as an IoError, annotating it with op the way
// aretext-aretext's config/file.go annotates ioutil failures.
func NewIoError(op string, err error) *IoError {
	return &IoError{Cause: errors.Wrapf(err, "%s", op)}
}

// ProtocolError signals a failure of the remote SPARQL protocol (bad
// status code, unrecognized content type, malformed results body).
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string { return "protocol error: " + e.Msg }

// ResourceError signals an allocation or resource-exhaustion failure.
type ResourceError struct {
	Msg string
}

func (e *ResourceError) Error() string { return "resource error: " + e.Msg }

// LogHandler receives the warnings the engine reports, keyed by severity:
// service.RowSource sends a Warning when a SERVICE dataset names more than
// one background graph. Other errors are returned to the caller and do not
// pass through the handler. A handler MAY choose to abort by panicking;
// the engine itself never calls os.Exit.
type LogHandler func(sev Severity, err error)

// DefaultLogHandler logs Warning and above to the standard log package, the
// same logger aretext-aretext falls back to in exec/helpers.go.
var DefaultLogHandler LogHandler = func(sev Severity, err error) {
	if sev < Warning {
		return
	}
	stdLogger.Printf("[%s] %v", sev, err)
}
