package eval

import (
	"strings"

	"github.com/knakk/rdfql"
)

// Builtins returns the default OpFuncCall registry: a handful of XPath
// F&O string functions, keyed by their function: namespace URI. Callers
// may replace or extend Context.Funcs; this is not an exhaustive XPath
// function library, only the small set the engine ships out of the box.
func Builtins() map[string]Func {
	const ns = "http://www.w3.org/2005/xpath-functions#"
	return map[string]Func{
		ns + "concat": func(_ *Context, args []*rdfql.Literal) (*rdfql.Literal, error) {
			var b strings.Builder
			for _, a := range args {
				if a == nil {
					return nil, &rdfql.TypeError{Op: "concat", Msg: "unbound argument"}
				}
				b.WriteString(a.Lex())
			}
			return rdfql.NewXsdString(b.String()), nil
		},
		ns + "upper-case": func(_ *Context, args []*rdfql.Literal) (*rdfql.Literal, error) {
			if len(args) != 1 || args[0] == nil {
				return nil, &rdfql.TypeError{Op: "upper-case", Msg: "expects one string argument"}
			}
			return rdfql.NewXsdString(strings.ToUpper(args[0].Lex())), nil
		},
		ns + "lower-case": func(_ *Context, args []*rdfql.Literal) (*rdfql.Literal, error) {
			if len(args) != 1 || args[0] == nil {
				return nil, &rdfql.TypeError{Op: "lower-case", Msg: "expects one string argument"}
			}
			return rdfql.NewXsdString(strings.ToLower(args[0].Lex())), nil
		},
		ns + "string-length": func(_ *Context, args []*rdfql.Literal) (*rdfql.Literal, error) {
			if len(args) != 1 || args[0] == nil {
				return nil, &rdfql.TypeError{Op: "string-length", Msg: "expects one string argument"}
			}
			return rdfql.NewInteger(int64(len([]rune(args[0].Lex())))), nil
		},
		ns + "contains": func(_ *Context, args []*rdfql.Literal) (*rdfql.Literal, error) {
			if len(args) != 2 || args[0] == nil || args[1] == nil {
				return nil, &rdfql.TypeError{Op: "contains", Msg: "expects two string arguments"}
			}
			return rdfql.NewBoolean(strings.Contains(args[0].Lex(), args[1].Lex())), nil
		},
	}
}
