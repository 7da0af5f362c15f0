// Package resultsio implements the DAWG-style RDF results vocabulary
// round trip (spec.md §4.7 "RDF-results reader", §6) and a pluggable
// Formatter registry keyed by content type.
package resultsio

import (
	"sort"
	"strconv"

	"github.com/knakk/rdfql"
)

const rsNS = "http://www.w3.org/2001/sw/DataAccess/tests/result-set#"

var (
	rsResultSet      = rdfql.NewIRI(rsNS + "ResultSet")
	rsResultVariable = rdfql.NewIRI(rsNS + "resultVariable")
	rsSolution       = rdfql.NewIRI(rsNS + "solution")
	rsBinding        = rdfql.NewIRI(rsNS + "binding")
	rsVariable       = rdfql.NewIRI(rsNS + "variable")
	rsValue          = rdfql.NewIRI(rsNS + "value")
	rsIndex          = rdfql.NewIRI(rsNS + "index")
	rdfTypeIRI       = rdfql.NewIRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")
)

func blank(prefix string, n int) *rdfql.Literal {
	return rdfql.NewBlank(prefix + strconv.Itoa(n))
}

func uriLit(i *rdfql.IRI) *rdfql.Literal { return rdfql.NewURI(i) }

// WriteResultSet encodes a bindings result (an ordered variable list and
// a row sequence) as the triples of a DAWG rs:ResultSet graph. rs:index
// is emitted on every solution so order survives the triples being
// reordered in transit (spec.md §4.7 "Supports optional rs:index for
// preserving result order").
func WriteResultSet(vars []string, rows []*rdfql.Row) []rdfql.Triple {
	root := blank("rs", 0)
	var out []rdfql.Triple
	out = append(out, rdfql.Triple{Subj: root, Pred: uriLit(rdfTypeIRI), Obj: uriLit(rsResultSet)})
	for _, v := range vars {
		out = append(out, rdfql.Triple{Subj: root, Pred: uriLit(rsResultVariable), Obj: rdfql.NewXsdString(v)})
	}
	for i, row := range rows {
		sol := blank("sol", i)
		out = append(out, rdfql.Triple{Subj: root, Pred: uriLit(rsSolution), Obj: sol})
		out = append(out, rdfql.Triple{Subj: sol, Pred: uriLit(rsIndex), Obj: rdfql.NewInteger(int64(i))})
		for j, name := range vars {
			val := row.Vals[j]
			if val == nil {
				continue
			}
			b := blank("bind", i*len(vars)+j)
			out = append(out, rdfql.Triple{Subj: sol, Pred: uriLit(rsBinding), Obj: b})
			out = append(out, rdfql.Triple{Subj: b, Pred: uriLit(rsVariable), Obj: rdfql.NewXsdString(name)})
			out = append(out, rdfql.Triple{Subj: b, Pred: uriLit(rsValue), Obj: val})
		}
	}
	return out
}

// blankKey renders a node's identity for use as a map key: blank nodes
// by label, everything else by its rendered form.
func blankKey(l *rdfql.Literal) string {
	if l == nil {
		return ""
	}
	if l.Kind() == rdfql.KindBlank {
		return "_:" + l.BlankID()
	}
	return l.String()
}

// predIs reports whether triple predicate p is the URI want.
func predIs(p *rdfql.Literal, want *rdfql.IRI) bool {
	return p != nil && p.Kind() == rdfql.KindURI && p.DataType() != nil && p.DataType().Eq(want)
}

type solution struct {
	index    int
	hasIndex bool
	order    int
	bindings map[string]*rdfql.Literal
}

// ReadResultSet reconstructs the variable list and row sequence a
// WriteResultSet-shaped triple set encodes, ordering solutions by
// rs:index when present and by first-appearance order otherwise.
func ReadResultSet(triples []rdfql.Triple) ([]string, []*rdfql.Row, error) {
	var varNames []string
	solutions := map[string]*solution{}
	var solutionOrder []string
	bindingVar := map[string]string{}
	bindingVal := map[string]*rdfql.Literal{}

	solutionFor := func(key string) *solution {
		s, ok := solutions[key]
		if !ok {
			s = &solution{bindings: map[string]*rdfql.Literal{}, order: len(solutionOrder)}
			solutions[key] = s
			solutionOrder = append(solutionOrder, key)
		}
		return s
	}

	for _, t := range triples {
		switch {
		case predIs(t.Pred, rsResultVariable):
			varNames = append(varNames, t.Obj.Lex())
		case predIs(t.Pred, rsSolution):
			solutionFor(blankKey(t.Obj))
		case predIs(t.Pred, rsIndex):
			s := solutionFor(blankKey(t.Subj))
			s.index = int(t.Obj.IntVal())
			s.hasIndex = true
		case predIs(t.Pred, rsVariable):
			bindingVar[blankKey(t.Subj)] = t.Obj.Lex()
		case predIs(t.Pred, rsValue):
			bindingVal[blankKey(t.Subj)] = t.Obj
		}
	}

	for _, t := range triples {
		if !predIs(t.Pred, rsBinding) {
			continue
		}
		s, ok := solutions[blankKey(t.Subj)]
		if !ok {
			continue
		}
		bindKey := blankKey(t.Obj)
		name, hasName := bindingVar[bindKey]
		val, hasVal := bindingVal[bindKey]
		if hasName && hasVal {
			s.bindings[name] = val
		}
	}

	ordered := make([]*solution, 0, len(solutionOrder))
	for _, key := range solutionOrder {
		ordered = append(ordered, solutions[key])
	}
	sort.SliceStable(ordered, func(a, b int) bool {
		sa, sb := ordered[a], ordered[b]
		if sa.hasIndex && sb.hasIndex {
			return sa.index < sb.index
		}
		return sa.order < sb.order
	})

	schema := rdfql.NewSchema(varNames)
	rows := make([]*rdfql.Row, len(ordered))
	for i, s := range ordered {
		row := rdfql.NewRow(schema)
		for name, val := range s.bindings {
			row.Set(name, val)
		}
		rows[i] = row
	}
	return varNames, rows, nil
}
