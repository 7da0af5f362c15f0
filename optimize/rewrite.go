// Package optimize implements the five structural, locally-correct
// rewrite passes the algebra tree is normalized with before execution
// (spec.md §4.6). No cost-based planning is performed, and join order is
// never changed — join order is source order, callers rely on it.
package optimize

import (
	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/algebra"
)

// Rewrite applies the five passes of spec.md §4.6 to pattern, in order:
//  1. flatten adjacent Group(Group(...))
//  2. lift filters attached to a Basic inside a Group onto the enclosing
//     Group, when the filter only references that Basic's variables
//  3. collapse a single-child, filterless Group into its child
//  4. push Graph(g, Basic(triples)) down by annotating each triple's
//     Origin slot with g
//  5. expand unresolved QName literals using prefixes
//
// Passes 1-3 interact (flattening can expose a new lift/collapse
// opportunity) so they run to a fixpoint; 4 and 5 run once each, last.
func Rewrite(pattern *algebra.Pattern, prefixes map[string]string) (*algebra.Pattern, error) {
	for {
		next, changed := flattenGroups(pattern)
		next, lifted := liftFilters(next)
		next, collapsed := collapseSingleChildGroups(next)
		pattern = next
		if !changed && !lifted && !collapsed {
			break
		}
	}
	pattern = pushGraphDown(pattern, nil)
	if err := expandQNames(pattern, prefixes); err != nil {
		return nil, err
	}
	return pattern, nil
}

// flattenGroups merges a Group whose direct child is itself a Group (and
// carries no filters of its own) into one Group, preserving order
// (spec.md §4.6 pass 1).
func flattenGroups(p *algebra.Pattern) (*algebra.Pattern, bool) {
	if p == nil {
		return p, false
	}
	changed := false
	switch p.Kind {
	case algebra.PatternGroup:
		var newChildren []*algebra.Pattern
		for _, c := range p.Children {
			rc, rchanged := flattenGroups(c)
			changed = changed || rchanged
			if rc.Kind == algebra.PatternGroup && len(rc.Filters) == 0 {
				newChildren = append(newChildren, rc.Children...)
				changed = true
			} else {
				newChildren = append(newChildren, rc)
			}
		}
		p.Children = newChildren
	case algebra.PatternOptional, algebra.PatternUnion:
		for i, c := range p.Children {
			rc, rchanged := flattenGroups(c)
			p.Children[i] = rc
			changed = changed || rchanged
		}
	case algebra.PatternGraph, algebra.PatternExtend:
		rc, rchanged := flattenGroups(p.Child)
		p.Child = rc
		changed = changed || rchanged
	}
	return p, changed
}

// liftFilters moves a filter attached to a Basic pattern that is a direct
// child of a Group onto the Group itself, provided the filter references
// only variables that Basic binds (spec.md §4.6 pass 2). This is a
// no-op semantically (the filter still sees the same bindings once the
// Basic has been joined into the Group) and simplifies execution by
// letting a single Filter row source sit above the Group's join tree
// instead of one per Basic.
func liftFilters(p *algebra.Pattern) (*algebra.Pattern, bool) {
	if p == nil {
		return p, false
	}
	changed := false
	switch p.Kind {
	case algebra.PatternGroup:
		for i, c := range p.Children {
			rc, rchanged := liftFilters(c)
			p.Children[i] = rc
			changed = changed || rchanged
			if rc.Kind == algebra.PatternBasic && len(rc.Filters) > 0 {
				bound := map[string]bool{}
				for _, v := range rc.Variables() {
					bound[v] = true
				}
				var kept []*algebra.Expr
				for _, f := range rc.Filters {
					if f.ReferencesOnly(bound) {
						p.Filters = append(p.Filters, f)
						changed = true
					} else {
						kept = append(kept, f)
					}
				}
				rc.Filters = kept
			}
		}
	case algebra.PatternOptional, algebra.PatternUnion:
		for i, c := range p.Children {
			rc, rchanged := liftFilters(c)
			p.Children[i] = rc
			changed = changed || rchanged
		}
	case algebra.PatternGraph, algebra.PatternExtend:
		rc, rchanged := liftFilters(p.Child)
		p.Child = rc
		changed = changed || rchanged
	}
	return p, changed
}

// collapseSingleChildGroups collapses a Group with exactly one child and
// no filters of its own into that child (spec.md §4.6 pass 3).
func collapseSingleChildGroups(p *algebra.Pattern) (*algebra.Pattern, bool) {
	if p == nil {
		return p, false
	}
	changed := false
	switch p.Kind {
	case algebra.PatternGroup:
		for i, c := range p.Children {
			rc, rchanged := collapseSingleChildGroups(c)
			p.Children[i] = rc
			changed = changed || rchanged
		}
		if len(p.Children) == 1 && len(p.Filters) == 0 {
			return p.Children[0], true
		}
	case algebra.PatternOptional, algebra.PatternUnion:
		for i, c := range p.Children {
			rc, rchanged := collapseSingleChildGroups(c)
			p.Children[i] = rc
			changed = changed || rchanged
		}
	case algebra.PatternGraph, algebra.PatternExtend:
		rc, rchanged := collapseSingleChildGroups(p.Child)
		p.Child = rc
		changed = changed || rchanged
	}
	return p, changed
}

// pushGraphDown annotates every triple inside a Graph(g, Basic(...))
// pattern's Origin slot with g, recursively, so that downstream execution
// never needs special Graph-scoping logic for a plain Basic child
// (spec.md §4.6 pass 4). graphTerm is the innermost enclosing Graph term,
// or nil outside any GRAPH block.
func pushGraphDown(p *algebra.Pattern, graphTerm *rdfql.Literal) *algebra.Pattern {
	if p == nil {
		return p
	}
	switch p.Kind {
	case algebra.PatternBasic:
		if graphTerm != nil {
			for i := range p.Triples {
				p.Triples[i].Origin = graphTerm
			}
		}
	case algebra.PatternGroup, algebra.PatternOptional, algebra.PatternUnion:
		for i, c := range p.Children {
			p.Children[i] = pushGraphDown(c, graphTerm)
		}
	case algebra.PatternGraph:
		p.Child = pushGraphDown(p.Child, p.GraphTerm)
	case algebra.PatternExtend:
		p.Child = pushGraphDown(p.Child, graphTerm)
	}
	return p
}

// expandQNames resolves every QName literal reachable from p's triples
// and filter expressions using prefixes, replacing it in place with a
// resolved URI literal. It aborts (spec.md §4.6 pass 5) on the first
// unresolvable prefix.
func expandQNames(p *algebra.Pattern, prefixes map[string]string) error {
	if p == nil {
		return nil
	}
	switch p.Kind {
	case algebra.PatternBasic:
		for i, t := range p.Triples {
			resolved, err := expandTriple(t, prefixes)
			if err != nil {
				return err
			}
			p.Triples[i] = resolved
		}
	case algebra.PatternGroup, algebra.PatternOptional, algebra.PatternUnion:
		for _, c := range p.Children {
			if err := expandQNames(c, prefixes); err != nil {
				return err
			}
		}
	case algebra.PatternGraph:
		gt, err := expandLiteral(p.GraphTerm, prefixes)
		if err != nil {
			return err
		}
		p.GraphTerm = gt
		if err := expandQNames(p.Child, prefixes); err != nil {
			return err
		}
	case algebra.PatternExtend:
		if err := expandExprQNames(p.ExtendExpr, prefixes); err != nil {
			return err
		}
		if err := expandQNames(p.Child, prefixes); err != nil {
			return err
		}
	}
	for _, f := range p.Filters {
		if err := expandExprQNames(f, prefixes); err != nil {
			return err
		}
	}
	return nil
}

func expandTriple(t rdfql.Triple, prefixes map[string]string) (rdfql.Triple, error) {
	var err error
	if t.Subj, err = expandLiteral(t.Subj, prefixes); err != nil {
		return t, err
	}
	if t.Pred, err = expandLiteral(t.Pred, prefixes); err != nil {
		return t, err
	}
	if t.Obj, err = expandLiteral(t.Obj, prefixes); err != nil {
		return t, err
	}
	if t.Origin, err = expandLiteral(t.Origin, prefixes); err != nil {
		return t, err
	}
	return t, nil
}

func expandLiteral(l *rdfql.Literal, prefixes map[string]string) (*rdfql.Literal, error) {
	if l == nil || l.Kind() != rdfql.KindQName {
		return l, nil
	}
	prefix, local := l.QName()
	ns, ok := prefixes[prefix]
	if !ok {
		return nil, &rdfql.ParseError{Msg: "unresolved prefix: " + prefix}
	}
	return rdfql.NewURI(rdfql.NewIRI(ns + local)), nil
}

func expandExprQNames(e *algebra.Expr, prefixes map[string]string) error {
	if e == nil {
		return nil
	}
	if e.Op == algebra.OpLiteral && e.Lit != nil && e.Lit.Kind() == rdfql.KindQName {
		resolved, err := expandLiteral(e.Lit, prefixes)
		if err != nil {
			return err
		}
		e.Lit = resolved
	}
	for _, a := range e.Args {
		if err := expandExprQNames(a, prefixes); err != nil {
			return err
		}
	}
	return nil
}
