package query

import (
	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/algebra"
	"github.com/knakk/rdfql/eval"
	"github.com/knakk/rdfql/exec"
	"github.com/knakk/rdfql/store"
)

// emptyRowSource yields a single empty row: the unit result of matching a pattern with
// no triples (the empty Basic/Group): one solution, no bindings.
func emptyRowSource() exec.RowSource {
	schema := rdfql.NewSchema(nil)
	return exec.NewRowSequence(schema, []*rdfql.Row{rdfql.NewRow(schema)})
}

// compilePattern turns a rewritten algebra.Pattern into a row-source
// tree (spec.md §4.6 "algebra tree → optimizer → row-source tree"),
// joining sibling triples/children left-to-right in source order (join
// order is never changed, per the optimizer's contract) and wrapping
// each node's attached Filters around its compiled result.
func compilePattern(p *algebra.Pattern, source store.Source, vars *rdfql.VariablesTable, flags eval.Flags) (exec.RowSource, error) {
	var rs exec.RowSource
	var err error

	switch p.Kind {
	case algebra.PatternBasic:
		rs, err = compileBasic(p, source)
	case algebra.PatternGroup:
		rs, err = compileGroup(p, source, vars, flags)
	case algebra.PatternOptional:
		rs, err = compileOptional(p, source, vars, flags)
	case algebra.PatternUnion:
		rs, err = compileUnion(p, source, vars, flags)
	case algebra.PatternGraph:
		rs, err = compileGraph(p, source, vars, flags)
	case algebra.PatternExtend:
		rs, err = compileExtend(p, source, vars, flags)
	case algebra.PatternValues:
		rs = exec.NewValues(p.ValuesVars, p.ValuesRows)
	default:
		return nil, &rdfql.ParseError{Msg: "compile: unknown pattern kind"}
	}
	if err != nil {
		return nil, err
	}

	if p.Kind != algebra.PatternOptional && len(p.Filters) > 0 {
		rs = exec.NewFilter(rs, p.Filters, vars)
	}
	return rs, nil
}

func compileBasic(p *algebra.Pattern, source store.Source) (exec.RowSource, error) {
	if len(p.Triples) == 0 {
		return emptyRowSource(), nil
	}
	var acc exec.RowSource = exec.NewTriplesMatch(p.Triples[0], source)
	for _, t := range p.Triples[1:] {
		acc = exec.NewJoin(acc, exec.NewTriplesMatch(t, source))
	}
	return acc, nil
}

func compileGroup(p *algebra.Pattern, source store.Source, vars *rdfql.VariablesTable, flags eval.Flags) (exec.RowSource, error) {
	if len(p.Children) == 0 {
		return emptyRowSource(), nil
	}
	acc, err := compilePattern(p.Children[0], source, vars, flags)
	if err != nil {
		return nil, err
	}
	for _, c := range p.Children[1:] {
		inner, err := compilePattern(c, source, vars, flags)
		if err != nil {
			return nil, err
		}
		acc = exec.NewJoin(acc, inner)
	}
	return acc, nil
}

func compileOptional(p *algebra.Pattern, source store.Source, vars *rdfql.VariablesTable, flags eval.Flags) (exec.RowSource, error) {
	required, err := compilePattern(p.Children[0], source, vars, flags)
	if err != nil {
		return nil, err
	}
	optional, err := compilePattern(p.Children[1], source, vars, flags)
	if err != nil {
		return nil, err
	}
	return exec.NewLeftJoin(required, optional, p.Filters, vars), nil
}

func compileUnion(p *algebra.Pattern, source store.Source, vars *rdfql.VariablesTable, flags eval.Flags) (exec.RowSource, error) {
	children := make([]exec.RowSource, len(p.Children))
	for i, c := range p.Children {
		rs, err := compilePattern(c, source, vars, flags)
		if err != nil {
			return nil, err
		}
		children[i] = rs
	}
	return exec.NewUnion(children...), nil
}

func compileGraph(p *algebra.Pattern, source store.Source, vars *rdfql.VariablesTable, flags eval.Flags) (exec.RowSource, error) {
	child, err := compilePattern(p.Child, source, vars, flags)
	if err != nil {
		return nil, err
	}
	return exec.NewGraph(p.GraphTerm, child, source), nil
}

func compileExtend(p *algebra.Pattern, source store.Source, vars *rdfql.VariablesTable, flags eval.Flags) (exec.RowSource, error) {
	child, err := compilePattern(p.Child, source, vars, flags)
	if err != nil {
		return nil, err
	}
	return exec.NewExtend(child, p.ExtendVar, p.ExtendExpr, vars), nil
}
