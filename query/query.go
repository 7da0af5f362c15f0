// Package query wires the algebra tree to the row-source framework
// (spec.md §4.6 data flow: algebra tree → optimizer → row-source tree)
// and exposes the verb-dependent results cursor of spec.md §4.9.
package query

import (
	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/algebra"
	"github.com/knakk/rdfql/eval"
	"github.com/knakk/rdfql/exec"
	"github.com/knakk/rdfql/optimize"
	"github.com/knakk/rdfql/store"
)

// Prepared is a query whose row-source tree has been built and is ready
// to Execute (spec.md §4.6 "query_prepare").
type Prepared struct {
	query  *algebra.Query
	source store.Source
	base   exec.RowSource // the compiled WHERE-clause row source, pre-verb
	flags  eval.Flags

	// remote is set by PrepareRemote: base's rows are already the
	// endpoint's final answer to the submitted query text, so Execute
	// returns them as-is instead of re-running Order/Project/Distinct/
	// Slice over them.
	remote bool
}

// Prepare runs the optimizer over q.Pattern, opens a Source from
// sourceFactory, and compiles the rewritten pattern into a row-source
// tree. Returns a *rdfql.ParseError if a QName prefix cannot be
// resolved (optimizer pass 5).
func Prepare(q *algebra.Query, sourceFactory store.Factory) (*Prepared, error) {
	if q.ServiceEndpoint != nil {
		return nil, &rdfql.ResourceError{Msg: "query: Query.ServiceEndpoint is set; use PrepareRemote instead of a local triples source"}
	}
	return PrepareWithFlags(q, sourceFactory, eval.DefaultFlags)
}

// PrepareWithFlags is Prepare with an explicit comparison-flags word
// (spec.md §4.2 "flags word (comparison mode, URI ordering,
// locale-insensitive)").
func PrepareWithFlags(q *algebra.Query, sourceFactory store.Factory, flags eval.Flags) (*Prepared, error) {
	pattern := q.Pattern
	if pattern == nil {
		pattern = algebra.NewGroup()
	}
	rewritten, err := optimize.Rewrite(pattern, q.Prefixes)
	if err != nil {
		return nil, err
	}

	src, err := sourceFactory.Init(q)
	if err != nil {
		return nil, err
	}

	base, err := compilePattern(rewritten, src, q.Variables, flags)
	if err != nil {
		src.Close()
		return nil, err
	}

	return &Prepared{query: q, source: src, base: base, flags: flags}, nil
}

// Execute initializes the row-source tree and returns a verb-appropriate
// Cursor. Callers MUST call Cursor.Finish when done (spec.md §5
// "Cancellation").
func (p *Prepared) Execute() (*Cursor, error) {
	if err := p.base.Init(); err != nil {
		return nil, err
	}

	if p.remote {
		schema, err := p.base.EnsureVariables()
		if err != nil {
			p.base.Finish()
			return nil, err
		}
		return &Cursor{verb: algebra.Select, schema: schema, rows: p.base}, nil
	}

	switch p.query.Verb {
	case algebra.Ask:
		return p.executeAsk()
	case algebra.Construct:
		return p.executeGraph(p.query.ConstructTemplate)
	case algebra.Describe:
		return p.executeDescribe()
	default:
		return p.executeSelect()
	}
}

func (p *Prepared) finishBase() error { return p.base.Finish() }

func (p *Prepared) executeAsk() (*Cursor, error) {
	row, err := p.base.ReadRow()
	if err != nil {
		p.finishBase()
		return nil, err
	}
	if err := p.finishBase(); err != nil {
		return nil, err
	}
	return &Cursor{verb: algebra.Ask, boolVal: row != nil, finished: true}, nil
}

// rowsPipeline assembles Order → Project → Distinct → Slice over base,
// per SPARQL's algebra evaluation order (ORDER BY sees the full pattern
// solution, before projection narrows it) — an Open Question resolution
// recorded in DESIGN.md, since spec.md names each operation without
// fixing their relative order.
func (p *Prepared) rowsPipeline() (exec.RowSource, error) {
	rs := p.base
	if len(p.query.Order) > 0 {
		rs = exec.NewSort(rs, p.query.Order, p.query.Variables, p.flags)
	}
	if p.query.Verb == algebra.Select && p.query.Project != nil {
		rs = exec.NewProject(rs, p.query.Project, p.query.Variables)
	}
	if p.query.Distinct {
		rs = exec.NewDistinct(rs)
	}
	if p.query.Limit >= 0 || p.query.Offset >= 0 {
		offset := p.query.Offset
		if offset < 0 {
			offset = 0
		}
		limit := p.query.Limit
		if limit < 0 {
			limit = -1
		}
		rs = exec.NewSlice(rs, offset, limit)
	}
	if err := rs.Init(); err != nil {
		return nil, err
	}
	return rs, nil
}

func (p *Prepared) executeSelect() (*Cursor, error) {
	rs, err := p.rowsPipeline()
	if err != nil {
		p.finishBase()
		return nil, err
	}
	schema, err := rs.EnsureVariables()
	if err != nil {
		rs.Finish()
		return nil, err
	}
	return &Cursor{verb: algebra.Select, schema: schema, rows: rs}, nil
}

func (p *Prepared) executeGraph(template []rdfql.Triple) (*Cursor, error) {
	rs, err := p.rowsPipeline()
	if err != nil {
		p.finishBase()
		return nil, err
	}
	triples, err := instantiateTemplate(rs, template)
	if err != nil {
		rs.Finish()
		return nil, err
	}
	if err := rs.Finish(); err != nil {
		return nil, err
	}
	return &Cursor{verb: p.query.Verb, triples: triples}, nil
}

// executeDescribe retrieves a concise bounded description (every ground
// triple with a pattern-bound resource as subject) for every distinct
// resource bound anywhere in a solution row, deduplicated (spec.md §3
// "RDF graph" result shape grouping CONSTRUCT and DESCRIBE together; the
// exact DESCRIBE algorithm is left to implementations — this follows the
// common "subject-bound CBD" reading).
func (p *Prepared) executeDescribe() (*Cursor, error) {
	rs, err := p.rowsPipeline()
	if err != nil {
		p.finishBase()
		return nil, err
	}
	rows, err := rs.ReadAllRows()
	if err != nil {
		rs.Finish()
		return nil, err
	}
	if err := rs.Finish(); err != nil {
		return nil, err
	}
	if p.source == nil {
		return nil, &rdfql.ResourceError{Msg: "query: DESCRIBE requires a local triples source"}
	}

	seenResource := map[string]bool{}
	seenTriple := map[string]bool{}
	var out []rdfql.Triple
	for _, row := range rows {
		for _, v := range row.Vals {
			if v == nil || v.Kind() == rdfql.KindVariable {
				continue
			}
			key := v.String()
			if seenResource[key] {
				continue
			}
			seenResource[key] = true

			cur, err := p.source.NewMatch(rdfql.Triple{
				Subj: v,
				Pred: rdfql.NewVariableRef(p.query.Variables.Intern("__describe_p")),
				Obj:  rdfql.NewVariableRef(p.query.Variables.Intern("__describe_o")),
			})
			if err != nil {
				return nil, err
			}
			for {
				_, end, err := cur.BindNext()
				if err != nil {
					cur.Finish()
					return nil, err
				}
				if end {
					break
				}
				t := cur.Current()
				tk := t.Subj.String() + "\x00" + t.Pred.String() + "\x00" + t.Obj.String()
				if !seenTriple[tk] {
					seenTriple[tk] = true
					out = append(out, t)
				}
			}
			if err := cur.Finish(); err != nil {
				return nil, err
			}
		}
	}
	return &Cursor{verb: algebra.Describe, triples: out}, nil
}
