package exec

import (
	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/store"
)

// TriplesMatch wraps a store.Source cursor for a single triple pattern
// (spec.md §4.7). Used standalone it matches pattern as-is; used as the
// inner side of a Join it implements Contextual, substituting any
// variable slot the outer row already binds before (re)opening its
// cursor — "rebinds on every outer row".
type TriplesMatch struct {
	pattern rdfql.Triple
	source  store.Source

	schema *rdfql.Schema
	outer  *rdfql.Row
	cur    store.MatchCursor
}

// NewTriplesMatch returns a row source over the ground triples matching
// pattern in source.
func NewTriplesMatch(pattern rdfql.Triple, source store.Source) *TriplesMatch {
	return &TriplesMatch{pattern: pattern, source: source}
}

func (tm *TriplesMatch) Init() error {
	_, err := tm.EnsureVariables()
	return err
}

func (tm *TriplesMatch) EnsureVariables() (*rdfql.Schema, error) {
	if tm.schema != nil {
		return tm.schema, nil
	}
	var names []string
	seen := map[string]bool{}
	for _, slot := range []*rdfql.Literal{tm.pattern.Subj, tm.pattern.Pred, tm.pattern.Obj, tm.pattern.Origin} {
		if slot != nil && slot.Kind() == rdfql.KindVariable && slot.Variable() != nil {
			name := slot.Variable().Name
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	tm.schema = rdfql.NewSchema(names)
	return tm.schema, nil
}

// Rebind substitutes pattern slots whose variable is bound in outer with
// outer's ground value, then reopens the match cursor (spec.md §4.7
// "For each incoming bound-variable context, it opens a cursor...").
func (tm *TriplesMatch) Rebind(outer *rdfql.Row) error {
	tm.outer = outer
	return tm.openCursor()
}

func (tm *TriplesMatch) openCursor() error {
	if tm.cur != nil {
		tm.cur.Finish()
		tm.cur = nil
	}
	effective := resolvePattern(tm.pattern, tm.outer)
	cur, err := tm.source.NewMatch(effective)
	if err != nil {
		return err
	}
	tm.cur = cur
	return nil
}

func resolvePattern(pattern rdfql.Triple, outer *rdfql.Row) rdfql.Triple {
	if outer == nil {
		return pattern
	}
	resolve := func(slot *rdfql.Literal) *rdfql.Literal {
		if slot != nil && slot.Kind() == rdfql.KindVariable && slot.Variable() != nil {
			if v := outer.Get(slot.Variable().Name); v != nil {
				return v
			}
		}
		return slot
	}
	return rdfql.Triple{
		Subj:   resolve(pattern.Subj),
		Pred:   resolve(pattern.Pred),
		Obj:    resolve(pattern.Obj),
		Origin: resolve(pattern.Origin),
	}
}

func (tm *TriplesMatch) ReadRow() (*rdfql.Row, error) {
	if tm.schema == nil {
		if _, err := tm.EnsureVariables(); err != nil {
			return nil, err
		}
	}
	if tm.cur == nil {
		if err := tm.openCursor(); err != nil {
			return nil, err
		}
	}
	_, end, err := tm.cur.BindNext()
	if err != nil {
		return nil, err
	}
	if end {
		return nil, nil
	}
	ground := tm.cur.Current()
	row := rdfql.NewRow(tm.schema)
	bind := func(patternSlot, groundSlot *rdfql.Literal) {
		if patternSlot != nil && patternSlot.Kind() == rdfql.KindVariable && patternSlot.Variable() != nil {
			row.Set(patternSlot.Variable().Name, groundSlot)
		}
	}
	bind(tm.pattern.Subj, ground.Subj)
	bind(tm.pattern.Pred, ground.Pred)
	bind(tm.pattern.Obj, ground.Obj)
	bind(tm.pattern.Origin, ground.Origin)
	return row, nil
}

func (tm *TriplesMatch) ReadAllRows() ([]*rdfql.Row, error) { return ReadAllRows(tm) }

func (tm *TriplesMatch) Reset() error { return tm.openCursor() }

func (tm *TriplesMatch) Inner(i int) RowSource { return nil }

func (tm *TriplesMatch) Finish() error {
	if tm.cur != nil {
		return tm.cur.Finish()
	}
	return nil
}
