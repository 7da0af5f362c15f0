package rdfql

// Triple holds four literal slots: subject, predicate, object, and an
// optional named-graph origin (spec.md §3). Used both as a pattern (with
// variable-typed slots, i.e. slots whose Kind() is KindVariable) and as a
// ground fact returned by a triples source.
type Triple struct {
	Subj, Pred, Obj *Literal
	Origin          *Literal // nil if the triple is not graph-scoped
}

// IsPattern reports whether any slot is a variable indirection.
func (t Triple) IsPattern() bool {
	return isVarSlot(t.Subj) || isVarSlot(t.Pred) || isVarSlot(t.Obj) || isVarSlot(t.Origin)
}

func isVarSlot(l *Literal) bool {
	return l != nil && l.Kind() == KindVariable
}

// BoundMask reports, as a bitmask, which of (subject, predicate, object,
// origin) are ground (non-nil, non-variable) in t. Bit 0 = subject,
// bit 1 = predicate, bit 2 = object, bit 3 = origin — matching the
// bind_next bitmask of spec.md §4.8.
const (
	BoundSubj = 1 << iota
	BoundPred
	BoundObj
	BoundOrigin
)

func (t Triple) BoundMask() int {
	m := 0
	if t.Subj != nil && t.Subj.Kind() != KindVariable {
		m |= BoundSubj
	}
	if t.Pred != nil && t.Pred.Kind() != KindVariable {
		m |= BoundPred
	}
	if t.Obj != nil && t.Obj.Kind() != KindVariable {
		m |= BoundObj
	}
	if t.Origin != nil && t.Origin.Kind() != KindVariable {
		m |= BoundOrigin
	}
	return m
}

func (t Triple) String() string {
	s := t.Subj.String() + " " + t.Pred.String() + " " + t.Obj.String()
	if t.Origin != nil {
		s += " " + t.Origin.String()
	}
	return s + " ."
}
