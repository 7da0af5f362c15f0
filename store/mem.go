package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/algebra"
)

// MemStore is an in-memory Source/Factory, indexed by the (S,P,O),
// (P,O,S) and (O,S,P) permutations so a pattern with any two slots bound
// can be answered without a full scan (spec.md §4.8 describes the
// interface only; this backend exists so the interface is testable).
type MemStore struct {
	mu      sync.RWMutex
	triples []rdfql.Triple

	spo map[[2]string][]int // key: subject, predicate
	pos map[[2]string][]int // key: predicate, object
	osp map[[2]string][]int // key: object, subject
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		spo: map[[2]string][]int{},
		pos: map[[2]string][]int{},
		osp: map[[2]string][]int{},
	}
}

// Add inserts a ground triple (no variable slots).
func (m *MemStore) Add(t rdfql.Triple) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := len(m.triples)
	m.triples = append(m.triples, t)
	s, p, o := groundKey(t.Subj), groundKey(t.Pred), groundKey(t.Obj)
	m.spo[[2]string{s, p}] = append(m.spo[[2]string{s, p}], i)
	m.pos[[2]string{p, o}] = append(m.pos[[2]string{p, o}], i)
	m.osp[[2]string{o, s}] = append(m.osp[[2]string{o, s}], i)
}

// AddResource inserts a triple whose subject is a freshly minted blank
// node (a uuid-labeled resource with no caller-supplied identity) and
// returns the node, letting callers build small anonymous-resource
// graphs — e.g. a query's dataset fixture — without tracking their own
// label-collision scheme across Add calls.
func (m *MemStore) AddResource(pred, obj *rdfql.Literal) *rdfql.Literal {
	subj := rdfql.NewBlank(uuid.NewString())
	m.Add(rdfql.Triple{Subj: subj, Pred: pred, Obj: obj})
	return subj
}

func groundKey(l *rdfql.Literal) string {
	if l == nil {
		return ""
	}
	return l.String()
}

// Init implements Factory by handing back the same store for every
// query; MemStore needs no per-query state.
func (m *MemStore) Init(q *algebra.Query) (Source, error) {
	return m, nil
}

// Close is a no-op: MemStore's lifetime is independent of any one query.
func (m *MemStore) Close() error { return nil }

// ListGraphs implements store.GraphLister, returning the distinct
// non-default origins of stored triples, sorted for deterministic
// iteration order.
func (m *MemStore) ListGraphs() ([]*rdfql.Literal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := map[string]*rdfql.Literal{}
	for _, t := range m.triples {
		if t.Origin != nil {
			seen[groundKey(t.Origin)] = t.Origin
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*rdfql.Literal, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return out, nil
}

// TriplePresent reports whether t (fully ground) is stored.
func (m *MemStore) TriplePresent(t rdfql.Triple) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := [2]string{groundKey(t.Subj), groundKey(t.Pred)}
	for _, i := range m.spo[key] {
		if termKeysEqual(m.triples[i].Obj, t.Obj) && termKeysEqual(m.triples[i].Origin, t.Origin) {
			return true, nil
		}
	}
	return false, nil
}

func termKeysEqual(a, b *rdfql.Literal) bool {
	return groundKey(a) == groundKey(b)
}

func isBound(l *rdfql.Literal) bool {
	return l != nil && l.Kind() != rdfql.KindVariable
}

// NewMatch opens a cursor over candidates[.Subj/.Pred/.Obj] matching
// pattern, picking whichever two-column index has the most bound slots
// in common, falling back to a full scan.
func (m *MemStore) NewMatch(pattern rdfql.Triple) (MatchCursor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var candidates []int
	switch {
	case isBound(pattern.Subj) && isBound(pattern.Pred):
		candidates = m.spo[[2]string{groundKey(pattern.Subj), groundKey(pattern.Pred)}]
	case isBound(pattern.Pred) && isBound(pattern.Obj):
		candidates = m.pos[[2]string{groundKey(pattern.Pred), groundKey(pattern.Obj)}]
	case isBound(pattern.Obj) && isBound(pattern.Subj):
		candidates = m.osp[[2]string{groundKey(pattern.Obj), groundKey(pattern.Subj)}]
	default:
		candidates = make([]int, len(m.triples))
		for i := range m.triples {
			candidates[i] = i
		}
	}

	matches := make([]rdfql.Triple, 0, len(candidates))
	for _, i := range candidates {
		t := m.triples[i]
		if tripleMatches(pattern, t) {
			matches = append(matches, t)
		}
	}
	return &memCursor{pattern: pattern, matches: matches}, nil
}

func tripleMatches(pattern, t rdfql.Triple) bool {
	return slotMatches(pattern.Subj, t.Subj) &&
		slotMatches(pattern.Pred, t.Pred) &&
		slotMatches(pattern.Obj, t.Obj) &&
		slotMatches(pattern.Origin, t.Origin)
}

func slotMatches(patternSlot, groundSlot *rdfql.Literal) bool {
	if patternSlot == nil || patternSlot.Kind() == rdfql.KindVariable {
		return true
	}
	return groundKey(patternSlot) == groundKey(groundSlot)
}

type memCursor struct {
	pattern rdfql.Triple
	matches []rdfql.Triple
	pos     int
	cur     rdfql.Triple
}

func (c *memCursor) BindNext() (int, bool, error) {
	if c.pos >= len(c.matches) {
		return 0, true, nil
	}
	c.cur = c.matches[c.pos]
	c.pos++

	mask := 0
	if c.pattern.Subj == nil || c.pattern.Subj.Kind() == rdfql.KindVariable {
		mask |= rdfql.BoundSubj
	}
	if c.pattern.Pred == nil || c.pattern.Pred.Kind() == rdfql.KindVariable {
		mask |= rdfql.BoundPred
	}
	if c.pattern.Obj == nil || c.pattern.Obj.Kind() == rdfql.KindVariable {
		mask |= rdfql.BoundObj
	}
	if (c.pattern.Origin == nil || c.pattern.Origin.Kind() == rdfql.KindVariable) && c.cur.Origin != nil {
		mask |= rdfql.BoundOrigin
	}
	return mask, false, nil
}

func (c *memCursor) Current() rdfql.Triple { return c.cur }

func (c *memCursor) Finish() error { return nil }
