package query

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/knakk/rdfql"
	"github.com/knakk/rdfql/exec"
)

// instantiateTemplate substitutes template's variable slots with each
// solution row's bindings, producing zero or more ground triples per
// row. A template slot whose variable is unbound in a given row drops
// that triple for that row (no partial triples). Blank-node labels in
// the template are scoped per solution — the same label within one row
// names the same node, but rows get distinct node identities — per RDF's
// CONSTRUCT semantics. The per-execution uuid prefix (rather than a bare
// row counter) keeps labels from colliding when triples from two
// separate CONSTRUCT results are merged into the same graph.
func instantiateTemplate(rs exec.RowSource, template []rdfql.Triple) ([]rdfql.Triple, error) {
	executionID := uuid.NewString()
	var out []rdfql.Triple
	i := 0
	for {
		row, err := rs.ReadRow()
		if err != nil {
			return out, err
		}
		if row == nil {
			return out, nil
		}
		suffix := executionID + "-" + strconv.Itoa(i)
		i++
		for _, t := range template {
			subj, ok1 := instantiateSlot(t.Subj, row, suffix)
			pred, ok2 := instantiateSlot(t.Pred, row, suffix)
			obj, ok3 := instantiateSlot(t.Obj, row, suffix)
			if !ok1 || !ok2 || !ok3 {
				continue
			}
			out = append(out, rdfql.Triple{Subj: subj, Pred: pred, Obj: obj})
		}
	}
}

func instantiateSlot(slot *rdfql.Literal, row *rdfql.Row, solutionSuffix string) (*rdfql.Literal, bool) {
	if slot == nil {
		return nil, false
	}
	switch slot.Kind() {
	case rdfql.KindVariable:
		v := slot.Variable()
		if v == nil {
			return nil, false
		}
		val := row.Get(v.Name)
		if val == nil {
			return nil, false
		}
		return val, true
	case rdfql.KindBlank:
		return rdfql.NewBlank(slot.BlankID() + "-" + solutionSuffix), true
	default:
		return slot, true
	}
}
