package store

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/knakk/rdfql"
)

// fixtureTerm is one YAML-encoded RDF term: a dataset-descriptor fixture
// node (subject/predicate/object/graph), kept deliberately small — it
// covers the handful of term shapes engine tests actually need, not a
// general RDF serialization.
type fixtureTerm struct {
	Kind     string `yaml:"kind"` // "uri" (default), "blank", "literal"
	Value    string `yaml:"value"`
	Lang     string `yaml:"lang,omitempty"`
	Datatype string `yaml:"datatype,omitempty"`
}

type fixtureTriple struct {
	Subject   fixtureTerm  `yaml:"subject"`
	Predicate fixtureTerm  `yaml:"predicate"`
	Object    fixtureTerm  `yaml:"object"`
	Graph     *fixtureTerm `yaml:"graph,omitempty"`
}

type fixtureFile struct {
	Triples []fixtureTriple `yaml:"triples"`
}

// LoadFixture parses a YAML dataset-descriptor fixture (the format
// engine/store tests author by hand) into ground triples, ready to feed
// a MemStore via Add.
func LoadFixture(data []byte) ([]rdfql.Triple, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &rdfql.DataError{Msg: "fixture: " + err.Error()}
	}
	out := make([]rdfql.Triple, 0, len(f.Triples))
	for i, ft := range f.Triples {
		t := rdfql.Triple{}
		var err error
		if t.Subj, err = fixtureLiteral(ft.Subject); err != nil {
			return nil, fmt.Errorf("fixture triple %d subject: %w", i, err)
		}
		if t.Pred, err = fixtureLiteral(ft.Predicate); err != nil {
			return nil, fmt.Errorf("fixture triple %d predicate: %w", i, err)
		}
		if t.Obj, err = fixtureLiteral(ft.Object); err != nil {
			return nil, fmt.Errorf("fixture triple %d object: %w", i, err)
		}
		if ft.Graph != nil {
			if t.Origin, err = fixtureLiteral(*ft.Graph); err != nil {
				return nil, fmt.Errorf("fixture triple %d graph: %w", i, err)
			}
		}
		out = append(out, t)
	}
	return out, nil
}

func fixtureLiteral(ft fixtureTerm) (*rdfql.Literal, error) {
	switch ft.Kind {
	case "", "uri":
		return rdfql.NewURI(rdfql.NewIRI(ft.Value)), nil
	case "blank":
		return rdfql.NewBlank(ft.Value), nil
	case "literal":
		if ft.Lang != "" {
			return rdfql.NewPlainString(ft.Value, ft.Lang), nil
		}
		if ft.Datatype != "" {
			return rdfql.NewTyped(ft.Value, "", rdfql.NewIRI(ft.Datatype)), nil
		}
		return rdfql.NewXsdString(ft.Value), nil
	default:
		return nil, fmt.Errorf("unknown fixture term kind %q", ft.Kind)
	}
}
