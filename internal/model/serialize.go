package model

import (
	"encoding/json"
	"fmt"

	"github.com/vk/impactgrid/internal/formula"
	"github.com/vk/impactgrid/internal/params"
	"github.com/vk/impactgrid/internal/symexpr"
)

// The wire format is a nested JSON document:
//
//	{
//	  "params":           { name: {type, unit, default, values?} },
//	  "expressions":      { axis: { impact: {params, expr} } },
//	  "functional_units": { name: {quantity: {params, expr}, unit} },
//	  "impacts":          { key: {name, unit} }
//	}
//
// Parameter names live only in the map keys; "values" is present only
// for enum parameters.

type paramDoc struct {
	Type    params.Kind `json:"type"`
	Unit    string      `json:"unit,omitempty"`
	Default any         `json:"default"`
	Values  []string    `json:"values,omitempty"`
}

type functionalUnitDoc struct {
	Quantity formula.Doc `json:"quantity"`
	Unit     *string     `json:"unit"`
}

type impactDoc struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

type document struct {
	Params          map[string]paramDoc               `json:"params"`
	Expressions     map[string]map[string]formula.Doc `json:"expressions"`
	FunctionalUnits map[string]functionalUnitDoc      `json:"functional_units"`
	Impacts         map[string]impactDoc              `json:"impacts"`
}

func (m *Model) document() document {
	doc := document{
		Params:          make(map[string]paramDoc),
		Expressions:     make(map[string]map[string]formula.Doc),
		FunctionalUnits: make(map[string]functionalUnitDoc),
		Impacts:         make(map[string]impactDoc),
	}
	for _, name := range m.params.Names() {
		spec, _ := m.params.Get(name)
		doc.Params[name] = paramDoc{
			Type:    spec.Kind,
			Unit:    spec.Unit,
			Default: spec.Default,
			Values:  spec.Values,
		}
	}
	for axis, byImpact := range m.expressions {
		axisDoc := make(map[string]formula.Doc, len(byImpact))
		for impact, f := range byImpact {
			axisDoc[impact] = f.Doc()
		}
		doc.Expressions[axis] = axisDoc
	}
	for name, fu := range m.functionalUnits {
		doc.FunctionalUnits[name] = functionalUnitDoc{
			Quantity: fu.Quantity.Doc(),
			Unit:     fu.Unit,
		}
	}
	for key, impact := range m.impacts {
		doc.Impacts[key] = impactDoc{Name: impact.Name, Unit: impact.Unit}
	}
	return doc
}

// MarshalJSON implements json.Marshaler, emitting the wire format above.
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.document())
}

// Decode rebuilds a model from its wire form. Parameter specs are
// rebuilt first since every formula compilation reverse-maps its free
// symbols through the full registry; formulas, functional units and
// impact descriptors follow. The stored params lists are not trusted:
// each formula re-derives its owning-parameter set on compilation.
func Decode(data []byte, eng symexpr.Engine) (*Model, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding model document: %w", err)
	}

	specs := make([]*params.Spec, 0, len(doc.Params))
	for name, pd := range doc.Params {
		specs = append(specs, &params.Spec{
			Name:    name,
			Kind:    pd.Type,
			Unit:    pd.Unit,
			Default: pd.Default,
			Values:  pd.Values,
		})
	}
	registry, err := params.NewRegistry(specs...)
	if err != nil {
		return nil, err
	}

	expressions := make(map[string]map[string]*formula.Formula, len(doc.Expressions))
	for axis, byImpact := range doc.Expressions {
		axisTable := make(map[string]*formula.Formula, len(byImpact))
		for impact, fd := range byImpact {
			f, err := formula.FromDoc(eng, fd, registry)
			if err != nil {
				return nil, fmt.Errorf("axis %q, impact %q: %w", axis, impact, err)
			}
			axisTable[impact] = f
		}
		expressions[axis] = axisTable
	}

	functionalUnits := make(map[string]*FunctionalUnit, len(doc.FunctionalUnits))
	for name, fd := range doc.FunctionalUnits {
		quantity, err := formula.FromDoc(eng, fd.Quantity, registry)
		if err != nil {
			return nil, fmt.Errorf("functional unit %q: %w", name, err)
		}
		functionalUnits[name] = &FunctionalUnit{Quantity: quantity, Unit: fd.Unit}
	}

	impacts := make(map[string]Impact, len(doc.Impacts))
	for key, id := range doc.Impacts {
		impacts[key] = Impact{Name: id.Name, Unit: id.Unit}
	}

	return New(registry, expressions, functionalUnits, impacts)
}
