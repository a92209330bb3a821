// Package model holds the exported impact model: the parameter registry,
// the per-axis tables of compiled impact formulas, the functional units
// raw impacts are normalized by, and the impact descriptors. A Model is
// immutable after construction (by the export builder or by Decode) and
// safe for concurrent evaluation.
package model

import (
	"fmt"
	"sort"

	"github.com/vk/impactgrid/internal/formula"
	"github.com/vk/impactgrid/internal/params"
)

// DefaultAxis is the reserved axis key used when no per-axis breakdown
// was requested at export time.
const DefaultAxis = "total"

// Impact names one impact category and its physical unit. It carries no
// computation logic.
type Impact struct {
	Name string
	Unit string
}

// FunctionalUnit is the reference quantity raw impacts are divided by.
// A nil Unit means the quantity is dimensionless and leaves the impact
// unit unchanged.
type FunctionalUnit struct {
	Quantity *formula.Formula
	Unit     *string
}

// Model is the aggregate root of an exported impact model.
type Model struct {
	params          *params.Registry
	expressions     map[string]map[string]*formula.Formula
	functionalUnits map[string]*FunctionalUnit
	impacts         map[string]Impact
}

// New assembles a model, checking that every impact key in the per-axis
// tables has a matching impact descriptor.
func New(
	registry *params.Registry,
	expressions map[string]map[string]*formula.Formula,
	functionalUnits map[string]*FunctionalUnit,
	impacts map[string]Impact,
) (*Model, error) {
	for axis, byImpact := range expressions {
		for impact := range byImpact {
			if _, ok := impacts[impact]; !ok {
				return nil, fmt.Errorf("axis %q carries impact %q with no descriptor", axis, impact)
			}
		}
	}
	return &Model{
		params:          registry,
		expressions:     expressions,
		functionalUnits: functionalUnits,
		impacts:         impacts,
	}, nil
}

// Params returns the model's parameter registry.
func (m *Model) Params() *params.Registry {
	return m.params
}

// Axes returns the axis keys the model carries, sorted.
func (m *Model) Axes() []string {
	return sortedKeys(m.expressions)
}

// ImpactKeys returns the impact keys the model carries, sorted.
func (m *Model) ImpactKeys() []string {
	return sortedKeys(m.impacts)
}

// FunctionalUnitNames returns the functional-unit names, sorted.
func (m *Model) FunctionalUnitNames() []string {
	return sortedKeys(m.functionalUnits)
}

// Evaluate computes one impact normalized by one functional unit. An
// empty axis selects DefaultAxis. The returned unit is the impact's
// unit, suffixed with "/<fu unit>" when the functional unit declares
// one. Dividing by a functional unit that evaluates to zero yields a
// non-finite result, never an error: a zero denominator is a modeling
// fault the caller must catch on the output.
func (m *Model) Evaluate(impact, functionalUnit, axis string, overrides map[string]any) (formula.Value, string, error) {
	if axis == "" {
		axis = DefaultAxis
	}

	byImpact, ok := m.expressions[axis]
	if !ok {
		return formula.Value{}, "", &LookupError{What: "axis", Key: axis, Valid: sortedKeys(m.impacts)}
	}
	impactFormula, ok := byImpact[impact]
	if !ok {
		return formula.Value{}, "", &LookupError{What: "impact", Key: impact, Valid: sortedKeys(byImpact)}
	}
	fu, ok := m.functionalUnits[functionalUnit]
	if !ok {
		return formula.Value{}, "", &LookupError{What: "functional unit", Key: functionalUnit, Valid: sortedKeys(m.functionalUnits)}
	}
	descriptor := m.impacts[impact]

	fuValue, err := fu.Quantity.Evaluate(m.params, overrides)
	if err != nil {
		return formula.Value{}, "", fmt.Errorf("evaluating functional unit %q: %w", functionalUnit, err)
	}
	if fuValue.IsGrouped() {
		return formula.Value{}, "", fmt.Errorf("functional unit %q evaluates to a grouped value, want a scalar", functionalUnit)
	}

	impactValue, err := impactFormula.Evaluate(m.params, overrides)
	if err != nil {
		return formula.Value{}, "", fmt.Errorf("evaluating impact %q: %w", impact, err)
	}

	unit := descriptor.Unit
	if fu.Unit != nil {
		unit += "/" + *fu.Unit
	}

	return impactValue.Div(fuValue.Scalar()), unit, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
