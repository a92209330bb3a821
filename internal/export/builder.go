package export

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/impactgrid/internal/ctxlog"
	"github.com/vk/impactgrid/internal/formula"
	"github.com/vk/impactgrid/internal/model"
	"github.com/vk/impactgrid/internal/params"
	"github.com/vk/impactgrid/internal/symexpr"
)

// DefaultDigits is the coefficient rounding precision applied when the
// builder is not configured otherwise.
const DefaultDigits = 3

// Builder is a one-shot assembly of a model.Model from an inventory.
// Each Build call is independent and stateless aside from reading the
// collaborators.
type Builder struct {
	Engine    symexpr.Engine
	Inventory Inventory

	// FunctionalUnits maps functional-unit name to its definition.
	FunctionalUnits map[string]FunctionalUnitSpec

	// Methods maps the exported impact key to the inventory method that
	// computes it.
	Methods map[string]Method

	// Axes lists the breakdown axes to export. Empty means a single
	// unbroken table under the reserved "total" key.
	Axes []string

	// Digits is the significant-digit count for coefficient rounding.
	// Zero selects DefaultDigits.
	Digits int
}

// Build requests raw expressions from the inventory for every axis,
// rounds their coefficients, compiles them against the inventory's
// parameter registry and assembles the model. Rounding happens before
// compilation so the compiled callables and the serialized expression
// text agree.
func (b *Builder) Build(ctx context.Context) (*model.Model, error) {
	logger := ctxlog.FromContext(ctx)

	digits := b.Digits
	if digits == 0 {
		digits = DefaultDigits
	}

	specs, err := b.Inventory.Parameters(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading parameter definitions: %w", err)
	}
	registry, err := params.NewRegistry(specs...)
	if err != nil {
		return nil, err
	}
	logger.Debug("parameter registry assembled", "count", registry.Len())

	// Fix a deterministic impact-key order and align the method list
	// with it, so Compute results map back unambiguously.
	impactKeys := make([]string, 0, len(b.Methods))
	for key := range b.Methods {
		impactKeys = append(impactKeys, key)
	}
	sort.Strings(impactKeys)
	methods := make([]Method, len(impactKeys))
	for i, key := range impactKeys {
		methods[i] = b.Methods[key]
	}

	axes := b.Axes
	if len(axes) == 0 {
		axes = []string{""}
	}

	expressions := make(map[string]map[string]*formula.Formula, len(axes))
	for _, axis := range axes {
		axisKey := axis
		if axisKey == "" {
			axisKey = model.DefaultAxis
		}
		logger.Info("processing axis", "axis", axisKey)

		raws, err := b.Inventory.Compute(ctx, axis, methods)
		if err != nil {
			return nil, fmt.Errorf("computing axis %q: %w", axisKey, err)
		}
		if len(raws) != len(methods) {
			return nil, fmt.Errorf("axis %q: inventory returned %d expressions for %d methods", axisKey, len(raws), len(methods))
		}

		table := make(map[string]*formula.Formula, len(raws))
		for i, raw := range raws {
			rounded, err := raw.Map(func(e symexpr.Expr) (symexpr.Expr, error) {
				return b.Engine.Round(e, digits)
			})
			if err != nil {
				return nil, fmt.Errorf("rounding %q on axis %q: %w", impactKeys[i], axisKey, err)
			}
			f, err := formula.Compile(b.Engine, rounded, registry)
			if err != nil {
				return nil, fmt.Errorf("compiling %q on axis %q: %w", impactKeys[i], axisKey, err)
			}
			table[impactKeys[i]] = f
		}
		expressions[axisKey] = table
	}

	functionalUnits := make(map[string]*model.FunctionalUnit, len(b.FunctionalUnits))
	for name, spec := range b.FunctionalUnits {
		expr, err := symexpr.Coerce(b.Engine, spec.Quantity)
		if err != nil {
			return nil, fmt.Errorf("functional unit %q: %w", name, err)
		}
		quantity, err := formula.Compile(b.Engine, formula.Single(expr), registry)
		if err != nil {
			return nil, fmt.Errorf("functional unit %q: %w", name, err)
		}
		functionalUnits[name] = &model.FunctionalUnit{Quantity: quantity, Unit: spec.Unit}
	}

	impacts := make(map[string]model.Impact, len(b.Methods))
	for key, method := range b.Methods {
		unit, err := b.Inventory.Unit(method)
		if err != nil {
			return nil, fmt.Errorf("unit of method %q: %w", method, err)
		}
		impacts[key] = model.Impact{Name: string(method), Unit: unit}
	}

	logger.Debug("model assembled", "axes", len(expressions), "impacts", len(impacts))
	return model.New(registry, expressions, functionalUnits, impacts)
}
