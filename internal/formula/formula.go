// Package formula compiles symbolic impact expressions against a
// parameter registry and evaluates them over user-supplied parameter
// values. A formula is either a single expression or a group of named
// sub-expressions sharing one compiled parameter scope.
package formula

import (
	"sort"

	"github.com/vk/impactgrid/internal/params"
	"github.com/vk/impactgrid/internal/symexpr"
)

// Source is the tagged input variant for Compile: exactly one of the
// scalar expression or the grouped map is set.
type Source struct {
	scalar  symexpr.Expr
	grouped map[string]symexpr.Expr
}

// Single wraps one expression.
func Single(e symexpr.Expr) Source {
	return Source{scalar: e}
}

// Grouped wraps named sub-expressions that will share one compiled
// parameter scope.
func Grouped(exprs map[string]symexpr.Expr) Source {
	return Source{grouped: exprs}
}

// IsGrouped reports which variant the source holds.
func (s Source) IsGrouped() bool {
	return s.grouped != nil
}

// Map applies fn to every expression in the source, preserving shape.
func (s Source) Map(fn func(symexpr.Expr) (symexpr.Expr, error)) (Source, error) {
	if !s.IsGrouped() {
		e, err := fn(s.scalar)
		if err != nil {
			return Source{}, err
		}
		return Single(e), nil
	}
	out := make(map[string]symexpr.Expr, len(s.grouped))
	for key, e := range s.grouped {
		mapped, err := fn(e)
		if err != nil {
			return Source{}, err
		}
		out[key] = mapped
	}
	return Grouped(out), nil
}

// Formula is a compiled expression (or group of expressions) together
// with the minimal set of user-facing parameters it references. It is
// immutable after Compile and safe for concurrent evaluation.
type Formula struct {
	params   []string
	paramSet map[string]struct{}
	symbols  []string

	scalar  symexpr.Callable
	grouped map[string]symexpr.Callable

	src Source
	eng symexpr.Engine
}

// Compile builds a Formula from raw expressions. The free symbols of
// every (sub-)expression are reverse-mapped through the registry into
// owning parameters; a symbol no parameter owns is a ConfigError. For a
// grouped source all sub-expressions are compiled over the union of the
// group's symbols, so a single expanded namespace feeds every callable.
func Compile(eng symexpr.Engine, src Source, reg *params.Registry) (*Formula, error) {
	symbolSet := make(map[string]struct{})
	collect := func(e symexpr.Expr) error {
		free, err := eng.FreeSymbols(e)
		if err != nil {
			return err
		}
		for _, name := range free {
			symbolSet[name] = struct{}{}
		}
		return nil
	}

	if src.IsGrouped() {
		for _, e := range src.grouped {
			if err := collect(e); err != nil {
				return nil, err
			}
		}
	} else {
		if err := collect(src.scalar); err != nil {
			return nil, err
		}
	}

	symbols := make([]string, 0, len(symbolSet))
	for name := range symbolSet {
		symbols = append(symbols, name)
	}
	sort.Strings(symbols)

	paramNames, err := reg.Unexpand(symbols)
	if err != nil {
		return nil, err
	}
	paramSet := make(map[string]struct{}, len(paramNames))
	for _, name := range paramNames {
		paramSet[name] = struct{}{}
	}

	f := &Formula{
		params:   paramNames,
		paramSet: paramSet,
		symbols:  symbols,
		src:      src,
		eng:      eng,
	}

	if src.IsGrouped() {
		f.grouped = make(map[string]symexpr.Callable, len(src.grouped))
		for key, e := range src.grouped {
			callable, err := eng.Compile(e, symbols)
			if err != nil {
				return nil, err
			}
			f.grouped[key] = callable
		}
	} else {
		callable, err := eng.Compile(src.scalar, symbols)
		if err != nil {
			return nil, err
		}
		f.scalar = callable
	}

	return f, nil
}

// Params returns the minimal owning-parameter set, sorted.
func (f *Formula) Params() []string {
	return append([]string(nil), f.params...)
}

// IsGrouped reports whether evaluation yields per-group values.
func (f *Formula) IsGrouped() bool {
	return f.grouped != nil
}

// Evaluate computes the formula's value. Referenced parameters start
// from their registry defaults, entries of overrides whose key the
// formula references replace them, and the merged values are expanded
// into the flat namespace the callables consume. Override keys the
// formula does not reference are ignored: callers routinely share one
// override set across many independently-scoped formulas.
func (f *Formula) Evaluate(reg *params.Registry, overrides map[string]any) (Value, error) {
	values := make(map[string]any, len(f.params))
	for _, name := range f.params {
		spec, ok := reg.Get(name)
		if !ok {
			return Value{}, &params.ConfigError{Name: name, Detail: "referenced parameter missing from registry"}
		}
		values[name] = spec.Default
	}
	for name, v := range overrides {
		if _, ok := f.paramSet[name]; ok {
			values[name] = v
		}
	}

	flat := make(map[string]float64, len(f.symbols))
	for name, v := range values {
		spec, _ := reg.Get(name)
		expanded, err := spec.Expand(v)
		if err != nil {
			return Value{}, err
		}
		for slot, num := range expanded {
			flat[slot] = num
		}
	}

	if f.IsGrouped() {
		out := make(map[string]float64, len(f.grouped))
		for key, callable := range f.grouped {
			v, err := callable(flat)
			if err != nil {
				return Value{}, err
			}
			out[key] = v
		}
		return GroupedValue(out), nil
	}

	v, err := f.scalar(flat)
	if err != nil {
		return Value{}, err
	}
	return ScalarValue(v), nil
}
