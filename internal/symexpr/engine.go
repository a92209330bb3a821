// Package symexpr defines the narrow symbolic-expression capability the
// evaluation core depends on, together with its HCL-backed implementation.
// The core only ever parses, renders, inspects free symbols, and compiles
// expressions into callables over a flat numeric namespace; everything
// else about the expression language is opaque to it.
package symexpr

import (
	"fmt"
)

// Expr is an opaque handle on one symbolic expression. Concrete values
// are produced and consumed only by the Engine that created them.
type Expr interface {
	sealed()
}

// Callable evaluates a compiled expression against a flat namespace of
// numeric values keyed by expanded symbol name.
type Callable func(vars map[string]float64) (float64, error)

// Engine is the contract between the evaluation core and the underlying
// expression language.
type Engine interface {
	// Parse turns source text into an expression.
	Parse(src string) (Expr, error)

	// Render returns the canonical source text for an expression. The
	// text must parse back (via Parse) into an expression that evaluates
	// identically.
	Render(e Expr) string

	// FreeSymbols returns the sorted, deduplicated names of the symbols
	// referenced by an expression.
	FreeSymbols(e Expr) ([]string, error)

	// Compile builds a callable over the given symbol list. Every free
	// symbol of the expression must appear in the list; the list may
	// carry additional symbols the expression ignores.
	Compile(e Expr, symbols []string) (Callable, error)

	// Constant builds an expression holding a fixed numeric value.
	Constant(v float64) Expr

	// Round returns a copy of the expression with every floating-point
	// literal rounded to the given number of significant digits. Integer
	// literals are left untouched. Rounding is cosmetic simplification
	// applied before compilation so that the compiled callable and the
	// rendered text agree.
	Round(e Expr, digits int) (Expr, error)
}

// Coerce turns a raw quantity into an expression: an Expr passes through
// unchanged, numeric values become constants, and strings are parsed as
// source text.
func Coerce(eng Engine, v any) (Expr, error) {
	switch x := v.(type) {
	case Expr:
		return x, nil
	case float64:
		return eng.Constant(x), nil
	case int:
		return eng.Constant(float64(x)), nil
	case string:
		return eng.Parse(x)
	default:
		return nil, fmt.Errorf("cannot coerce %T into an expression", v)
	}
}
