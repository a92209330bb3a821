package symexpr

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// exprFilename is the synthetic filename attached to parsed formulas so
// that HCL diagnostics have a subject to point at.
const exprFilename = "formula"

// hclExpr pairs a parsed HCL expression with the source text it came
// from. The source text is the canonical rendering.
type hclExpr struct {
	src  string
	tree hclsyntax.Expression
}

func (hclExpr) sealed() {}

// HCL is the Engine implementation backed by HCL expression syntax
// evaluated over cty numbers.
type HCL struct {
	funcs map[string]function.Function
}

// NewHCL returns an engine with the standard math function table (abs,
// ceil, floor, log, pow, signum, max, min) available inside formulas.
func NewHCL() *HCL {
	return &HCL{funcs: mathFunctions()}
}

// Parse implements Engine.
func (h *HCL) Parse(src string) (Expr, error) {
	tree, diags := hclsyntax.ParseExpression([]byte(src), exprFilename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing formula %q: %w", src, diags)
	}
	return hclExpr{src: src, tree: tree}, nil
}

// Render implements Engine. The retained source text is returned as-is,
// which keeps serialize/deserialize round trips byte-stable.
func (h *HCL) Render(e Expr) string {
	return e.(hclExpr).src
}

// FreeSymbols implements Engine. Only root names of variable traversals
// are reported: formulas address the flat expanded namespace, so nested
// traversals like a.b indicate a malformed formula and surface later as
// an evaluation error.
func (h *HCL) FreeSymbols(e Expr) ([]string, error) {
	seen := make(map[string]struct{})
	for _, traversal := range e.(hclExpr).tree.Variables() {
		seen[traversal.RootName()] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Constant implements Engine.
func (h *HCL) Constant(v float64) Expr {
	src := strconv.FormatFloat(v, 'g', -1, 64)
	e, err := h.Parse(src)
	if err != nil {
		// FormatFloat output is always a valid HCL number literal.
		panic(fmt.Sprintf("symexpr: constant %v did not parse: %v", v, err))
	}
	return e
}

// Compile implements Engine. The returned callable evaluates the
// expression against an hcl.EvalContext holding one cty number per
// symbol; symbols absent from the input map are reported as errors.
func (h *HCL) Compile(e Expr, symbols []string) (Callable, error) {
	he := e.(hclExpr)

	free, err := h.FreeSymbols(e)
	if err != nil {
		return nil, err
	}
	allowed := make(map[string]struct{}, len(symbols))
	for _, name := range symbols {
		allowed[name] = struct{}{}
	}
	for _, name := range free {
		if _, ok := allowed[name]; !ok {
			return nil, fmt.Errorf("formula %q references symbol %q outside its compilation scope", he.src, name)
		}
	}

	names := append([]string(nil), symbols...)
	return func(vars map[string]float64) (float64, error) {
		ctyVars := make(map[string]cty.Value, len(names))
		for _, name := range names {
			v, ok := vars[name]
			if !ok {
				return 0, fmt.Errorf("no value supplied for symbol %q", name)
			}
			ctyVars[name] = cty.NumberFloatVal(v)
		}
		val, diags := he.tree.Value(&hcl.EvalContext{Variables: ctyVars, Functions: h.funcs})
		if diags.HasErrors() {
			return 0, fmt.Errorf("evaluating formula %q: %w", he.src, diags)
		}
		if !val.Type().Equals(cty.Number) {
			return 0, fmt.Errorf("formula %q produced %s, want a number", he.src, val.Type().FriendlyName())
		}
		f, _ := val.AsBigFloat().Float64()
		return f, nil
	}, nil
}
