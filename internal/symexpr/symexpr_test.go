package symexpr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/impactgrid/internal/symexpr"
)

func parse(t *testing.T, eng symexpr.Engine, src string) symexpr.Expr {
	t.Helper()
	e, err := eng.Parse(src)
	require.NoError(t, err)
	return e
}

func TestHCL_ParseAndRender(t *testing.T) {
	eng := symexpr.NewHCL()

	e := parse(t, eng, "x * 3 + y_a")
	require.Equal(t, "x * 3 + y_a", eng.Render(e))

	_, err := eng.Parse("x +* 3")
	require.Error(t, err)
}

func TestHCL_FreeSymbols(t *testing.T) {
	eng := symexpr.NewHCL()

	e := parse(t, eng, "b + a * b + pow(a, 2)")
	free, err := eng.FreeSymbols(e)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, free, "deduplicated and sorted")

	constant := parse(t, eng, "42")
	free, err = eng.FreeSymbols(constant)
	require.NoError(t, err)
	require.Empty(t, free)
}

func TestHCL_CompileAndEvaluate(t *testing.T) {
	eng := symexpr.NewHCL()

	e := parse(t, eng, "x * 3 + y")
	callable, err := eng.Compile(e, []string{"x", "y"})
	require.NoError(t, err)

	v, err := callable(map[string]float64{"x": 2, "y": 1})
	require.NoError(t, err)
	require.InDelta(t, 7.0, v, 1e-12)

	// Symbols outside the compilation scope are rejected up front.
	_, err = eng.Compile(e, []string{"x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), `"y"`)

	// A missing runtime value is an evaluation error.
	_, err = callable(map[string]float64{"x": 2})
	require.Error(t, err)
}

func TestHCL_CompileIgnoresExtraSymbols(t *testing.T) {
	eng := symexpr.NewHCL()

	e := parse(t, eng, "x * 2")
	callable, err := eng.Compile(e, []string{"x", "unused"})
	require.NoError(t, err)

	v, err := callable(map[string]float64{"x": 5, "unused": 99})
	require.NoError(t, err)
	require.InDelta(t, 10.0, v, 1e-12)
}

func TestHCL_MathFunctions(t *testing.T) {
	eng := symexpr.NewHCL()

	cases := map[string]float64{
		"abs(0 - x)":   1.5,
		"pow(x, 2)":    2.25,
		"max(x, 10)":   10,
		"min(x, 10)":   1.5,
		"floor(x)":     1,
		"ceil(x)":      2,
		"signum(x)":    1,
		"log(100, 10)": 2,
	}
	for src, want := range cases {
		callable, err := eng.Compile(parse(t, eng, src), []string{"x"})
		require.NoError(t, err, src)
		v, err := callable(map[string]float64{"x": 1.5})
		require.NoError(t, err, src)
		require.InDelta(t, want, v, 1e-9, src)
	}
}

func TestHCL_Constant(t *testing.T) {
	eng := symexpr.NewHCL()

	e := eng.Constant(2.5)
	free, err := eng.FreeSymbols(e)
	require.NoError(t, err)
	require.Empty(t, free)

	callable, err := eng.Compile(e, nil)
	require.NoError(t, err)
	v, err := callable(nil)
	require.NoError(t, err)
	require.InDelta(t, 2.5, v, 1e-12)
}

func TestHCL_Round(t *testing.T) {
	eng := symexpr.NewHCL()

	rounded, err := eng.Round(parse(t, eng, "x * 1.23456 + 0.000789"), 3)
	require.NoError(t, err)
	require.Equal(t, "x*1.23+0.000789", eng.Render(rounded))
}

func TestHCL_RoundKeepsIntegers(t *testing.T) {
	eng := symexpr.NewHCL()

	rounded, err := eng.Round(parse(t, eng, "12345 * x + 1.98765"), 2)
	require.NoError(t, err)
	require.Equal(t, "12345*x+2", eng.Render(rounded))
}

func TestHCL_RoundedExpressionStillEvaluates(t *testing.T) {
	eng := symexpr.NewHCL()

	rounded, err := eng.Round(parse(t, eng, "x * 1.23456"), 3)
	require.NoError(t, err)

	callable, err := eng.Compile(rounded, []string{"x"})
	require.NoError(t, err)
	v, err := callable(map[string]float64{"x": 2})
	require.NoError(t, err)
	require.InDelta(t, 2.46, v, 1e-12)

	_, err = eng.Round(rounded, 0)
	require.Error(t, err)
}
