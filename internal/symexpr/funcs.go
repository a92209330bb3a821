package symexpr

import (
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// mathFunctions is the fixed function table exposed inside formulas.
// Inventory exporters emit at most these; anything fancier should have
// been simplified upstream before export.
func mathFunctions() map[string]function.Function {
	return map[string]function.Function{
		"abs":    stdlib.AbsoluteFunc,
		"ceil":   stdlib.CeilFunc,
		"floor":  stdlib.FloorFunc,
		"log":    stdlib.LogFunc,
		"pow":    stdlib.PowFunc,
		"signum": stdlib.SignumFunc,
		"max":    stdlib.MaxFunc,
		"min":    stdlib.MinFunc,
	}
}
