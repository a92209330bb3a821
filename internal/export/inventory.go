// Package export assembles a portable impact model from an upstream
// life-cycle-inventory computation. The inventory itself is an opaque
// collaborator: it hands over raw symbolic expressions and parameter
// definitions; this package rounds, compiles and packages them into a
// model.Model.
package export

import (
	"context"

	"github.com/vk/impactgrid/internal/formula"
	"github.com/vk/impactgrid/internal/params"
)

// Method identifies one impact-assessment method known to the inventory.
type Method string

// Inventory is the upstream computation that produces raw symbolic
// impact expressions.
type Inventory interface {
	// Compute returns one raw expression per requested method, in the
	// same order. An empty axis requests the unbroken total; a non-empty
	// axis may yield grouped expressions keyed by the axis's groups.
	Compute(ctx context.Context, axis string, methods []Method) ([]formula.Source, error)

	// Unit reports the physical unit of one method's results.
	Unit(method Method) (string, error)

	// Parameters returns the definitions of every parameter the
	// inventory's expressions may reference.
	Parameters(ctx context.Context) ([]*params.Spec, error)
}

// FunctionalUnitSpec configures one functional unit to export. Quantity
// may be a number, expression source text, or a symexpr.Expr. A nil Unit
// marks the quantity as dimensionless.
type FunctionalUnitSpec struct {
	Quantity any
	Unit     *string
}
