package formula

import (
	"encoding/json"
	"fmt"

	"github.com/vk/impactgrid/internal/params"
	"github.com/vk/impactgrid/internal/symexpr"
)

// Doc is the wire form of a Formula: the rendered expression text plus
// the owning-parameter list. The params field is informational only;
// FromDoc re-derives it from the parsed expression rather than trusting
// the document.
type Doc struct {
	Params []string  `json:"params"`
	Expr   SourceDoc `json:"expr"`
}

// SourceDoc is the wire form of a Source: a plain string for a single
// expression, or an object of key to string for a grouped one.
type SourceDoc struct {
	Scalar  string
	Grouped map[string]string
}

// MarshalJSON implements json.Marshaler.
func (d SourceDoc) MarshalJSON() ([]byte, error) {
	if d.Grouped != nil {
		return json.Marshal(d.Grouped)
	}
	return json.Marshal(d.Scalar)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *SourceDoc) UnmarshalJSON(data []byte) error {
	var scalar string
	if err := json.Unmarshal(data, &scalar); err == nil {
		*d = SourceDoc{Scalar: scalar}
		return nil
	}
	var grouped map[string]string
	if err := json.Unmarshal(data, &grouped); err != nil {
		return fmt.Errorf("expr must be a string or an object of strings: %w", err)
	}
	*d = SourceDoc{Grouped: grouped}
	return nil
}

// Doc renders the formula into its wire form.
func (f *Formula) Doc() Doc {
	doc := Doc{Params: f.Params()}
	if f.src.IsGrouped() {
		rendered := make(map[string]string, len(f.src.grouped))
		for key, e := range f.src.grouped {
			rendered[key] = f.eng.Render(e)
		}
		doc.Expr = SourceDoc{Grouped: rendered}
	} else {
		doc.Expr = SourceDoc{Scalar: f.eng.Render(f.src.scalar)}
	}
	return doc
}

// FromDoc parses the document's expression text back into symbolic form
// and runs the full compilation against the registry, re-deriving the
// owning-parameter set. Round trip contract: the returned formula
// evaluates identically to the one that produced the document.
func FromDoc(eng symexpr.Engine, doc Doc, reg *params.Registry) (*Formula, error) {
	if doc.Expr.Grouped != nil {
		exprs := make(map[string]symexpr.Expr, len(doc.Expr.Grouped))
		for key, src := range doc.Expr.Grouped {
			e, err := eng.Parse(src)
			if err != nil {
				return nil, err
			}
			exprs[key] = e
		}
		return Compile(eng, Grouped(exprs), reg)
	}

	e, err := eng.Parse(doc.Expr.Scalar)
	if err != nil {
		return nil, err
	}
	return Compile(eng, Single(e), reg)
}
