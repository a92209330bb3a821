package symexpr

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Round implements Engine. The source text is re-lexed, every
// floating-point number literal is reformatted to the requested number
// of significant digits, and the rewritten text is parsed back into a
// fresh expression. Working at the token level keeps the rewritten text
// and the recompiled callable in exact agreement.
func (h *HCL) Round(e Expr, digits int) (Expr, error) {
	if digits <= 0 {
		return nil, fmt.Errorf("rounding digits must be positive, got %d", digits)
	}
	src := e.(hclExpr).src

	tokens, diags := hclsyntax.LexExpression([]byte(src), exprFilename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("lexing formula %q: %w", src, diags)
	}

	var buf bytes.Buffer
	for _, tok := range tokens {
		out := tok.Bytes
		if tok.Type == hclsyntax.TokenNumberLit && isFloatLiteral(tok.Bytes) {
			v, err := strconv.ParseFloat(string(tok.Bytes), 64)
			if err != nil {
				return nil, fmt.Errorf("number literal %q in %q: %w", tok.Bytes, src, err)
			}
			out = []byte(strconv.FormatFloat(v, 'g', digits, 64))
		}
		// The lexer drops whitespace; re-separate tokens that would
		// otherwise fuse into one (e.g. an identifier followed by a
		// number literal).
		if needsSpace(buf.Bytes(), out) {
			buf.WriteByte(' ')
		}
		buf.Write(out)
	}

	return h.Parse(buf.String())
}

// isFloatLiteral reports whether a number token is written in float
// notation. Integer literals keep their exact form: rounding them would
// only obscure counts and indicator coefficients.
func isFloatLiteral(b []byte) bool {
	return bytes.ContainsAny(b, ".eE")
}

// needsSpace reports whether joining prev and next without a separator
// would merge two tokens into one word.
func needsSpace(prev, next []byte) bool {
	if len(prev) == 0 || len(next) == 0 {
		return false
	}
	return isWordByte(prev[len(prev)-1]) && isWordByte(next[0])
}

func isWordByte(b byte) bool {
	return b == '_' || b == '.' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}
