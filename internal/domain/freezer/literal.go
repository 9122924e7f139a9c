package freezer

import (
	"fmt"
	"math"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// syntheticFile anchors positions of synthesized literal nodes.
var syntheticFile = "<frozen>"

// validPos is a valid dummy position for synthetic nodes; the compiler only
// requires positions to be valid, not meaningful.
var validPos = syntax.MakePosition(&syntheticFile, 1, 1)

// canInline reports whether a captured value belongs to the allow-listed
// immutable kinds and is representable as a literal expression. Tuples are
// checked element-wise: a tuple carrying a mutable value is not freezable.
func canInline(v starlark.Value) bool {
	switch val := v.(type) {
	case starlark.NoneType, starlark.Bool, starlark.String, starlark.Bytes:
		return true

	case starlark.Int:
		_, ok := val.Int64()
		return ok

	case starlark.Float:
		f := float64(val)
		return !math.IsInf(f, 0) && !math.IsNaN(f)

	case starlark.Tuple:
		for _, elem := range val {
			if !canInline(elem) {
				return false
			}
		}

		return true

	default:
		return false
	}
}

// inlineExpr converts a captured value into a literal syntax node placed at
// pos, normally the position of the reference it replaces, so the spans of
// enclosing statements stay meaningful. It returns nil for values canInline
// rejects.
func inlineExpr(v starlark.Value, pos syntax.Position) syntax.Expr {
	switch val := v.(type) {
	case starlark.NoneType:
		return &syntax.Ident{Name: "None", NamePos: pos}

	case starlark.Bool:
		if val {
			return &syntax.Ident{Name: "True", NamePos: pos}
		}

		return &syntax.Ident{Name: "False", NamePos: pos}

	case starlark.String:
		s := string(val)
		return &syntax.Literal{Token: syntax.STRING, Raw: strconv.Quote(s), Value: s, TokenPos: pos}

	case starlark.Bytes:
		s := string(val)
		return &syntax.Literal{Token: syntax.BYTES, Raw: "b" + strconv.Quote(s), Value: s, TokenPos: pos}

	case starlark.Int:
		i64, ok := val.Int64()
		if !ok {
			return nil
		}

		if i64 >= 0 {
			return &syntax.Literal{Token: syntax.INT, Raw: fmt.Sprintf("%d", i64), Value: i64, TokenPos: pos}
		}

		if i64 == math.MinInt64 {
			// Has no positive counterpart in int64.
			return &syntax.Literal{Token: syntax.INT, Raw: fmt.Sprintf("%d", i64), Value: i64, TokenPos: pos}
		}

		lit := &syntax.Literal{Token: syntax.INT, Raw: fmt.Sprintf("%d", -i64), Value: -i64, TokenPos: pos}

		return &syntax.UnaryExpr{Op: syntax.MINUS, OpPos: pos, X: lit}

	case starlark.Float:
		f := float64(val)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil
		}

		if f >= 0 {
			return &syntax.Literal{Token: syntax.FLOAT, Raw: formatFloat(f), Value: f, TokenPos: pos}
		}

		lit := &syntax.Literal{Token: syntax.FLOAT, Raw: formatFloat(-f), Value: -f, TokenPos: pos}

		return &syntax.UnaryExpr{Op: syntax.MINUS, OpPos: pos, X: lit}

	case starlark.Tuple:
		items := make([]syntax.Expr, len(val))

		for i, elem := range val {
			e := inlineExpr(elem, pos)
			if e == nil {
				return nil
			}

			items[i] = e
		}

		return &syntax.TupleExpr{Lparen: pos, Rparen: pos, List: items}

	default:
		return nil
	}
}

// formatFloat renders a float so it reads back as a float literal.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'E' {
			return s
		}
	}

	return s + ".0"
}
