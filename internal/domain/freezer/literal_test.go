package freezer

import (
	"math"
	"testing"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

func TestCanInline(t *testing.T) {
	cases := []struct {
		name string
		v    starlark.Value
		want bool
	}{
		{"none", starlark.None, true},
		{"bool", starlark.Bool(true), true},
		{"int", starlark.MakeInt(42), true},
		{"negative int", starlark.MakeInt(-1), true},
		{"huge int", starlark.MakeUint64(math.MaxUint64), false},
		{"float", starlark.Float(1.5), true},
		{"inf", starlark.Float(math.Inf(1)), false},
		{"nan", starlark.Float(math.NaN()), false},
		{"string", starlark.String("hi"), true},
		{"bytes", starlark.Bytes("hi"), true},
		{"tuple of constants", starlark.Tuple{starlark.MakeInt(1), starlark.String("a")}, true},
		{"tuple holding list", starlark.Tuple{starlark.NewList(nil)}, false},
		{"list", starlark.NewList(nil), false},
		{"dict", starlark.NewDict(0), false},
		{"function-like", starlark.NewBuiltin("b", nil), false},
	}

	for _, tc := range cases {
		if got := canInline(tc.v); got != tc.want {
			t.Errorf("canInline(%s) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestInlineExprShapes(t *testing.T) {
	file := "test.star"
	pos := syntax.MakePosition(&file, 12, 5)

	if e := inlineExpr(starlark.MakeInt(7), pos); e == nil {
		t.Fatalf("expected literal for 7")
	} else if lit, ok := e.(*syntax.Literal); !ok || lit.Raw != "7" {
		t.Fatalf("7 rendered as %#v", e)
	} else if lit.TokenPos.Line != 12 {
		t.Fatalf("literal placed at line %d, want 12", lit.TokenPos.Line)
	}

	if e := inlineExpr(starlark.MakeInt(-7), pos); e == nil {
		t.Fatalf("expected expression for -7")
	} else if un, ok := e.(*syntax.UnaryExpr); !ok || un.Op != syntax.MINUS {
		t.Fatalf("-7 rendered as %#v", e)
	}

	if e := inlineExpr(starlark.String("a\"b"), pos); e == nil {
		t.Fatalf("expected literal for string")
	} else if lit, ok := e.(*syntax.Literal); !ok || lit.Raw != `"a\"b"` {
		t.Fatalf("string rendered as %#v", e)
	}

	if e := inlineExpr(starlark.None, pos); e == nil {
		t.Fatalf("expected ident for None")
	} else if id, ok := e.(*syntax.Ident); !ok || id.Name != "None" {
		t.Fatalf("None rendered as %#v", e)
	}

	tuple := starlark.Tuple{starlark.MakeInt(1), starlark.Bool(false)}
	if e := inlineExpr(tuple, pos); e == nil {
		t.Fatalf("expected tuple expression")
	} else if te, ok := e.(*syntax.TupleExpr); !ok || len(te.List) != 2 {
		t.Fatalf("tuple rendered as %#v", e)
	}
}

func TestFormatFloat(t *testing.T) {
	cases := map[float64]string{
		2:    "2.0",
		1.5:  "1.5",
		1e20: "1e+20",
	}

	for in, want := range cases {
		if got := formatFloat(in); got != want {
			t.Errorf("formatFloat(%v) = %q, want %q", in, got, want)
		}
	}
}
