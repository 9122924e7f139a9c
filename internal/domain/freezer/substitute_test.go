package freezer

import (
	"testing"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	m "github.com/frost-works/permafrost/internal/model"
)

func parseDef(t *testing.T, src string) *syntax.DefStmt {
	t.Helper()

	tree, err := fileOptions().Parse("test.star", []byte(src), 0)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	for _, stmt := range tree.Stmts {
		if def, ok := stmt.(*syntax.DefStmt); ok {
			return def
		}
	}

	t.Fatalf("no def in source")

	return nil
}

func testScope(values map[string]starlark.Value) *m.CapturedScope {
	scope := m.NewCapturedScope()
	for name, v := range values {
		scope.Set(name, v)
	}

	return scope
}

func TestReplacerWritesBeforeReads(t *testing.T) {
	def := parseDef(t, `
def f(a):
    x = N + a
    N = 2
    return N + M
`)

	scope := testScope(map[string]starlark.Value{
		"N": starlark.MakeInt(5),
		"M": starlark.MakeInt(9),
		"a": starlark.MakeInt(7),
	})

	r := newReplacer(scope)
	r.rewriteDef(def)

	if r.counts["N"] != 1 {
		t.Fatalf("N substituted %d times, want 1 (evicted by the write)", r.counts["N"])
	}

	if r.counts["M"] != 1 {
		t.Fatalf("M substituted %d times, want 1", r.counts["M"])
	}

	if r.counts["a"] != 0 {
		t.Fatalf("parameter a substituted %d times, want 0", r.counts["a"])
	}

	wantEvicted := []string{"a", "N"}
	if len(r.evicted) != len(wantEvicted) {
		t.Fatalf("evicted = %v, want %v", r.evicted, wantEvicted)
	}

	for i, name := range wantEvicted {
		if r.evicted[i] != name {
			t.Fatalf("evicted = %v, want %v", r.evicted, wantEvicted)
		}
	}
}

func TestReplacerDefaultsReadBeforeParamsEvict(t *testing.T) {
	def := parseDef(t, `
def f(N, M = N):
    return M
`)

	scope := testScope(map[string]starlark.Value{
		"N": starlark.MakeInt(5),
	})

	r := newReplacer(scope)
	r.rewriteDef(def)

	// The default denotes the enclosing N even though a parameter of the
	// same name precedes it.
	if r.counts["N"] != 1 {
		t.Fatalf("N substituted %d times, want 1 (in the default of M)", r.counts["N"])
	}

	if len(r.evicted) != 1 || r.evicted[0] != "N" {
		t.Fatalf("evicted = %v, want [N]", r.evicted)
	}
}

func TestReplacerComprehensionBodyFirst(t *testing.T) {
	def := parseDef(t, `
def f(rows):
    return [y + 1 for y in rows]
`)

	scope := testScope(map[string]starlark.Value{
		"y": starlark.MakeInt(3),
	})

	r := newReplacer(scope)
	r.rewriteDef(def)

	// The element is visited before the clause variable evicts y.
	if r.counts["y"] != 1 {
		t.Fatalf("y substituted %d times, want 1", r.counts["y"])
	}

	if len(r.evicted) != 1 || r.evicted[0] != "y" {
		t.Fatalf("evicted = %v, want [y]", r.evicted)
	}
}

func TestReplacerSubscriptTargetIsRead(t *testing.T) {
	def := parseDef(t, `
def f(table):
    table[K] = 1
    return K
`)

	scope := testScope(map[string]starlark.Value{
		"K": starlark.MakeInt(4),
	})

	r := newReplacer(scope)
	r.rewriteDef(def)

	// Subscript assignment does not rebind K; both occurrences are reads.
	if r.counts["K"] != 2 {
		t.Fatalf("K substituted %d times, want 2", r.counts["K"])
	}

	if len(r.evicted) != 0 {
		t.Fatalf("evicted = %v, want none", r.evicted)
	}
}

func TestReplacerNestedDefShadows(t *testing.T) {
	def := parseDef(t, `
def outer():
    def K():
        return 1

    return K
`)

	scope := testScope(map[string]starlark.Value{
		"K": starlark.MakeInt(4),
	})

	r := newReplacer(scope)
	r.rewriteDef(def)

	if r.counts["K"] != 0 {
		t.Fatalf("K substituted %d times, want 0 (nested def rebinds it)", r.counts["K"])
	}

	if len(r.evicted) != 1 || r.evicted[0] != "K" {
		t.Fatalf("evicted = %v, want [K]", r.evicted)
	}
}

func TestReplacerKeywordArgumentNames(t *testing.T) {
	def := parseDef(t, `
def f():
    return dict(K = K)
`)

	scope := testScope(map[string]starlark.Value{
		"K": starlark.MakeInt(4),
	})

	r := newReplacer(scope)
	r.rewriteDef(def)

	// Only the value position is a reference.
	if r.counts["K"] != 1 {
		t.Fatalf("K substituted %d times, want 1", r.counts["K"])
	}
}

func TestSubstitutionsKeepLiteralAfterEviction(t *testing.T) {
	def := parseDef(t, `
def f():
    a = N
    N = 0
    return a
`)

	scope := testScope(map[string]starlark.Value{
		"N": starlark.MakeInt(5),
	})

	r := newReplacer(scope)
	r.rewriteDef(def)

	subs := r.substitutions()
	if len(subs) != 1 || subs[0].Name != "N" || subs[0].Literal != "5" {
		t.Fatalf("substitutions = %+v, want N -> 5", subs)
	}
}
