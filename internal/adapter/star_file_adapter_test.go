package adapter

import (
	"testing"
)

func TestStarFileAdapter_ParseFullDialect(t *testing.T) {
	a := NewLocalStarFileAdapter()

	// Top-level control flow, while, set literals via set(), and global
	// reassignment all belong to the accepted dialect.
	src := []byte(`
x = 1

if x > 0:
    x = 2

while x < 5:
    x += 1

def f():
    return x

f = freeze(f)
`)

	tree, err := a.Parse("test.star", src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(tree.Stmts) == 0 {
		t.Fatalf("expected statements")
	}
}

func TestStarFileAdapter_ParseError(t *testing.T) {
	a := NewLocalStarFileAdapter()

	if _, err := a.Parse("bad.star", []byte("def (:\n")); err == nil {
		t.Fatalf("expected parse error")
	}
}
