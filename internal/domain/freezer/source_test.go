package freezer

import "testing"

func TestSnippetLines(t *testing.T) {
	src := []byte("a\nb\nc\nd")

	if got := snippetLines(src, 2, 3); got != "b\nc" {
		t.Fatalf("snippetLines(2, 3) = %q", got)
	}

	if got := snippetLines(src, 3, 99); got != "c\nd" {
		t.Fatalf("snippetLines(3, 99) = %q", got)
	}

	// Ranges that do not denote lines of src yield nothing.
	for _, r := range [][2]int{{0, 2}, {9, 12}, {3, 1}} {
		if got := snippetLines(src, r[0], r[1]); got != "" {
			t.Fatalf("snippetLines(%d, %d) = %q, want empty", r[0], r[1], got)
		}
	}
}

func TestDedent(t *testing.T) {
	in := "    def f():\n        return 1"

	if got := dedent(in); got != "def f():\n    return 1" {
		t.Fatalf("dedent() = %q", got)
	}

	if got := dedent("x = 1"); got != "x = 1" {
		t.Fatalf("dedent(unindented) = %q", got)
	}
}
