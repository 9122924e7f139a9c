package freezer

import (
	"github.com/bazelbuild/buildtools/build"
	"github.com/bazelbuild/buildtools/convertast"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// synthesize compiles the rewritten definition as a standalone chunk and
// executes it with the full captured scope as its predeclared environment.
// Every name the substitution pass left alone therefore resolves to the very
// runtime object it referred to before, mutable values included.
func (f *Freezer) synthesize(thread *starlark.Thread, loc *located, tree *syntax.File, scope starlark.StringDict) (starlark.Value, error) {
	mini := miniFile(loc, tree)

	prog, err := starlark.FileProgram(mini, func(name string) bool {
		_, ok := scope[name]
		return ok
	})
	if err != nil {
		return nil, wrap(loc.bindName, err)
	}

	globals, err := prog.Init(thread, scope)
	if err != nil {
		return nil, wrap(loc.bindName, err)
	}

	v, ok := globals[loc.bindName]
	if !ok {
		return nil, failf(loc.bindName, "recompiling `%s` produced no binding", loc.bindName)
	}

	return v, nil
}

// miniFile wraps the target's rewritten definition in a one-statement file.
// The options are shared with the originating file so the chunk compiles
// under the same dialect.
func miniFile(loc *located, tree *syntax.File) *syntax.File {
	var stmt syntax.Stmt

	if loc.def != nil {
		stmt = loc.def
	} else {
		stmt = &syntax.AssignStmt{
			OpPos: validPos,
			Op:    syntax.EQ,
			LHS:   &syntax.Ident{NamePos: validPos, Name: loc.bindName},
			RHS:   loc.lambda,
		}
	}

	return &syntax.File{
		Path:    tree.Path,
		Stmts:   []syntax.Stmt{stmt},
		Options: tree.Options,
	}
}

// renderChunk formats the target's current definition tree back to source.
func renderChunk(loc *located, tree *syntax.File) string {
	return renderFile(miniFile(loc, tree))
}

// RenderFile formats the accumulated rewritten tree of filename, with
// stripped wrapper statements removed. It is the emission counterpart of the
// in-memory rebinding: writing its output back yields a script that no
// longer needs the freeze operation at run time.
func (f *Freezer) RenderFile(filename string) ([]byte, error) {
	tree, err := f.treeFor(filename)
	if err != nil {
		return nil, err
	}

	removed := f.removedStmts[filename]

	kept := make([]syntax.Stmt, 0, len(tree.Stmts))

	for _, stmt := range tree.Stmts {
		if removed[stmt] {
			continue
		}

		kept = append(kept, stmt)
	}

	out := &syntax.File{Path: tree.Path, Stmts: kept, Options: tree.Options}

	return []byte(renderFile(out)), nil
}

func renderFile(tree *syntax.File) string {
	bf := convertast.ConvFile(tree)
	bf.Type = build.TypeBzl

	return string(build.Format(bf))
}
