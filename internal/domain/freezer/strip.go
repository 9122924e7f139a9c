package freezer

import (
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	m "github.com/frost-works/permafrost/internal/model"
)

// located is the outcome of finding the target's definition tree and the
// wrapping-call statement that triggered the freeze.
type located struct {
	// def is set for named function targets, lambda for lambda targets.
	def    *syntax.DefStmt
	lambda *syntax.LambdaExpr

	// bindName is the module-level name the re-synthesized callable is
	// bound under.
	bindName string

	startLine int
	endLine   int

	// wrapper is the triggering assignment statement, nil when the
	// operation was invoked from the host without one in the source.
	wrapper syntax.Stmt
	// dropWrapper marks a wrapper that becomes a pure self-rebinding
	// (`x = x`) once the freeze call is stripped, and is removed whole.
	dropWrapper bool
}

// locate finds the target's definition inside tree and strips the freeze
// invocation from the form that will be emitted. Wrapping calls other than
// this operation are preserved in original order; stripping rewrites only
// the freeze call itself.
func (f *Freezer) locate(tree *syntax.File, fn *starlark.Function, scope *m.CapturedScope) (*located, error) {
	if fn.Name() == "lambda" {
		return f.locateLambda(tree, fn, scope)
	}

	return f.locateDef(tree, fn, scope)
}

func (f *Freezer) locateDef(tree *syntax.File, fn *starlark.Function, scope *m.CapturedScope) (*located, error) {
	pos := fn.Position()

	// Prefer the definition whose span contains the function's recorded
	// position; shadowed same-name definitions fall back to the last one.
	var def *syntax.DefStmt

	for _, stmt := range tree.Stmts {
		d, ok := stmt.(*syntax.DefStmt)
		if !ok || d.Name.Name != fn.Name() {
			continue
		}

		def = d

		start, end := d.Span()
		if pos.Line >= start.Line && pos.Line <= end.Line {
			break
		}
	}

	if def == nil {
		return nil, failf(fn.Name(), "unable to locate the definition of `%s` in %s", fn.Name(), tree.Path)
	}

	start, end := def.Span()
	loc := &located{def: def, bindName: def.Name.Name, startLine: int(start.Line), endLine: int(end.Line)}

	f.stripWrapper(tree, fn, scope, loc)

	return loc, nil
}

// stripWrapper finds the top-level assignment whose value chain contains a
// call to this operation applied to fn, and removes that call from the form
// to be emitted. The wrapper may legitimately be absent (host-side call).
func (f *Freezer) stripWrapper(tree *syntax.File, fn *starlark.Function, scope *m.CapturedScope, loc *located) {
	for _, stmt := range tree.Stmts {
		if f.removedStmts[tree.Path][stmt] {
			continue
		}

		assign, ok := stmt.(*syntax.AssignStmt)
		if !ok || assign.Op != syntax.EQ {
			continue
		}

		lhs, ok := assign.LHS.(*syntax.Ident)
		if !ok {
			continue
		}

		call, set := f.findSelfCall(&assign.RHS, scope)
		if call == nil {
			continue
		}

		arg, ok := firstPositional(call).(*syntax.Ident)
		if !ok || !f.denotes(scope, arg.Name, fn) {
			continue
		}

		if replacesWholeValue(assign, call) && lhs.Name == arg.Name {
			loc.wrapper = stmt
			loc.dropWrapper = true
			f.removeStmt(tree, stmt)

			return
		}

		set(arg)

		loc.wrapper = stmt

		return
	}
}

func (f *Freezer) locateLambda(tree *syntax.File, fn *starlark.Function, scope *m.CapturedScope) (*located, error) {
	pos := fn.Position()

	for _, stmt := range tree.Stmts {
		if f.removedStmts[tree.Path][stmt] {
			continue
		}

		assign, ok := stmt.(*syntax.AssignStmt)
		if !ok || assign.Op != syntax.EQ {
			continue
		}

		lhs, ok := assign.LHS.(*syntax.Ident)
		if !ok {
			continue
		}

		call, set := f.findSelfCall(&assign.RHS, scope)
		if call == nil {
			continue
		}

		lambda, ok := firstPositional(call).(*syntax.LambdaExpr)
		if !ok {
			continue
		}

		start, end := lambda.Span()
		if pos.Line < start.Line || pos.Line > end.Line {
			continue
		}

		// The first positional argument of the call is the true
		// definition tree; the call around it is stripped.
		set(lambda)

		return &located{
			lambda:    lambda,
			bindName:  lhs.Name,
			startLine: int(start.Line),
			endLine:   int(end.Line),
			wrapper:   stmt,
		}, nil
	}

	return nil, failf(fn.Name(), "unable to locate the freeze invocation in %s", tree.Path)
}

// findSelfCall searches the value expression (descending through wrapper
// calls and parentheses) for a call whose callee resolves, in the captured
// scope, to this operation. It returns the call and a setter that replaces
// the call node within its parent slot.
func (f *Freezer) findSelfCall(slot *syntax.Expr, scope *m.CapturedScope) (*syntax.CallExpr, func(syntax.Expr)) {
	switch e := (*slot).(type) {
	case *syntax.ParenExpr:
		return f.findSelfCall(&e.X, scope)

	case *syntax.CallExpr:
		if f.isSelfCall(e, scope) {
			return e, func(repl syntax.Expr) { *slot = repl }
		}

		for i := range e.Args {
			if call, set := f.findSelfCall(&e.Args[i], scope); call != nil {
				return call, set
			}
		}

		return f.findSelfCall(&e.Fn, scope)
	}

	return nil, nil
}

// isSelfCall recognizes both invocation shapes: the bare form freeze(...)
// and the factory form freeze(...)(...). Recognition is by value identity in
// the captured scope, so aliased bindings of the operation are found too.
func (f *Freezer) isSelfCall(call *syntax.CallExpr, scope *m.CapturedScope) bool {
	switch fn := call.Fn.(type) {
	case *syntax.Ident:
		return f.resolvesToSelf(scope, fn.Name)

	case *syntax.CallExpr:
		if ident, ok := fn.Fn.(*syntax.Ident); ok {
			return f.resolvesToSelf(scope, ident.Name)
		}
	}

	return false
}

func (f *Freezer) resolvesToSelf(scope *m.CapturedScope, name string) bool {
	v, ok := scope.Get(name)
	if !ok {
		return false
	}

	b, ok := v.(*starlark.Builtin)

	return ok && f.self[b]
}

// denotes reports whether name is bound, in the captured scope, to the very
// function object being frozen.
func (f *Freezer) denotes(scope *m.CapturedScope, name string, fn *starlark.Function) bool {
	if name == fn.Name() {
		return true
	}

	v, ok := scope.Get(name)
	if !ok {
		return false
	}

	other, ok := v.(*starlark.Function)

	return ok && other == fn
}

// firstPositional returns the call's first non-keyword argument, or nil.
func firstPositional(call *syntax.CallExpr) syntax.Expr {
	for _, arg := range call.Args {
		if be, ok := arg.(*syntax.BinaryExpr); ok && be.Op == syntax.EQ {
			continue
		}

		if un, ok := arg.(*syntax.UnaryExpr); ok && (un.Op == syntax.STAR || un.Op == syntax.STARSTAR) {
			continue
		}

		return arg
	}

	return nil
}

// replacesWholeValue reports whether call is the assignment's entire value
// expression, ignoring parentheses.
func replacesWholeValue(assign *syntax.AssignStmt, call *syntax.CallExpr) bool {
	e := assign.RHS
	for {
		if p, ok := e.(*syntax.ParenExpr); ok {
			e = p.X
			continue
		}

		break
	}

	return e == syntax.Expr(call)
}

// removeStmt marks a top-level statement for removal at emission time. The
// tree itself keeps its shape so positions of later targets stay valid.
func (f *Freezer) removeStmt(tree *syntax.File, stmt syntax.Stmt) {
	removed, ok := f.removedStmts[tree.Path]
	if !ok {
		removed = make(map[syntax.Stmt]bool)
		f.removedStmts[tree.Path] = removed
	}

	removed[stmt] = true
}
