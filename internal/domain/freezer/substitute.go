package freezer

import (
	"go.starlark.net/syntax"

	m "github.com/frost-works/permafrost/internal/model"
)

// replacer performs the destructive single pass over the target's definition
// tree: read references to names still present in scope are replaced with
// literal expressions, and any name that is written to is evicted from scope
// so later references keep their runtime meaning.
type replacer struct {
	scope *m.CapturedScope

	counts   map[string]int
	literals map[string]string
	order    []string
	evicted  []string
}

func newReplacer(scope *m.CapturedScope) *replacer {
	return &replacer{
		scope:    scope,
		counts:   make(map[string]int),
		literals: make(map[string]string),
	}
}

// substitutions returns the per-name substitution records in the order the
// first substitution of each name happened.
func (r *replacer) substitutions() []m.Substitution {
	subs := make([]m.Substitution, 0, len(r.order))

	for _, name := range r.order {
		subs = append(subs, m.Substitution{
			Name:    name,
			Literal: r.literals[name],
			Count:   r.counts[name],
		})
	}

	return subs
}

func (r *replacer) rewriteDef(def *syntax.DefStmt) {
	r.params(def.Params)

	for _, stmt := range def.Body {
		r.stmt(stmt)
	}
}

func (r *replacer) rewriteLambda(lambda *syntax.LambdaExpr) {
	r.params(lambda.Params)
	r.expr(&lambda.Body)
}

// params evicts every parameter name, since inside the body the parameter
// shadows whatever the name meant outside. Default values are evaluated in
// the enclosing scope, so all defaults are visited as reads before any
// parameter name is evicted: in `def f(N, M=N)` the default still denotes
// the outer N.
func (r *replacer) params(params []syntax.Expr) {
	for _, p := range params {
		if p, ok := p.(*syntax.BinaryExpr); ok && p.Op == syntax.EQ {
			r.expr(&p.Y)
		}
	}

	for _, p := range params {
		switch p := p.(type) {
		case *syntax.Ident:
			r.evict(p.Name)

		case *syntax.BinaryExpr:
			if p.Op == syntax.EQ {
				if ident, ok := p.X.(*syntax.Ident); ok {
					r.evict(ident.Name)
				}
			}

		case *syntax.UnaryExpr:
			if ident, ok := p.X.(*syntax.Ident); ok {
				r.evict(ident.Name)
			}
		}
	}
}

func (r *replacer) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.AssignStmt:
		// The write target is visited before the value, so a self
		// assignment like `n = n + 1` never sees a frozen `n`.
		r.store(&s.LHS)
		r.expr(&s.RHS)

	case *syntax.ExprStmt:
		r.expr(&s.X)

	case *syntax.ReturnStmt:
		if s.Result != nil {
			r.expr(&s.Result)
		}

	case *syntax.IfStmt:
		r.expr(&s.Cond)

		for _, b := range s.True {
			r.stmt(b)
		}

		for _, b := range s.False {
			r.stmt(b)
		}

	case *syntax.ForStmt:
		r.store(&s.Vars)
		r.expr(&s.X)

		for _, b := range s.Body {
			r.stmt(b)
		}

	case *syntax.WhileStmt:
		r.expr(&s.Cond)

		for _, b := range s.Body {
			r.stmt(b)
		}

	case *syntax.DefStmt:
		// A nested definition rebinds its own name and introduces
		// parameters; both count as writes.
		r.evict(s.Name.Name)
		r.params(s.Params)

		for _, b := range s.Body {
			r.stmt(b)
		}

	case *syntax.LoadStmt:
		for _, to := range s.To {
			r.evict(to.Name)
		}

	case *syntax.BranchStmt:
		// pass, break, continue
	}
}

// store visits a write target. Bare identifiers are evicted; subscript and
// attribute targets do not rebind the base name, so their subexpressions are
// ordinary reads.
func (r *replacer) store(slot *syntax.Expr) {
	switch e := (*slot).(type) {
	case *syntax.Ident:
		r.evict(e.Name)

	case *syntax.ParenExpr:
		r.store(&e.X)

	case *syntax.TupleExpr:
		for i := range e.List {
			r.store(&e.List[i])
		}

	case *syntax.ListExpr:
		for i := range e.List {
			r.store(&e.List[i])
		}

	case *syntax.IndexExpr:
		r.expr(&e.X)
		r.expr(&e.Y)

	case *syntax.DotExpr:
		r.expr(&e.X)
	}
}

func (r *replacer) expr(slot *syntax.Expr) {
	switch e := (*slot).(type) {
	case *syntax.Ident:
		v, ok := r.scope.Get(e.Name)
		if !ok {
			return
		}

		*slot = inlineExpr(v, e.NamePos)

		if r.counts[e.Name] == 0 {
			r.order = append(r.order, e.Name)
			r.literals[e.Name] = v.String()
		}

		r.counts[e.Name]++

	case *syntax.ParenExpr:
		r.expr(&e.X)

	case *syntax.UnaryExpr:
		if e.X != nil {
			r.expr(&e.X)
		}

	case *syntax.BinaryExpr:
		r.expr(&e.X)
		r.expr(&e.Y)

	case *syntax.CondExpr:
		r.expr(&e.Cond)
		r.expr(&e.True)
		r.expr(&e.False)

	case *syntax.CallExpr:
		r.expr(&e.Fn)

		for i := range e.Args {
			// Keyword argument names are not references.
			if kw, ok := e.Args[i].(*syntax.BinaryExpr); ok && kw.Op == syntax.EQ {
				r.expr(&kw.Y)
				continue
			}

			r.expr(&e.Args[i])
		}

	case *syntax.DotExpr:
		r.expr(&e.X)

	case *syntax.IndexExpr:
		r.expr(&e.X)
		r.expr(&e.Y)

	case *syntax.SliceExpr:
		r.expr(&e.X)

		if e.Lo != nil {
			r.expr(&e.Lo)
		}

		if e.Hi != nil {
			r.expr(&e.Hi)
		}

		if e.Step != nil {
			r.expr(&e.Step)
		}

	case *syntax.TupleExpr:
		for i := range e.List {
			r.expr(&e.List[i])
		}

	case *syntax.ListExpr:
		for i := range e.List {
			r.expr(&e.List[i])
		}

	case *syntax.DictExpr:
		for i := range e.List {
			r.expr(&e.List[i])
		}

	case *syntax.DictEntry:
		r.expr(&e.Key)
		r.expr(&e.Value)

	case *syntax.Comprehension:
		// The element expression is visited before the clauses, so a
		// clause variable shadowing a frozen name evicts it only for
		// whatever follows in this pass.
		r.expr(&e.Body)

		for _, clause := range e.Clauses {
			switch c := clause.(type) {
			case *syntax.ForClause:
				r.store(&c.Vars)
				r.expr(&c.X)

			case *syntax.IfClause:
				r.expr(&c.Cond)
			}
		}

	case *syntax.LambdaExpr:
		r.params(e.Params)
		r.expr(&e.Body)
	}
}

func (r *replacer) evict(name string) {
	if _, ok := r.scope.Get(name); !ok {
		return
	}

	r.scope.Delete(name)
	r.evicted = append(r.evicted, name)
}
