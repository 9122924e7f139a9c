// Package freezer implements compile-time constant pinning for Starlark
// callables. Freezing a function captures the bindings visible to it at that
// moment, substitutes literal values for every read of an immutable binding
// inside its definition, and recompiles the rewritten definition into a new
// callable that no longer consults the enclosing scope for those names.
package freezer

import (
	"fmt"

	"github.com/tliron/commonlog"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	m "github.com/frost-works/permafrost/internal/model"
)

var log = commonlog.GetLogger("permafrost.freezer")

// BuiltinName is the name the freeze operation is bound under in the
// environment of executed scripts.
const BuiltinName = "freeze"

// Options configure a single freeze application.
type Options struct {
	// EnforceGlobals makes the base environment win name collisions
	// against the target module's own bindings.
	EnforceGlobals bool
	// OverwriteWith is accepted and ignored.
	OverwriteWith *starlark.Dict
	// Ignore lists names excluded from substitution even when constant.
	Ignore map[string]bool
}

// Freezer owns the per-run state of the operation: registered sources,
// accumulated rewritten trees, and the identity set of its own builtins used
// to recognize self references in source.
type Freezer struct {
	opts *syntax.FileOptions
	base starlark.StringDict

	sources      map[string][]byte
	trees        map[string]*syntax.File
	removedStmts map[string]map[syntax.Stmt]bool

	self map[*starlark.Builtin]bool

	observer func(m.Report)
}

// New returns a Freezer whose script environment is base plus the freeze
// builtin. The observer, if non-nil, receives one report per successful
// freeze.
func New(base starlark.StringDict, observer func(m.Report)) *Freezer {
	return NewWithDefaults(base, Options{}, observer)
}

// NewWithDefaults is New with preset options baked into the freeze builtin.
// Script-side arguments extend them; ignore lists merge.
func NewWithDefaults(base starlark.StringDict, defaults Options, observer func(m.Report)) *Freezer {
	f := &Freezer{
		opts:         fileOptions(),
		base:         make(starlark.StringDict, len(base)+1),
		sources:      make(map[string][]byte),
		trees:        make(map[string]*syntax.File),
		removedStmts: make(map[string]map[syntax.Stmt]bool),
		self:         make(map[*starlark.Builtin]bool),
		observer:     observer,
	}

	for name, v := range base {
		f.base[name] = v
	}

	f.base[BuiltinName] = f.builtin(defaults)

	return f
}

// fileOptions enables the full script dialect. GlobalReassign is required:
// freezing a named function is written as a reassignment of its own global.
func fileOptions() *syntax.FileOptions {
	return &syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
		Recursion:       true,
	}
}

// Env returns a copy of the script environment, freeze builtin included.
func (f *Freezer) Env() starlark.StringDict {
	env := make(starlark.StringDict, len(f.base))
	for name, v := range f.base {
		env[name] = v
	}

	return env
}

// AddSource registers source text for filename, taking precedence over the
// filesystem. Scripts executed from memory must be registered this way or
// their targets are not introspectable.
func (f *Freezer) AddSource(filename string, src []byte) {
	f.sources[filename] = src
}

// ExecFile executes the script in the freezer's environment. A nil thread
// gets a fresh one named after the file.
func (f *Freezer) ExecFile(thread *starlark.Thread, filename string, src []byte) (starlark.StringDict, error) {
	if src != nil {
		f.AddSource(filename, src)
	}

	text, err := f.sourceFor(filename)
	if err != nil {
		return nil, err
	}

	if thread == nil {
		thread = &starlark.Thread{Name: filename}
	}

	return starlark.ExecFileOptions(f.opts, thread, filename, text, f.base)
}

// builtin creates one callable form of the operation. A call carrying a
// function as its first positional argument freezes it; a call carrying only
// configuration returns a partial that applies the stored configuration to
// its own target, which is how `freeze(ignore=["n"])(fn)` composes.
func (f *Freezer) builtin(preset Options) *starlark.Builtin {
	b := starlark.NewBuiltin(BuiltinName, func(thread *starlark.Thread, bn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			target    starlark.Value
			enforce   = preset.EnforceGlobals
			overwrite = preset.OverwriteWith
			ignore    *starlark.List
		)

		err := starlark.UnpackArgs(bn.Name(), args, kwargs,
			"fn?", &target,
			"enforce_globals?", &enforce,
			"overwrite_with?", &overwrite,
			"ignore?", &ignore,
		)
		if err != nil {
			return nil, err
		}

		opts := Options{
			EnforceGlobals: enforce,
			OverwriteWith:  overwrite,
			Ignore:         mergeIgnore(preset.Ignore, ignore),
		}

		if target == nil {
			return f.builtin(opts), nil
		}

		fn, ok := target.(*starlark.Function)
		if !ok {
			return nil, errIncorrectInput()
		}

		return f.freeze(thread, fn, opts)
	})

	f.self[b] = true

	return b
}

func mergeIgnore(preset map[string]bool, extra *starlark.List) map[string]bool {
	merged := make(map[string]bool, len(preset))
	for name := range preset {
		merged[name] = true
	}

	if extra != nil {
		for i := 0; i < extra.Len(); i++ {
			if s, ok := starlark.AsString(extra.Index(i)); ok {
				merged[s] = true
			}
		}
	}

	return merged
}

// freeze runs the pipeline on fn: capture the visible scope, locate the
// definition and strip the triggering call, validate the snippet, reduce the
// scope to constants, substitute, then recompile and return the rebound
// callable.
func (f *Freezer) freeze(thread *starlark.Thread, fn *starlark.Function, opts Options) (starlark.Value, error) {
	f.printf(thread, ">>> freezing `%s`", fn.Name())

	filename := fn.Position().Filename()

	tree, err := f.treeFor(filename)
	if err != nil {
		return nil, wrap(fn.Name(), err)
	}

	scope := captureScope(fn, f.base, opts.EnforceGlobals)
	log.Debugf("captured %d binding(s) for %s", scope.Len(), fn.Name())

	loc, err := f.locate(tree, fn, scope)
	if err != nil {
		return nil, err
	}

	if err := f.checkDedentedParse(filename, loc.startLine, loc.endLine); err != nil {
		return nil, wrap(loc.bindName, err)
	}

	src, err := f.sourceFor(filename)
	if err != nil {
		return nil, wrap(loc.bindName, err)
	}

	original := snippetLines(src, loc.startLine, loc.endLine)

	// The full pre-filter scope backs the recompilation, so names the
	// substitution leaves in place keep referring to the same objects.
	full := scope.Clone()

	filterConstants(scope, opts.Ignore)
	log.Debugf("%d constant(s) eligible for %s", scope.Len(), loc.bindName)

	r := newReplacer(scope)
	if loc.def != nil {
		r.rewriteDef(loc.def)
	} else {
		r.rewriteLambda(loc.lambda)
	}

	v, err := f.synthesize(thread, loc, tree, full.StringDict())
	if err != nil {
		return nil, err
	}

	if f.observer != nil {
		kind := m.KindFunction
		if loc.lambda != nil {
			kind = m.KindLambda
		}

		f.observer(m.Report{
			Target: m.Target{
				Name: loc.bindName,
				Kind: kind,
				File: m.Path(filename),
				Line: loc.startLine,
			},
			Frozen:    r.substitutions(),
			Evicted:   r.evicted,
			Original:  original,
			Rewritten: renderChunk(loc, tree),
		})
	}

	return v, nil
}

func (f *Freezer) printf(thread *starlark.Thread, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	if thread != nil && thread.Print != nil {
		thread.Print(thread, msg)
		return
	}

	fmt.Println(msg)
}
