package freezer

import (
	"go.starlark.net/starlark"

	m "github.com/frost-works/permafrost/internal/model"
)

// captureScope assembles the bindings visible to fn at the moment of
// freezing. The local layer is the target module's own global bindings at
// this point of execution; the global layer is the base (predeclared)
// environment the module was started with. By default local bindings win
// ties; with enforceGlobals the base layer wins.
//
// Both layers are copied; the live namespaces are never retained or mutated.
func captureScope(fn *starlark.Function, base starlark.StringDict, enforceGlobals bool) *m.CapturedScope {
	locals := fn.Globals()

	scope := m.NewCapturedScope()

	if enforceGlobals {
		overlay(scope, locals)
		overlay(scope, base)
	} else {
		overlay(scope, base)
		overlay(scope, locals)
	}

	return scope
}

func overlay(scope *m.CapturedScope, layer starlark.StringDict) {
	for _, name := range layer.Keys() {
		if v := layer[name]; v != nil {
			scope.Set(name, v)
		}
	}
}

// filterConstants destructively reduces the scope to entries whose value is
// of an allow-listed immutable kind and whose name is not ignored. Pure set
// reduction; removal order does not affect the result.
func filterConstants(scope *m.CapturedScope, ignore map[string]bool) {
	for _, name := range scope.Names() {
		v, ok := scope.Get(name)
		if !ok {
			continue
		}

		if !canInline(v) || ignore[name] {
			scope.Delete(name)
		}
	}
}
