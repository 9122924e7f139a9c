package cmd

const rootLongDescription = `Permafrost pins enclosing-scope constants into Starlark functions.

Executing a script that calls freeze(fn) captures the bindings visible to fn
at that moment, substitutes literals for every read of an immutable binding
inside its definition, and rebinds the recompiled result. Values that change
later no longer affect the frozen callable.

Supports Go-style path patterns:
  - ./...            recursively scan current directory
  - ./scripts/...    recursively scan scripts directory
  - ./a ./b          scan multiple directories`

const runLongDescription = `Run executes every discovered Starlark source and lets its freeze calls
transform their targets. Use --write to emit the rewritten sources, which no
longer need the freeze operation at run time.

Project defaults are read from permafrost.toml when present; command-line
flags override them.`

const listLongDescription = `List scans for Starlark sources and reports how many freeze invocation
sites each one contains, without executing anything. The count is a static
estimate; execution is the authority.`
