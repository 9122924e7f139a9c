// Package model defines the data structures for constant freezing.
package model

// Path represents a file system path.
type Path string

// TargetKind classifies the callable form a freeze operation was applied to.
type TargetKind string

const (
	// KindFunction is a named def statement rebound via a wrapping call.
	KindFunction TargetKind = "function"
	// KindLambda is a lambda expression passed directly to the operation.
	KindLambda TargetKind = "lambda"
)

// Target identifies the callable being frozen.
type Target struct {
	Name string     `toml:"target"`
	Kind TargetKind `toml:"kind"`
	File Path       `toml:"file"`
	Line int        `toml:"line"`
}

// File pairs a path with a content fingerprint.
type File struct {
	Path Path   `toml:"path"`
	Hash string `toml:"hash"`
}

// Source represents a Starlark source file eligible for freezing.
type Source struct {
	Origin *File `toml:"origin"`
	// Sites is the number of freeze invocation sites detected statically.
	Sites int `toml:"sites"`
}
