package model

// Substitution records the inlining of one captured name.
type Substitution struct {
	Name    string `toml:"name"`
	Literal string `toml:"literal"`
	Count   int    `toml:"count"`
}

// Report describes the outcome of freezing a single target.
type Report struct {
	Target

	Frozen    []Substitution `toml:"frozen"`
	Evicted   []string       `toml:"evicted,omitempty"`
	Original  string         `toml:"original"`
	Rewritten string         `toml:"rewritten"`
}

// FileResult holds the freeze results for a single source file.
type FileResult struct {
	Source  Source   `toml:"source"`
	Reports []Report `toml:"reports"`
}
