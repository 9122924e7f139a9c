package model

import "go.starlark.net/starlark"

// CapturedScope is an ordered name-to-value mapping assembled once per freeze
// pass. Entries are removed destructively during constant filtering and when
// a write-occurrence of a name evicts it during tree substitution.
type CapturedScope struct {
	names  []string
	values map[string]starlark.Value
}

// NewCapturedScope returns an empty scope.
func NewCapturedScope() *CapturedScope {
	return &CapturedScope{values: make(map[string]starlark.Value)}
}

// Set inserts or overwrites a binding. Insertion order is preserved; an
// overwrite keeps the name's original position.
func (s *CapturedScope) Set(name string, v starlark.Value) {
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}

	s.values[name] = v
}

// Get returns the value bound to name, if present.
func (s *CapturedScope) Get(name string) (starlark.Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Delete evicts a binding. Deleting an absent name is a no-op.
func (s *CapturedScope) Delete(name string) {
	if _, ok := s.values[name]; !ok {
		return
	}

	delete(s.values, name)

	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
}

// Names returns the live names in insertion order.
func (s *CapturedScope) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)

	return out
}

// Len reports the number of live bindings.
func (s *CapturedScope) Len() int {
	return len(s.names)
}

// Clone returns an independent copy of the scope.
func (s *CapturedScope) Clone() *CapturedScope {
	c := NewCapturedScope()
	for _, name := range s.names {
		c.Set(name, s.values[name])
	}

	return c
}

// StringDict flattens the scope into a starlark environment.
func (s *CapturedScope) StringDict() starlark.StringDict {
	d := make(starlark.StringDict, len(s.names))
	for _, name := range s.names {
		d[name] = s.values[name]
	}

	return d
}
