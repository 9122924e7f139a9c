package freezer

import "fmt"

// FreezeError is the single caller-facing error kind of the freeze
// operation. Every failure of the pipeline is reported through it, the
// self-reference lookup path included.
type FreezeError struct {
	// Target is the name of the callable being frozen, empty when the
	// failure happened before a callable was identified.
	Target string
	// Msg is a short description used when there is no underlying cause.
	Msg string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *FreezeError) Error() string {
	switch {
	case e.Cause != nil && e.Target != "":
		return fmt.Sprintf("freeze: while freezing `%s`: %v", e.Target, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("freeze: %v", e.Cause)
	case e.Target != "":
		return fmt.Sprintf("freeze: `%s`: %s", e.Target, e.Msg)
	default:
		return fmt.Sprintf("freeze: %s", e.Msg)
	}
}

func (e *FreezeError) Unwrap() error {
	return e.Cause
}

// errIncorrectInput rejects targets that are not functions or lambdas.
func errIncorrectInput() *FreezeError {
	return &FreezeError{Msg: "incorrect input."}
}

func failf(target string, format string, args ...any) *FreezeError {
	return &FreezeError{Target: target, Msg: fmt.Sprintf(format, args...)}
}

func wrap(target string, err error) error {
	if err == nil {
		return nil
	}

	if fe, ok := err.(*FreezeError); ok {
		return fe
	}

	return &FreezeError{Target: target, Cause: err}
}
