// Package normalize holds the pure canonicalization routines used by the
// extraction engine. Every function is total over string input and returns
// an *Error when the value cannot be brought into canonical form; callers
// treat that as a non-match, never as a hard failure.
package normalize

import "fmt"

// Error marks a raw value that matched an extraction pattern but could not
// be canonicalized.
type Error struct {
	Kind  string
	Value string
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot normalize %s value %q", e.Kind, e.Value)
}

func failed(kind, value string) error {
	return &Error{Kind: kind, Value: value}
}
