package domain

import "fmt"

// TriState is a three-valued logic result distinguishing "denied" from
// "no applicable rule". Callers that need a plain boolean must treat
// Undefined as false via AsBool.
type TriState string

const (
	True      TriState = "true"
	False     TriState = "false"
	Undefined TriState = "undefined"
)

// AsBool collapses the tri-state to a boolean: only True maps to true.
func (t TriState) AsBool() bool {
	return t == True
}

// Defined reports whether the value carries an actual answer.
func (t TriState) Defined() bool {
	return t == True || t == False
}

// TriStateOf converts a boolean into its tri-state equivalent.
func TriStateOf(v bool) TriState {
	if v {
		return True
	}
	return False
}

// ParseTriState converts a string into a TriState, accepting the canonical
// lower-case forms only.
func ParseTriState(s string) (TriState, error) {
	switch TriState(s) {
	case True, False, Undefined:
		return TriState(s), nil
	}
	return Undefined, fmt.Errorf("invalid tri-state value: %q", s)
}
