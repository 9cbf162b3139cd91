package model

import "fmt"

// DuplicateNameError reports an attempt to re-add an existing dimension,
// parameter, variable, or component instance name.
type DuplicateNameError struct {
	Kind  string // "dimension", "parameter", "variable", "component"
	Name  string
	Scope string // the component or model the name collided in
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s %q already exists in %s", e.Kind, e.Name, e.Scope)
}

// UnknownReferenceError reports a connection or positional insert that names
// a nonexistent component or datum.
type UnknownReferenceError struct {
	Kind  string // "component", "variable", "parameter", "dimension"
	Name  string
	Scope string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("unknown %s %q referenced in %s", e.Kind, e.Name, e.Scope)
}
