package builder

import "fmt"

// MissingBackupError reports an internal connection whose destination needs
// periods the source cannot supply, with no backup parameter designated.
type MissingBackupError struct {
	SrcComponent string
	DstComponent string
	DstParameter string
}

func (e *MissingBackupError) Error() string {
	return fmt.Sprintf(
		"connection %s -> %s.%s: destination run range exceeds the source's and no backup parameter is designated",
		e.SrcComponent, e.DstComponent, e.DstParameter)
}

// UnboundParameterError reports a parameter left with no connection at all,
// or whose external parameter was referenced but never assigned a value.
type UnboundParameterError struct {
	Component string
	Parameter string
	Reason    string
}

func (e *UnboundParameterError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("parameter %s.%s is unbound: %s", e.Component, e.Parameter, e.Reason)
	}
	return fmt.Sprintf("parameter %s.%s has no internal or external connection", e.Component, e.Parameter)
}
