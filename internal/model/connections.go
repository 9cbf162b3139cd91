package model

// InternalConnection wires one component's variable to another component's
// parameter. The destination aliases the source's storage at build time.
type InternalConnection struct {
	SrcComponent string
	SrcVariable  string
	DstComponent string
	DstParameter string

	// IgnoreUnits is recorded for the collaborator that performs
	// dimensional validation; the engine itself does not interpret it.
	IgnoreUnits bool

	// Backup names an external parameter supplying values for periods the
	// source cannot cover. Empty means no backup.
	Backup string
}

// ExternalConnection binds a component's parameter to an entry in the
// model's external-parameter registry.
type ExternalConnection struct {
	Component string
	Parameter string
	Key       string
}

// ConnOption configures an internal connection at declaration time.
type ConnOption func(*InternalConnection)

// IgnoreUnits marks the connection as exempt from units validation.
func IgnoreUnits() ConnOption {
	return func(c *InternalConnection) { c.IgnoreUnits = true }
}

// WithBackup designates an external parameter to supply values for periods
// outside the source component's run range.
func WithBackup(key string) ConnOption {
	return func(c *InternalConnection) { c.Backup = key }
}
