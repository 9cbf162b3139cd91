// Package builder compiles a declarative model.Def into a runnable
// instance.ModelInstance. The build proceeds in passes: period resolution,
// connection validation (datum existence and dimension compatibility,
// deferred from declaration time), connection-graph validation, variable
// storage allocation, connector synthesis for period-range mismatches,
// parameter binding, and final assembly. On any failure no instance is
// produced, so a caller's prior instance remains valid until a retry
// succeeds.
package builder
