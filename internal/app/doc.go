// Package app wires the engine together for one process: it constructs an
// isolated logger and component registry, loads the model declaration from
// the configured path, and owns the build-and-run lifecycle of the
// resulting model, decoupled from any specific entrypoint like the CLI.
package app
