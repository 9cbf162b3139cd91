// Package model holds the declarative graph types: component identities and
// schemas, model definitions, connections, and external parameters. A Def is
// purely declarative; it is compiled into a runnable instance by the builder
// package. Name-level checks (duplicates, positional references, component
// existence for connections) happen eagerly at declaration time; datum
// existence and dimension compatibility are deferred to build time.
package model
