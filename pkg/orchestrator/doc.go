// Package orchestrator wires the loader → field builder → renderer pipeline
// for power parameter forms, giving callers a single entry point with
// dependency injection for every stage.
package orchestrator
