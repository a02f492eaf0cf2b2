// Package app wires the loaders, registry, planner and engine into the
// runnable application behind the CLI.
package app
