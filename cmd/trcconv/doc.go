// Package main hosts the trcconv CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into batch
// pipeline runs, standalone validation passes, metadata reporting, clip
// selection, run-history queries, and configuration scaffolding. It
// centralizes configuration resolution, toolbox construction, and structured
// logging setup so subcommands can focus on user experience instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
