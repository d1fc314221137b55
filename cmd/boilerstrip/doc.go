// Package main hosts the boilerstrip CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, applies flag overrides,
// and hands the work to the internal packages: cleaner for clean and scan,
// preflight for check, and history for the run log database. Keep commands
// thin and put behaviour in internal packages first.
package main
