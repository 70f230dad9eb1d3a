// Package api defines the read-model DTOs shared by the IPC server and the
// CLI.
//
// The engine's internal types (series snapshots, derived metric points, run
// state) never cross the process boundary directly; this package flattens
// them into JSON-tagged views so the wire format stays stable when engine
// internals move. Conversions live here too, next to the types they produce.
package api
