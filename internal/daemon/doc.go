// Package daemon coordinates the long-running shortspulse process.
//
// It wires configuration, the tracking engine, and notifications into a
// single lifecycle with flock-based locking to prevent multiple instances,
// and exposes the read-only query surface (status, videos, series, discovery
// log) the IPC layer serves to the CLI.
//
// Keep orchestration logic here: discovery and sampling live in the engine
// while the daemon focuses on startup, shutdown, and queries.
package daemon
