// Package engine orchestrates one tracking day end to end: a single
// discovery pass across the configured channels, an immediate baseline
// sampling round, and one further round per wall-clock hour.
//
// The engine never retries. Any data-source failure is terminal for the run,
// and samples captured before the failure remain queryable through the
// daemon's read surface. A run is single-shot: once it reaches a terminal
// phase, starting a new day means starting a new daemon.
package engine
