// Package series owns the in-memory time series the engine accumulates per
// tracked video: immutable metadata set once at discovery plus an append-only
// sample sequence in capture order.
//
// The store is the single synchronization point between the polling engine
// (the only writer) and IPC readers. One mutex guards the map, held only for
// the duration of each method call and never across network I/O; readers get
// value copies, so nothing they hold aliases live state.
package series
