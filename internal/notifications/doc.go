// Package notifications delivers tracker events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. The per-category toggles (discovery, errors) are honored here so
// engine code can emit every event unconditionally.
//
// Extend this package if you need alternative transports; all engine code
// depends only on the simple Service interface.
package notifications
