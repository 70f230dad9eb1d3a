// Package config loads, normalizes, and validates shortspulse configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the YOUTUBE_API_KEY environment
// fallback. The Config type centralizes every knob the daemon and CLI need:
// tracked channels, the discovery time window, batch sizing, and the paths
// used for logs and the control socket.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
