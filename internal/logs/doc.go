// Package logs reads the daemon log file for the CLI's tail command. It
// tracks byte offsets so repeated calls stream new lines without re-reading,
// and supports a bounded wait for follow mode.
package logs
