// Package timewindow computes the "today" publish window in a fixed UTC
// offset. Discovery evaluates the window fresh on every pass so the calendar
// day tracks wall-clock time rather than process start.
package timewindow

import "time"

// WindowLength is the span of a single tracked calendar day.
const WindowLength = 24 * time.Hour

// StartOfToday returns the UTC instant of local midnight for the calendar
// date that now falls on in the fixed offset zone, offsetMinutes east of UTC.
func StartOfToday(offsetMinutes int, now time.Time) time.Time {
	zone := time.FixedZone("tracker", offsetMinutes*60)
	local := now.In(zone)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone)
	return midnight.UTC()
}

// Within reports whether publishedAt falls inside the half-open interval
// [windowStart, windowStart+24h).
func Within(publishedAt, windowStart time.Time) bool {
	return !publishedAt.Before(windowStart) && publishedAt.Before(windowStart.Add(WindowLength))
}
