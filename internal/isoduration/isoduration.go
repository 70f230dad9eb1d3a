// Package isoduration converts ISO 8601 duration tokens, as returned by the
// YouTube contentDetails API (e.g. "PT45S", "PT2M30S", "P1DT3H"), into whole
// seconds.
//
// Parsing fails soft: any malformed token yields zero. An unknown duration is
// treated as "exclude from short-form eligibility by defaulting to zero", and
// zero always passes an at-most-N-seconds test, so callers keep tracking the
// item rather than dropping data over one bad metadata field.
package isoduration

import "strings"

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
	secondsPerWeek   = 7 * secondsPerDay

	// maxComponentDigits bounds each component value below 1e9, which keeps
	// value*unit and the running total far from int64 overflow even for the
	// week designator.
	maxComponentDigits = 9
)

// Seconds parses an ISO 8601 duration token into total whole seconds.
// Malformed tokens return 0.
func Seconds(token string) int64 {
	rest := strings.TrimSpace(token)
	if rest == "" {
		return 0
	}
	negative := false
	switch rest[0] {
	case '-':
		negative = true
		rest = rest[1:]
	case '+':
		rest = rest[1:]
	}
	if len(rest) < 2 || rest[0] != 'P' {
		return 0
	}
	rest = rest[1:]

	var total int64
	inTime := false
	sawComponent := false

	for len(rest) > 0 {
		if rest[0] == 'T' {
			if inTime {
				return 0
			}
			inTime = true
			rest = rest[1:]
			continue
		}

		i := 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i == 0 || i == len(rest) {
			return 0
		}
		// Component values longer than 9 digits would overflow the seconds
		// total once multiplied out; treat the token as malformed.
		if i > maxComponentDigits {
			return 0
		}
		var value int64
		for _, digit := range rest[:i] {
			value = value*10 + int64(digit-'0')
		}

		var unit int64
		switch designator := rest[i]; {
		case !inTime && designator == 'W':
			unit = secondsPerWeek
		case !inTime && designator == 'D':
			unit = secondsPerDay
		case inTime && designator == 'H':
			unit = secondsPerHour
		case inTime && designator == 'M':
			unit = secondsPerMinute
		case inTime && designator == 'S':
			unit = 1
		default:
			return 0
		}

		total += value * unit
		if total < 0 {
			return 0
		}
		sawComponent = true
		rest = rest[i+1:]
	}

	if !sawComponent {
		return 0
	}
	if negative {
		// Uploads cannot have negative runtimes; treat as malformed.
		return 0
	}
	return total
}
