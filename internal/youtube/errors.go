package youtube

import "fmt"

// UnavailableError reports a failed Data API call: rate limit, network
// trouble, or a malformed response. Status is the HTTP status code when one
// was received, zero otherwise.
type UnavailableError struct {
	Op     string
	Status int
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("youtube %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("youtube %s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func unavailable(op string, status int, err error) *UnavailableError {
	return &UnavailableError{Op: op, Status: status, Err: err}
}
