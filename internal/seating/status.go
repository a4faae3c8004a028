// Package seating holds the rules for poker-table seat state: which status
// transitions a dealer may perform, how a player attaches to or detaches from
// a seat, and which time-tracking actions each transition triggers. The
// package is pure; persistence and clocks live in the service layer.
package seating

import "errors"

// Status is the closed set of seat states. Values match the strings stored
// in the table_seats.status column and accepted over the API.
type Status string

const (
	StatusOpen    Status = "Open"    // vacant and available
	StatusPlaying Status = "Playing" // occupied, time accruing
	StatusBreak   Status = "Break"   // occupied, occupant stepped away
	StatusBlocked Status = "Blocked" // occupied but not playing (reserved, dead seat)
	StatusClosed  Status = "Closed"  // not in use
)

// ErrInvalidTransition is returned when the requested target status is not
// reachable from the seat's current status, and for unknown status strings.
var ErrInvalidTransition = errors.New("invalid seat status transition")

// ErrPlayerRequired is returned when a transition needs an occupant but none
// is attached to the seat and none was supplied.
var ErrPlayerRequired = errors.New("player required for this seat status")

// ParseStatus validates a raw status string from the API boundary. Unknown
// strings are rejected rather than stored.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusOpen, StatusPlaying, StatusBreak, StatusBlocked, StatusClosed:
		return Status(raw), nil
	}
	return "", ErrInvalidTransition
}

// Occupied reports whether a seat in this status must have a player attached.
func (s Status) Occupied() bool {
	return s == StatusPlaying || s == StatusBreak || s == StatusBlocked
}
