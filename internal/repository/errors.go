// Package repository implements MySQL persistence for the card-room domain.
// Sentinel errors defined here let services and handlers map failures to the
// right HTTP responses without inspecting driver errors.
package repository

import "errors"

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// ErrPlayerNotFound is returned when a player lookup yields no rows.
var ErrPlayerNotFound = errors.New("player not found")

// ErrTableNotFound is returned when a table lookup yields no rows.
var ErrTableNotFound = errors.New("table not found")

// ErrClubNotFound is returned when a club lookup yields no rows.
var ErrClubNotFound = errors.New("club not found")

// ErrSessionNotFound is returned when no matching table session exists,
// including the "no active session" case.
var ErrSessionNotFound = errors.New("session not found")

// ErrQueueEntryNotFound is returned when a queue entry lookup yields no rows.
var ErrQueueEntryNotFound = errors.New("queue entry not found")

// ErrTimeRecordNotFound is returned when no open time record exists for a
// player and seat. Callers treat a stop without a matching start as a no-op.
var ErrTimeRecordNotFound = errors.New("time record not found")

// ErrVersionConflict is returned when a guarded seat write matched no row
// because another writer got there first. Callers should re-read and retry.
var ErrVersionConflict = errors.New("seat version conflict")
