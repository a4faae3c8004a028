package model

import "time"

// TableSeat is one numbered position at a club table. Seats are created when
// the table is created, one row per position 1..max_seats, and are only ever
// mutated through the seat service; they are never deleted while the table
// exists.
//
// PlayerID is a non-owning reference: it is set exactly when the status is
// Playing, Break or Blocked, and NULL for Open and Closed seats. Version
// guards concurrent writes; every state write increments it.
type TableSeat struct {
	ID          uint64     // table_seats.id
	TableID     uint64     // table_seats.table_id
	Position    uint32     // table_seats.position, unique per table
	Status      string     // table_seats.status (Open|Playing|Break|Blocked|Closed)
	PlayerID    *uint64    // table_seats.player_id, occupant attachment
	SessionID   *uint64    // table_seats.session_id, active table session
	TimeStarted *time.Time // table_seats.time_started, set on entering Playing
	TimeElapsed int64      // table_seats.time_elapsed, seconds for the current occupancy
	Version     uint64     // table_seats.version, optimistic concurrency guard
}
