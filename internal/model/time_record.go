package model

import "time"

// PlayerTimeRecord is one continuous Playing interval of a player in a seat.
// A record is opened when the player's seat enters Playing and closed when it
// leaves, so a player who pauses and resumes accumulates several records
// rather than one spanning the pause.
//
// EndTime is NULL while the interval is open. Duration is whole seconds,
// truncated, computed on close.
type PlayerTimeRecord struct {
	ID        uint64     // player_time_records.id
	PlayerID  uint64     // player_time_records.player_id
	SeatID    uint64     // player_time_records.seat_id
	SessionID *uint64    // player_time_records.session_id
	StartTime time.Time  // player_time_records.start_time
	EndTime   *time.Time // player_time_records.end_time
	Duration  int64      // player_time_records.duration, seconds
}
