package model

import "time"

// Player is a club guest. A player is never owned by a seat; seats hold a
// non-owning reference while the player occupies them.
//
// TotalPlayTime is a persisted aggregate in seconds. The time ledger adds
// every closed timing interval into it, so it survives across sessions and
// tables independently of any one seat's counter.
type Player struct {
	ID            uint64     // players.id
	ClubID        uint64     // players.club_id
	Name          string     // players.name
	Email         *string    // players.email
	PhoneNumber   *string    // players.phone_number
	Notes         *string    // players.notes
	TotalPlayTime int64      // players.total_play_time, seconds
	LastPlayed    *time.Time // players.last_played
	CreatedAt     time.Time  // players.created_at
	UpdatedAt     time.Time  // players.updated_at
}
