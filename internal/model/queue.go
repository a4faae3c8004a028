package model

import "time"

// Queue entry states.
const (
	QueueWaiting  = "waiting"
	QueueAssigned = "assigned"
	QueueRemoved  = "removed"
)

// QueueEntry is a player waiting for a seat in a club. Entries are ordered
// by priority (higher first) then join time, and may optionally be pinned to
// a specific table.
type QueueEntry struct {
	ID         uint64     // player_queue.id
	ClubID     uint64     // player_queue.club_id
	PlayerID   uint64     // player_queue.player_id
	TableID    *uint64    // player_queue.table_id, optional target table
	Priority   int32      // player_queue.priority
	Status     string     // player_queue.status (waiting|assigned|removed)
	Notes      *string    // player_queue.notes
	JoinedAt   time.Time  // player_queue.joined_at
	AssignedAt *time.Time // player_queue.assigned_at
}
