// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatStatusChangedEvent is published whenever a seat transitions between
// statuses. It carries enough context for downstream consumers to log,
// notify the floor, or feed analytics without querying the primary database.
type SeatStatusChangedEvent struct {
	SeatID     uint64  `json:"seat_id"`
	TableID    uint64  `json:"table_id"`
	Position   uint32  `json:"position"`
	FromStatus string  `json:"from_status"`
	ToStatus   string  `json:"to_status"`
	PlayerID   *uint64 `json:"player_id,omitempty"`
	ChangedAt  string  `json:"changed_at"`
}

// SessionEndedEvent is published when a table session is closed. TotalTime
// is the accumulated play time of all players over the session, in seconds.
type SessionEndedEvent struct {
	SessionID uint64 `json:"session_id"`
	TableID   uint64 `json:"table_id"`
	TotalTime int64  `json:"total_time"`
	EndedAt   string `json:"ended_at"`
}
