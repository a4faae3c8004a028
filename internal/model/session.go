package model

import "time"

// TableSession groups seat activity at one table between an explicit start
// and end. At most one session per table is active at a time; starting a new
// one implicitly ends the previous active session.
type TableSession struct {
	ID        uint64     // table_sessions.id
	TableID   uint64     // table_sessions.table_id
	DealerID  *uint64    // table_sessions.dealer_id
	Name      string     // table_sessions.name
	IsActive  bool       // table_sessions.is_active
	StartTime time.Time  // table_sessions.start_time
	EndTime   *time.Time // table_sessions.end_time
	TotalTime int64      // table_sessions.total_time, seconds
}
