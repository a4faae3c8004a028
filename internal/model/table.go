package model

import "time"

// ClubTable is a physical poker table in a club. MaxSeats fixes how many
// seat rows exist for it; DefaultSeatStatus is the status new seats are
// created with (Open or Closed).
type ClubTable struct {
	ID                uint64    // club_tables.id
	ClubID            uint64    // club_tables.club_id
	Name              string    // club_tables.name
	DealerID          *uint64   // club_tables.dealer_id
	MaxSeats          uint32    // club_tables.max_seats
	DefaultSeatStatus string    // club_tables.default_seat_status
	IsActive          bool      // club_tables.is_active
	CreatedAt         time.Time // club_tables.created_at
	UpdatedAt         time.Time // club_tables.updated_at
}
