package model

import "time"

// Club is a card room operated by an owner account. LicenseLimit caps how
// many tables the club may run.
type Club struct {
	ID           uint64    // clubs.id
	Name         string    // clubs.name
	OwnerID      uint64    // clubs.owner_id -> users.id
	Address      *string   // clubs.address
	PhoneNumber  *string   // clubs.phone_number
	LicenseLimit uint32    // clubs.license_limit
	IsActive     bool      // clubs.is_active
	CreatedAt    time.Time // clubs.created_at
	UpdatedAt    time.Time // clubs.updated_at
}
