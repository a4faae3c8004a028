package model

import "time"

// User roles. Admins manage clubs and accounts, owners run a club, dealers
// work tables. The values are stored in users.role and carried in the JWT
// role claim.
const (
	RoleAdmin  = "ADMIN"
	RoleOwner  = "OWNER"
	RoleDealer = "DEALER"
)

// User is an operator account: admin, club owner or dealer. Dealers belong
// to the owner that employs them via ClubOwnerID.
type User struct {
	ID           uint64     // users.id
	Username     string     // users.username
	Email        string     // users.email
	PasswordHash string     // users.password_hash (bcrypt)
	Role         string     // users.role (ADMIN|OWNER|DEALER)
	FullName     *string    // users.full_name
	ClubOwnerID  *uint64    // users.club_owner_id, set for dealers
	IsActive     bool       // users.is_active
	LastLogin    *time.Time // users.last_login
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
}
