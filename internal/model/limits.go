package model

import "time"

// ClubPlayerLimits caps how many players a club may register. Admins set
// MaxPlayers; CurrentPlayers tracks the live count as players are created.
type ClubPlayerLimits struct {
	ID             uint64    // club_player_limits.id
	ClubID         uint64    // club_player_limits.club_id (unique)
	MaxPlayers     uint32    // club_player_limits.max_players
	CurrentPlayers uint32    // club_player_limits.current_players
	UpdatedBy      *uint64   // club_player_limits.updated_by -> users.id
	UpdatedAt      time.Time // club_player_limits.updated_at
}
