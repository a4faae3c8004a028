package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cardroom/table-time/internal/model"
)

// LimitsRepo persists per-club player allocation limits set by admins.
type LimitsRepo struct {
	db *sql.DB
}

// NewLimitsRepo constructs a LimitsRepo with the given DB handle.
func NewLimitsRepo(db *sql.DB) *LimitsRepo { return &LimitsRepo{db: db} }

// GetByClub returns a club's limits row, or ErrClubNotFound when none has
// been configured yet.
func (r *LimitsRepo) GetByClub(ctx context.Context, clubID uint64) (*model.ClubPlayerLimits, error) {
	const q = `SELECT id, club_id, max_players, current_players, updated_by, updated_at
	           FROM club_player_limits WHERE club_id = ?`
	var (
		l         model.ClubPlayerLimits
		updatedBy sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, q, clubID).Scan(
		&l.ID, &l.ClubID, &l.MaxPlayers, &l.CurrentPlayers, &updatedBy, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	if updatedBy.Valid {
		v := uint64(updatedBy.Int64)
		l.UpdatedBy = &v
	}
	return &l, nil
}

// Upsert creates or replaces a club's max-player limit.
func (r *LimitsRepo) Upsert(ctx context.Context, clubID uint64, maxPlayers uint32, updatedBy uint64) error {
	const q = `INSERT INTO club_player_limits (club_id, max_players, updated_by)
	           VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE max_players = VALUES(max_players), updated_by = VALUES(updated_by)`
	_, err := r.db.ExecContext(ctx, q, clubID, maxPlayers, updatedBy)
	return err
}

// IncrementCurrent bumps the live player count after a successful player
// registration.
func (r *LimitsRepo) IncrementCurrent(ctx context.Context, clubID uint64) error {
	const q = `UPDATE club_player_limits SET current_players = current_players + 1 WHERE club_id = ?`
	_, err := r.db.ExecContext(ctx, q, clubID)
	return err
}
