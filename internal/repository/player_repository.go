package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/cardroom/table-time/internal/model"
)

// PlayerRepo provides persistence for club players.
type PlayerRepo struct {
	db *sql.DB
}

// NewPlayerRepo constructs a PlayerRepo with the given DB handle.
func NewPlayerRepo(db *sql.DB) *PlayerRepo { return &PlayerRepo{db: db} }

const playerColumns = `id, club_id, name, email, phone_number, notes, total_play_time, last_played, created_at, updated_at`

func scanPlayer(row interface{ Scan(...any) error }) (*model.Player, error) {
	var (
		p          model.Player
		email      sql.NullString
		phone      sql.NullString
		notes      sql.NullString
		lastPlayed sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.ClubID, &p.Name, &email, &phone, &notes,
		&p.TotalPlayTime, &lastPlayed, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if email.Valid {
		p.Email = &email.String
	}
	if phone.Valid {
		p.PhoneNumber = &phone.String
	}
	if notes.Valid {
		p.Notes = &notes.String
	}
	if lastPlayed.Valid {
		t := lastPlayed.Time
		p.LastPlayed = &t
	}
	return &p, nil
}

// GetByID retrieves a player by id.
func (r *PlayerRepo) GetByID(ctx context.Context, id uint64) (*model.Player, error) {
	const q = `SELECT ` + playerColumns + ` FROM players WHERE id = ?`
	p, err := scanPlayer(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListByClub retrieves all players of a club ordered by name.
func (r *PlayerRepo) ListByClub(ctx context.Context, clubID uint64) ([]model.Player, error) {
	const q = `SELECT ` + playerColumns + ` FROM players WHERE club_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts a player. On success the player's ID is populated.
func (r *PlayerRepo) Create(ctx context.Context, p *model.Player) error {
	return r.create(ctx, r.db, p)
}

// CreateTx inserts a player within an existing transaction. Used by the
// seat service for the register-and-seat-a-walk-in path, so the player row
// commits together with the seat write.
func (r *PlayerRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Player) error {
	return r.create(ctx, tx, p)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *PlayerRepo) create(ctx context.Context, ex execer, p *model.Player) error {
	p.Name = strings.TrimSpace(p.Name)
	const q = `INSERT INTO players (club_id, name, email, phone_number, notes) VALUES (?, ?, ?, ?, ?)`
	res, err := ex.ExecContext(ctx, q, p.ClubID, p.Name, p.Email, p.PhoneNumber, p.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// Update writes the editable player fields.
func (r *PlayerRepo) Update(ctx context.Context, p *model.Player) error {
	const q = `UPDATE players SET name = ?, email = ?, phone_number = ?, notes = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, p.Name, p.Email, p.PhoneNumber, p.Notes, p.ID)
	return err
}

// AddPlayTimeTx adds a closed timing interval into the player's persisted
// total and stamps last_played, within the caller's transaction.
func (r *PlayerRepo) AddPlayTimeTx(ctx context.Context, tx *sql.Tx, playerID uint64, seconds int64, playedAt time.Time) error {
	// No RowsAffected check here: MySQL reports zero affected rows for a
	// value-preserving update (duration 0), which is not a missing player.
	const q = `UPDATE players SET total_play_time = total_play_time + ?, last_played = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, seconds, playedAt.UTC(), playerID)
	return err
}
