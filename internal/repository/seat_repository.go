package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cardroom/table-time/internal/model"
)

// SeatRepo provides persistence for table seats. It carries no seating
// rules; the transition policy decides what may be written and this layer
// only reads and writes rows.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// DB exposes the underlying handle so callers can begin transactions that
// span seats, players and time records.
func (r *SeatRepo) DB() *sql.DB { return r.db }

const seatColumns = `id, table_id, position, status, player_id, session_id, time_started, time_elapsed, version`

func scanSeat(row interface{ Scan(...any) error }) (*model.TableSeat, error) {
	var (
		s           model.TableSeat
		playerID    sql.NullInt64
		sessionID   sql.NullInt64
		timeStarted sql.NullTime
	)
	if err := row.Scan(&s.ID, &s.TableID, &s.Position, &s.Status,
		&playerID, &sessionID, &timeStarted, &s.TimeElapsed, &s.Version); err != nil {
		return nil, err
	}
	if playerID.Valid {
		v := uint64(playerID.Int64)
		s.PlayerID = &v
	}
	if sessionID.Valid {
		v := uint64(sessionID.Int64)
		s.SessionID = &v
	}
	if timeStarted.Valid {
		t := timeStarted.Time
		s.TimeStarted = &t
	}
	return &s, nil
}

// GetByID retrieves a seat by its id.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.TableSeat, error) {
	const q = `SELECT ` + seatColumns + ` FROM table_seats WHERE id = ?`
	s, err := scanSeat(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return s, nil
}

// GetByTable retrieves all seats of a table ordered by position.
func (r *SeatRepo) GetByTable(ctx context.Context, tableID uint64) ([]model.TableSeat, error) {
	const q = `SELECT ` + seatColumns + ` FROM table_seats WHERE table_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, q, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.TableSeat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListBySession retrieves the seats currently bound to a table session.
func (r *SeatRepo) ListBySession(ctx context.Context, sessionID uint64) ([]model.TableSeat, error) {
	const q = `SELECT ` + seatColumns + ` FROM table_seats WHERE session_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.TableSeat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateForTable inserts one seat row per position 1..maxSeats with the
// given initial status. It is idempotent: positions that already exist are
// left untouched, so re-running it after a partial table setup is safe.
func (r *SeatRepo) CreateForTable(ctx context.Context, tableID uint64, maxSeats uint32, initialStatus string) error {
	if maxSeats == 0 {
		return nil
	}
	query := `INSERT IGNORE INTO table_seats (table_id, position, status) VALUES `
	args := make([]interface{}, 0, int(maxSeats)*3)
	for pos := uint32(1); pos <= maxSeats; pos++ {
		if pos > 1 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, tableID, pos, initialStatus)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// UpdateStateTx writes the seat's mutable state within a transaction. The
// write is guarded by the version the caller read; if another writer bumped
// it first, no row matches and ErrVersionConflict is returned so two dealers
// cannot both win from the same prior state.
func (r *SeatRepo) UpdateStateTx(ctx context.Context, tx *sql.Tx, s *model.TableSeat) error {
	const q = `UPDATE table_seats
	           SET status = ?, player_id = ?, session_id = ?, time_started = ?, time_elapsed = ?, version = version + 1
	           WHERE id = ? AND version = ?`
	var (
		playerID    sql.NullInt64
		sessionID   sql.NullInt64
		timeStarted sql.NullTime
	)
	if s.PlayerID != nil {
		playerID = sql.NullInt64{Int64: int64(*s.PlayerID), Valid: true}
	}
	if s.SessionID != nil {
		sessionID = sql.NullInt64{Int64: int64(*s.SessionID), Valid: true}
	}
	if s.TimeStarted != nil {
		timeStarted = sql.NullTime{Time: s.TimeStarted.UTC(), Valid: true}
	}
	res, err := tx.ExecContext(ctx, q, s.Status, playerID, sessionID, timeStarted, s.TimeElapsed, s.ID, s.Version)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVersionConflict
	}
	s.Version++
	return nil
}

// TouchSessionTx points a seat at a session without changing its status.
// Used when a session starts while seats already carry occupants.
func (r *SeatRepo) TouchSessionTx(ctx context.Context, tx *sql.Tx, seatID uint64, sessionID *uint64) error {
	var sid sql.NullInt64
	if sessionID != nil {
		sid = sql.NullInt64{Int64: int64(*sessionID), Valid: true}
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE table_seats SET session_id = ?, version = version + 1 WHERE id = ?`,
		sid, seatID)
	return err
}
