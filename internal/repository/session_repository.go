package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cardroom/table-time/internal/model"
)

// SessionRepo persists table sessions. At most one session per table is
// active; the service layer enforces that by closing the prior active
// session in the same transaction that opens a new one.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo constructs a SessionRepo with the given DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

const sessionColumns = `id, table_id, dealer_id, name, is_active, start_time, end_time, total_time`

func scanSession(row interface{ Scan(...any) error }) (*model.TableSession, error) {
	var (
		s        model.TableSession
		dealerID sql.NullInt64
		endTime  sql.NullTime
	)
	if err := row.Scan(&s.ID, &s.TableID, &dealerID, &s.Name, &s.IsActive,
		&s.StartTime, &endTime, &s.TotalTime); err != nil {
		return nil, err
	}
	if dealerID.Valid {
		v := uint64(dealerID.Int64)
		s.DealerID = &v
	}
	if endTime.Valid {
		t := endTime.Time
		s.EndTime = &t
	}
	return &s, nil
}

// GetByID retrieves a session by id.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.TableSession, error) {
	const q = `SELECT ` + sessionColumns + ` FROM table_sessions WHERE id = ?`
	s, err := scanSession(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

// ActiveByTable returns the table's active session or ErrSessionNotFound.
func (r *SessionRepo) ActiveByTable(ctx context.Context, tableID uint64) (*model.TableSession, error) {
	const q = `SELECT ` + sessionColumns + ` FROM table_sessions
	           WHERE table_id = ? AND is_active = 1
	           ORDER BY start_time DESC LIMIT 1`
	s, err := scanSession(r.db.QueryRowContext(ctx, q, tableID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListByTable returns every session of a table, newest first.
func (r *SessionRepo) ListByTable(ctx context.Context, tableID uint64) ([]model.TableSession, error) {
	const q = `SELECT ` + sessionColumns + ` FROM table_sessions WHERE table_id = ? ORDER BY start_time DESC`
	rows, err := r.db.QueryContext(ctx, q, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.TableSession
	for rows.Next() {
		s, err := scanSession(rows)
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

// CreateTx opens a new session within the caller's transaction.
func (r *SessionRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.TableSession) error {
	const q = `INSERT INTO table_sessions (table_id, dealer_id, name, is_active, start_time) VALUES (?, ?, ?, 1, ?)`
	var dealerID sql.NullInt64
	if s.DealerID != nil {
		dealerID = sql.NullInt64{Int64: int64(*s.DealerID), Valid: true}
	}
	res, err := tx.ExecContext(ctx, q, s.TableID, dealerID, s.Name, s.StartTime.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.IsActive = true
	return nil
}

// CloseTx ends a session, recording its end time and total whole seconds,
// within the caller's transaction.
func (r *SessionRepo) CloseTx(ctx context.Context, tx *sql.Tx, id uint64, end time.Time, totalSec int64) error {
	const q = `UPDATE table_sessions SET is_active = 0, end_time = ?, total_time = ? WHERE id = ? AND is_active = 1`
	_, err := tx.ExecContext(ctx, q, end.UTC(), totalSec, id)
	return err
}
