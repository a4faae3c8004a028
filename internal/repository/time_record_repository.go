package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cardroom/table-time/internal/model"
)

// TimeRecordRepo persists player timing intervals. An interval is "open"
// while end_time is NULL; at most one open record exists per player+seat.
type TimeRecordRepo struct {
	db *sql.DB
}

// NewTimeRecordRepo constructs a TimeRecordRepo with the given DB handle.
func NewTimeRecordRepo(db *sql.DB) *TimeRecordRepo { return &TimeRecordRepo{db: db} }

const timeRecordColumns = `id, player_id, seat_id, session_id, start_time, end_time, duration`

func scanTimeRecord(row interface{ Scan(...any) error }) (*model.PlayerTimeRecord, error) {
	var (
		rec       model.PlayerTimeRecord
		sessionID sql.NullInt64
		endTime   sql.NullTime
	)
	if err := row.Scan(&rec.ID, &rec.PlayerID, &rec.SeatID, &sessionID,
		&rec.StartTime, &endTime, &rec.Duration); err != nil {
		return nil, err
	}
	if sessionID.Valid {
		v := uint64(sessionID.Int64)
		rec.SessionID = &v
	}
	if endTime.Valid {
		t := endTime.Time
		rec.EndTime = &t
	}
	return &rec, nil
}

// Open returns the open record for a player+seat, or ErrTimeRecordNotFound.
func (r *TimeRecordRepo) Open(ctx context.Context, playerID, seatID uint64) (*model.PlayerTimeRecord, error) {
	const q = `SELECT ` + timeRecordColumns + ` FROM player_time_records
	           WHERE player_id = ? AND seat_id = ? AND end_time IS NULL
	           ORDER BY start_time DESC LIMIT 1`
	rec, err := scanTimeRecord(r.db.QueryRowContext(ctx, q, playerID, seatID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTimeRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

// OpenByPlayer returns the player's open record on any seat, if one exists.
func (r *TimeRecordRepo) OpenByPlayer(ctx context.Context, playerID uint64) (*model.PlayerTimeRecord, error) {
	const q = `SELECT ` + timeRecordColumns + ` FROM player_time_records
	           WHERE player_id = ? AND end_time IS NULL
	           ORDER BY start_time DESC LIMIT 1`
	rec, err := scanTimeRecord(r.db.QueryRowContext(ctx, q, playerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTimeRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

// ListOpenBySession returns every open record tied to a table session.
// The session service closes these when a session ends.
func (r *TimeRecordRepo) ListOpenBySession(ctx context.Context, sessionID uint64) ([]model.PlayerTimeRecord, error) {
	const q = `SELECT ` + timeRecordColumns + ` FROM player_time_records
	           WHERE session_id = ? AND end_time IS NULL`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PlayerTimeRecord
	for rows.Next() {
		rec, err := scanTimeRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateTx opens a new interval within the caller's transaction.
func (r *TimeRecordRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *model.PlayerTimeRecord) error {
	const q = `INSERT INTO player_time_records (player_id, seat_id, session_id, start_time) VALUES (?, ?, ?, ?)`
	var sessionID sql.NullInt64
	if rec.SessionID != nil {
		sessionID = sql.NullInt64{Int64: int64(*rec.SessionID), Valid: true}
	}
	res, err := tx.ExecContext(ctx, q, rec.PlayerID, rec.SeatID, sessionID, rec.StartTime.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// CloseTx closes an open interval, recording its end and whole-second
// duration, within the caller's transaction. Closing an already-closed
// record is a no-op thanks to the end_time IS NULL guard.
func (r *TimeRecordRepo) CloseTx(ctx context.Context, tx *sql.Tx, id uint64, end time.Time, durationSec int64) error {
	const q = `UPDATE player_time_records SET end_time = ?, duration = ? WHERE id = ? AND end_time IS NULL`
	_, err := tx.ExecContext(ctx, q, end.UTC(), durationSec, id)
	return err
}

// SumClosed returns the total of closed-record durations for a player,
// optionally scoped to one session.
func (r *TimeRecordRepo) SumClosed(ctx context.Context, playerID uint64, sessionID *uint64) (int64, error) {
	var (
		total int64
		err   error
	)
	if sessionID != nil {
		const q = `SELECT COALESCE(SUM(duration), 0) FROM player_time_records
		           WHERE player_id = ? AND session_id = ? AND end_time IS NOT NULL`
		err = r.db.QueryRowContext(ctx, q, playerID, *sessionID).Scan(&total)
	} else {
		const q = `SELECT COALESCE(SUM(duration), 0) FROM player_time_records
		           WHERE player_id = ? AND end_time IS NOT NULL`
		err = r.db.QueryRowContext(ctx, q, playerID).Scan(&total)
	}
	return total, err
}
