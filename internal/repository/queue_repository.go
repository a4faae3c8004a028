package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cardroom/table-time/internal/model"
)

// QueueRepo persists the per-club waiting list.
type QueueRepo struct {
	db *sql.DB
}

// NewQueueRepo constructs a QueueRepo with the given DB handle.
func NewQueueRepo(db *sql.DB) *QueueRepo { return &QueueRepo{db: db} }

const queueColumns = `id, club_id, player_id, table_id, priority, status, notes, joined_at, assigned_at`

func scanQueueEntry(row interface{ Scan(...any) error }) (*model.QueueEntry, error) {
	var (
		e          model.QueueEntry
		tableID    sql.NullInt64
		notes      sql.NullString
		assignedAt sql.NullTime
	)
	if err := row.Scan(&e.ID, &e.ClubID, &e.PlayerID, &tableID, &e.Priority,
		&e.Status, &notes, &e.JoinedAt, &assignedAt); err != nil {
		return nil, err
	}
	if tableID.Valid {
		v := uint64(tableID.Int64)
		e.TableID = &v
	}
	if notes.Valid {
		e.Notes = &notes.String
	}
	if assignedAt.Valid {
		t := assignedAt.Time
		e.AssignedAt = &t
	}
	return &e, nil
}

// GetByID retrieves a queue entry by id.
func (r *QueueRepo) GetByID(ctx context.Context, id uint64) (*model.QueueEntry, error) {
	const q = `SELECT ` + queueColumns + ` FROM player_queue WHERE id = ?`
	e, err := scanQueueEntry(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQueueEntryNotFound
		}
		return nil, err
	}
	return e, nil
}

// ListWaitingByClub returns a club's waiting entries, highest priority
// first, then longest-waiting first.
func (r *QueueRepo) ListWaitingByClub(ctx context.Context, clubID uint64) ([]model.QueueEntry, error) {
	const q = `SELECT ` + queueColumns + ` FROM player_queue
	           WHERE club_id = ? AND status = 'waiting'
	           ORDER BY priority DESC, joined_at`
	rows, err := r.db.QueryContext(ctx, q, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.QueueEntry
	for rows.Next() {
		e, err := scanQueueEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts a waiting entry. On success the entry's ID is populated.
func (r *QueueRepo) Create(ctx context.Context, e *model.QueueEntry) error {
	const q = `INSERT INTO player_queue (club_id, player_id, table_id, priority, status, notes) VALUES (?, ?, ?, ?, 'waiting', ?)`
	var tableID sql.NullInt64
	if e.TableID != nil {
		tableID = sql.NullInt64{Int64: int64(*e.TableID), Valid: true}
	}
	res, err := r.db.ExecContext(ctx, q, e.ClubID, e.PlayerID, tableID, e.Priority, e.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	e.Status = model.QueueWaiting
	return nil
}

// MarkAssigned moves a waiting entry to assigned and stamps the time.
func (r *QueueRepo) MarkAssigned(ctx context.Context, id uint64, at time.Time) error {
	const q = `UPDATE player_queue SET status = 'assigned', assigned_at = ? WHERE id = ? AND status = 'waiting'`
	res, err := r.db.ExecContext(ctx, q, at.UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrQueueEntryNotFound
	}
	return nil
}

// MarkRemoved drops a waiting entry from the queue.
func (r *QueueRepo) MarkRemoved(ctx context.Context, id uint64) error {
	const q = `UPDATE player_queue SET status = 'removed' WHERE id = ? AND status = 'waiting'`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrQueueEntryNotFound
	}
	return nil
}
