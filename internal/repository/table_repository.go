package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cardroom/table-time/internal/model"
)

// TableRepo provides persistence for club tables.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

const tableColumns = `id, club_id, name, dealer_id, max_seats, default_seat_status, is_active, created_at, updated_at`

func scanTable(row interface{ Scan(...any) error }) (*model.ClubTable, error) {
	var (
		t        model.ClubTable
		dealerID sql.NullInt64
	)
	if err := row.Scan(&t.ID, &t.ClubID, &t.Name, &dealerID, &t.MaxSeats,
		&t.DefaultSeatStatus, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if dealerID.Valid {
		v := uint64(dealerID.Int64)
		t.DealerID = &v
	}
	return &t, nil
}

// GetByID retrieves a table by id.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.ClubTable, error) {
	const q = `SELECT ` + tableColumns + ` FROM club_tables WHERE id = ?`
	t, err := scanTable(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return t, nil
}

// GetByIDAndOwner retrieves a table while enforcing club ownership.
func (r *TableRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.ClubTable, error) {
	const q = `SELECT t.id, t.club_id, t.name, t.dealer_id, t.max_seats, t.default_seat_status, t.is_active, t.created_at, t.updated_at
	           FROM club_tables t
	           JOIN clubs c ON c.id = t.club_id
	           WHERE t.id = ? AND c.owner_id = ?`
	t, err := scanTable(r.db.QueryRowContext(ctx, q, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListByClub retrieves all tables of a club.
func (r *TableRepo) ListByClub(ctx context.Context, clubID uint64) ([]model.ClubTable, error) {
	const q = `SELECT ` + tableColumns + ` FROM club_tables WHERE club_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.ClubTable
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts a table. On success the table's ID is populated.
func (r *TableRepo) Create(ctx context.Context, t *model.ClubTable) error {
	const q = `INSERT INTO club_tables (club_id, name, dealer_id, max_seats, default_seat_status) VALUES (?, ?, ?, ?, ?)`
	var dealerID sql.NullInt64
	if t.DealerID != nil {
		dealerID = sql.NullInt64{Int64: int64(*t.DealerID), Valid: true}
	}
	res, err := r.db.ExecContext(ctx, q, t.ClubID, t.Name, dealerID, t.MaxSeats, t.DefaultSeatStatus)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// Update writes the editable table fields.
func (r *TableRepo) Update(ctx context.Context, t *model.ClubTable) error {
	const q = `UPDATE club_tables SET name = ?, dealer_id = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	var dealerID sql.NullInt64
	if t.DealerID != nil {
		dealerID = sql.NullInt64{Int64: int64(*t.DealerID), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, q, t.Name, dealerID, t.IsActive, t.ID)
	return err
}
