package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cardroom/table-time/internal/model"
)

// ClubRepo provides persistence for clubs.
type ClubRepo struct {
	db *sql.DB
}

// NewClubRepo constructs a ClubRepo with the given DB handle.
func NewClubRepo(db *sql.DB) *ClubRepo { return &ClubRepo{db: db} }

const clubColumns = `id, name, owner_id, address, phone_number, license_limit, is_active, created_at, updated_at`

func scanClub(row interface{ Scan(...any) error }) (*model.Club, error) {
	var (
		c       model.Club
		address sql.NullString
		phone   sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &c.OwnerID, &address, &phone,
		&c.LicenseLimit, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if address.Valid {
		c.Address = &address.String
	}
	if phone.Valid {
		c.PhoneNumber = &phone.String
	}
	return &c, nil
}

// GetByID retrieves a club by id.
func (r *ClubRepo) GetByID(ctx context.Context, id uint64) (*model.Club, error) {
	const q = `SELECT ` + clubColumns + ` FROM clubs WHERE id = ?`
	c, err := scanClub(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetByIDAndOwner retrieves a club by id while enforcing ownership.
func (r *ClubRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Club, error) {
	const q = `SELECT ` + clubColumns + ` FROM clubs WHERE id = ? AND owner_id = ?`
	c, err := scanClub(r.db.QueryRowContext(ctx, q, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListByOwner retrieves the clubs owned by a user.
func (r *ClubRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Club, error) {
	const q = `SELECT ` + clubColumns + ` FROM clubs WHERE owner_id = ? ORDER BY name`
	return r.list(ctx, q, ownerID)
}

// ListAll retrieves every club. Admin use only.
func (r *ClubRepo) ListAll(ctx context.Context) ([]model.Club, error) {
	const q = `SELECT ` + clubColumns + ` FROM clubs ORDER BY name`
	return r.list(ctx, q)
}

func (r *ClubRepo) list(ctx context.Context, q string, args ...any) ([]model.Club, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Club
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts a club. On success the club's ID is populated.
func (r *ClubRepo) Create(ctx context.Context, c *model.Club) error {
	const q = `INSERT INTO clubs (name, owner_id, address, phone_number, license_limit) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.OwnerID, c.Address, c.PhoneNumber, c.LicenseLimit)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// Update writes the editable club fields.
func (r *ClubRepo) Update(ctx context.Context, c *model.Club) error {
	const q = `UPDATE clubs SET name = ?, address = ?, phone_number = ?, license_limit = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, c.Name, c.Address, c.PhoneNumber, c.LicenseLimit, c.IsActive, c.ID)
	return err
}
