package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cardroom/table-time/internal/model"
	"github.com/cardroom/table-time/internal/repository"
	"github.com/cardroom/table-time/internal/seating"
)

type tableReq struct {
	Name              string  `json:"name"`
	DealerID          *uint64 `json:"dealer_id"`
	MaxSeats          uint32  `json:"max_seats"`
	DefaultSeatStatus string  `json:"default_seat_status"`
	IsActive          *bool   `json:"is_active"`
}

type tableDTO struct {
	ID                uint64  `json:"id"`
	ClubID            uint64  `json:"club_id"`
	Name              string  `json:"name"`
	DealerID          *uint64 `json:"dealer_id,omitempty"`
	MaxSeats          uint32  `json:"max_seats"`
	DefaultSeatStatus string  `json:"default_seat_status"`
	IsActive          bool    `json:"is_active"`
}

func toTableDTO(t *model.ClubTable) tableDTO {
	return tableDTO{
		ID:                t.ID,
		ClubID:            t.ClubID,
		Name:              t.Name,
		DealerID:          t.DealerID,
		MaxSeats:          t.MaxSeats,
		DefaultSeatStatus: t.DefaultSeatStatus,
		IsActive:          t.IsActive,
	}
}

// CreateTable handles POST /v1/owner/clubs/:id/tables. Seat rows for
// positions 1..max_seats are created together with the table, each in the
// table's default seat status.
func (h *OwnerHandler) CreateTable(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	clubID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club id"})
	}
	var req tableReq
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.MaxSeats == 0 {
		req.MaxSeats = 9
	}
	defStatus := string(seating.StatusOpen)
	if req.DefaultSeatStatus != "" {
		st, err := seating.ParseStatus(req.DefaultSeatStatus)
		if err != nil || st.Occupied() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "default_seat_status must be Open or Closed"})
		}
		defStatus = string(st)
	}

	ctx := c.Request().Context()
	club, err := h.Clubs.GetByIDAndOwner(ctx, clubID, uid)
	if err != nil {
		if errors.Is(err, repository.ErrClubNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "club not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if club.LicenseLimit > 0 {
		tables, err := h.Tables.ListByClub(ctx, club.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if uint32(len(tables)) >= club.LicenseLimit {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table license limit reached"})
		}
	}

	table := &model.ClubTable{
		ClubID:            club.ID,
		Name:              req.Name,
		DealerID:          req.DealerID,
		MaxSeats:          req.MaxSeats,
		DefaultSeatStatus: defStatus,
	}
	if err := h.Tables.Create(ctx, table); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create table failed"})
	}
	if err := h.Seats.CreateForTable(ctx, table.ID, table.MaxSeats, defStatus); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create seats failed"})
	}
	table.IsActive = true
	return c.JSON(http.StatusCreated, toTableDTO(table))
}

// ListTables handles GET /v1/owner/clubs/:id/tables.
func (h *OwnerHandler) ListTables(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	clubID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Clubs.GetByIDAndOwner(ctx, clubID, uid); err != nil {
		if errors.Is(err, repository.ErrClubNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "club not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	tables, err := h.Tables.ListByClub(ctx, clubID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]tableDTO, 0, len(tables))
	for i := range tables {
		out = append(out, toTableDTO(&tables[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": out})
}

// UpdateTable handles PATCH /v1/owner/tables/:id. Seat count and default
// status are fixed at creation; only name, dealer and active flag move.
func (h *OwnerHandler) UpdateTable(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	table, err := h.Tables.GetByIDAndOwner(ctx, id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if req.Name != "" {
		table.Name = req.Name
	}
	if req.DealerID != nil {
		table.DealerID = req.DealerID
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}
	if err := h.Tables.Update(ctx, table); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update table failed"})
	}
	return c.JSON(http.StatusOK, toTableDTO(table))
}
