package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cardroom/table-time/internal/model"
	"github.com/cardroom/table-time/internal/repository"
	"github.com/cardroom/table-time/internal/service"
)

// OwnerHandler bundles the repositories owners use to run their clubs.
type OwnerHandler struct {
	Clubs   *repository.ClubRepo
	Tables  *repository.TableRepo
	Players *repository.PlayerRepo
	Seats   *repository.SeatRepo
	Queue   *repository.QueueRepo
	Limits  *repository.LimitsRepo
	SeatSvc *service.SeatService
}

func NewOwnerHandler(clubs *repository.ClubRepo, tables *repository.TableRepo, players *repository.PlayerRepo, seats *repository.SeatRepo, queue *repository.QueueRepo, limits *repository.LimitsRepo, seatSvc *service.SeatService) *OwnerHandler {
	if clubs == nil || tables == nil || players == nil || seats == nil || queue == nil || limits == nil || seatSvc == nil {
		panic("nil dependency passed to NewOwnerHandler")
	}
	return &OwnerHandler{Clubs: clubs, Tables: tables, Players: players, Seats: seats, Queue: queue, Limits: limits, SeatSvc: seatSvc}
}

type clubReq struct {
	Name         string  `json:"name"`
	Address      *string `json:"address"`
	PhoneNumber  *string `json:"phone_number"`
	LicenseLimit uint32  `json:"license_limit"`
	IsActive     *bool   `json:"is_active"`
}

type clubDTO struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	OwnerID      uint64  `json:"owner_id"`
	Address      *string `json:"address,omitempty"`
	PhoneNumber  *string `json:"phone_number,omitempty"`
	LicenseLimit uint32  `json:"license_limit"`
	IsActive     bool    `json:"is_active"`
}

func toClubDTO(cl *model.Club) clubDTO {
	return clubDTO{
		ID:           cl.ID,
		Name:         cl.Name,
		OwnerID:      cl.OwnerID,
		Address:      cl.Address,
		PhoneNumber:  cl.PhoneNumber,
		LicenseLimit: cl.LicenseLimit,
		IsActive:     cl.IsActive,
	}
}

// CreateClub handles POST /v1/owner/clubs.
func (h *OwnerHandler) CreateClub(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req clubReq
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	club := &model.Club{
		Name:         req.Name,
		OwnerID:      uid,
		Address:      req.Address,
		PhoneNumber:  req.PhoneNumber,
		LicenseLimit: req.LicenseLimit,
	}
	if err := h.Clubs.Create(c.Request().Context(), club); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create club failed"})
	}
	club.IsActive = true
	return c.JSON(http.StatusCreated, toClubDTO(club))
}

// ListClubs handles GET /v1/owner/clubs.
func (h *OwnerHandler) ListClubs(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	clubs, err := h.Clubs.ListByOwner(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]clubDTO, 0, len(clubs))
	for i := range clubs {
		out = append(out, toClubDTO(&clubs[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"clubs": out})
}

// GetClub handles GET /v1/owner/clubs/:id.
func (h *OwnerHandler) GetClub(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club id"})
	}
	club, err := h.Clubs.GetByIDAndOwner(c.Request().Context(), id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrClubNotFound) || errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "club not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toClubDTO(club))
}

// UpdateClub handles PATCH /v1/owner/clubs/:id.
func (h *OwnerHandler) UpdateClub(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club id"})
	}
	var req clubReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	club, err := h.Clubs.GetByIDAndOwner(ctx, id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrClubNotFound) || errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "club not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if req.Name != "" {
		club.Name = req.Name
	}
	if req.Address != nil {
		club.Address = req.Address
	}
	if req.PhoneNumber != nil {
		club.PhoneNumber = req.PhoneNumber
	}
	if req.LicenseLimit != 0 {
		club.LicenseLimit = req.LicenseLimit
	}
	if req.IsActive != nil {
		club.IsActive = *req.IsActive
	}
	if err := h.Clubs.Update(ctx, club); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update club failed"})
	}
	return c.JSON(http.StatusOK, toClubDTO(club))
}
