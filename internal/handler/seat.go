package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cardroom/table-time/internal/model"
	"github.com/cardroom/table-time/internal/repository"
	"github.com/cardroom/table-time/internal/seating"
	"github.com/cardroom/table-time/internal/service"
	"github.com/cardroom/table-time/internal/utils"
)

// SeatHandler exposes the dealer-facing seat endpoints: the status change
// operation, table seat listings, and the live elapsed-time poll.
type SeatHandler struct {
	Svc   *service.SeatService
	Seats *repository.SeatRepo
}

func NewSeatHandler(svc *service.SeatService, seats *repository.SeatRepo) *SeatHandler {
	return &SeatHandler{Svc: svc, Seats: seats}
}

type seatChangeReq struct {
	Status        string  `json:"status"`
	PlayerID      *uint64 `json:"player_id"`
	NewPlayerName string  `json:"new_player_name"`
	ClubID        uint64  `json:"club_id"`
}

type seatDTO struct {
	ID          uint64  `json:"id"`
	TableID     uint64  `json:"table_id"`
	Position    uint32  `json:"position"`
	Status      string  `json:"status"`
	PlayerID    *uint64 `json:"player_id,omitempty"`
	SessionID   *uint64 `json:"session_id,omitempty"`
	TimeStarted *string `json:"time_started,omitempty"`
	TimeElapsed int64   `json:"time_elapsed"`
	Version     uint64  `json:"version"`
}

func toSeatDTO(s *model.TableSeat) seatDTO {
	dto := seatDTO{
		ID:          s.ID,
		TableID:     s.TableID,
		Position:    s.Position,
		Status:      s.Status,
		PlayerID:    s.PlayerID,
		SessionID:   s.SessionID,
		TimeElapsed: s.TimeElapsed,
		Version:     s.Version,
	}
	if s.TimeStarted != nil {
		ts := s.TimeStarted.UTC().Format(time.RFC3339)
		dto.TimeStarted = &ts
	}
	return dto
}

// ChangeStatus handles PATCH /v1/seats/:id. The request carries the target
// status plus, when seating a player, either an existing player id or a name
// for walk-in registration.
func (h *SeatHandler) ChangeStatus(c echo.Context) error {
	seatID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}
	var req seatChangeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}

	seat, err := h.Svc.ChangeSeatStatus(c.Request().Context(), seatID, req.Status, service.SeatChange{
		SelectedPlayerID: req.PlayerID,
		NewPlayerName:    req.NewPlayerName,
		ClubID:           req.ClubID,
	})
	if err != nil {
		return seatError(c, err)
	}
	return c.JSON(http.StatusOK, toSeatDTO(seat))
}

// ListTableSeats handles GET /v1/tables/:id/seats.
func (h *SeatHandler) ListTableSeats(c echo.Context) error {
	tableID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	seats, err := h.Seats.GetByTable(c.Request().Context(), tableID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]seatDTO, 0, len(seats))
	for i := range seats {
		out = append(out, toSeatDTO(&seats[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"seats": out})
}

// PlayerElapsed handles GET /v1/players/:id/elapsed. An optional session_id
// query parameter narrows the total to one session; without it the player's
// full history plus any live interval is returned.
func (h *SeatHandler) PlayerElapsed(c echo.Context) error {
	playerID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid player id"})
	}
	var sessionID *uint64
	if raw := c.QueryParam("session_id"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session_id"})
		}
		sessionID = &n
	}

	secs, err := h.Svc.ElapsedSeconds(c.Request().Context(), playerID, sessionID)
	if err != nil {
		return seatError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"player_id": playerID,
		"seconds":   secs,
		"formatted": utils.FormatDuration(secs),
	})
}

// seatError maps domain errors onto HTTP statuses. Policy rejections are
// client errors; a version conflict asks the dealer to retry with fresh
// state; a deadline hit reports the backend as unavailable.
func seatError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, seating.ErrInvalidTransition), errors.Is(err, seating.ErrPlayerRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrSeatNotFound),
		errors.Is(err, repository.ErrPlayerNotFound),
		errors.Is(err, repository.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrVersionConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat was modified concurrently, reload and retry"})
	case errors.Is(err, service.ErrTimeout):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "operation timed out"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
