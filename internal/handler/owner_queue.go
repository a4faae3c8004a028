package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cardroom/table-time/internal/model"
	"github.com/cardroom/table-time/internal/repository"
	"github.com/cardroom/table-time/internal/seating"
	"github.com/cardroom/table-time/internal/service"
)

type queueJoinReq struct {
	PlayerID uint64  `json:"player_id"`
	TableID  *uint64 `json:"table_id"`
	Priority int32   `json:"priority"`
	Notes    *string `json:"notes"`
}

type queueAssignReq struct {
	SeatID uint64 `json:"seat_id"`
}

type queueDTO struct {
	ID         uint64  `json:"id"`
	ClubID     uint64  `json:"club_id"`
	PlayerID   uint64  `json:"player_id"`
	TableID    *uint64 `json:"table_id,omitempty"`
	Priority   int32   `json:"priority"`
	Status     string  `json:"status"`
	Notes      *string `json:"notes,omitempty"`
	JoinedAt   string  `json:"joined_at"`
	AssignedAt *string `json:"assigned_at,omitempty"`
}

func toQueueDTO(e *model.QueueEntry) queueDTO {
	dto := queueDTO{
		ID:       e.ID,
		ClubID:   e.ClubID,
		PlayerID: e.PlayerID,
		TableID:  e.TableID,
		Priority: e.Priority,
		Status:   e.Status,
		Notes:    e.Notes,
		JoinedAt: e.JoinedAt.UTC().Format(time.RFC3339),
	}
	if e.AssignedAt != nil {
		at := e.AssignedAt.UTC().Format(time.RFC3339)
		dto.AssignedAt = &at
	}
	return dto
}

// JoinQueue handles POST /v1/owner/clubs/:id/queue.
func (h *OwnerHandler) JoinQueue(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	clubID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club id"})
	}
	var req queueJoinReq
	if err := c.Bind(&req); err != nil || req.PlayerID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "player_id required"})
	}

	ctx := c.Request().Context()
	if _, err := h.Clubs.GetByIDAndOwner(ctx, clubID, uid); err != nil {
		if errors.Is(err, repository.ErrClubNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "club not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	player, err := h.Players.GetByID(ctx, req.PlayerID)
	if err != nil || player.ClubID != clubID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "player not found"})
	}

	entry := &model.QueueEntry{
		ClubID:   clubID,
		PlayerID: req.PlayerID,
		TableID:  req.TableID,
		Priority: req.Priority,
		Notes:    req.Notes,
	}
	if err := h.Queue.Create(ctx, entry); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "join queue failed"})
	}
	return c.JSON(http.StatusCreated, toQueueDTO(entry))
}

// ListQueue handles GET /v1/owner/clubs/:id/queue. Only waiting entries are
// returned, highest priority first.
func (h *OwnerHandler) ListQueue(c echo.Context) error {
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
	entries, err := h.Queue.ListWaitingByClub(ctx, clubID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]queueDTO, 0, len(entries))
	for i := range entries {
		out = append(out, toQueueDTO(&entries[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"queue": out})
}

// AssignFromQueue handles POST /v1/owner/queue/:id/assign. The waiting
// player is seated through the same status change path dealers use, so the
// transition policy and the time ledger both apply.
func (h *OwnerHandler) AssignFromQueue(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	entryID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid queue entry id"})
	}
	var req queueAssignReq
	if err := c.Bind(&req); err != nil || req.SeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id required"})
	}

	ctx := c.Request().Context()
	entry, err := h.Queue.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrQueueEntryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "queue entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if entry.Status != model.QueueWaiting {
		return c.JSON(http.StatusConflict, echo.Map{"error": "queue entry is not waiting"})
	}
	if _, err := h.Clubs.GetByIDAndOwner(ctx, entry.ClubID, uid); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "queue entry not found"})
	}

	pid := entry.PlayerID
	seat, err := h.SeatSvc.ChangeSeatStatus(ctx, req.SeatID, string(seating.StatusPlaying), service.SeatChange{
		SelectedPlayerID: &pid,
		ClubID:           entry.ClubID,
	})
	if err != nil {
		return seatError(c, err)
	}
	if err := h.Queue.MarkAssigned(ctx, entry.ID, time.Now().UTC()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "mark assigned failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"entry_id": entry.ID, "seat": toSeatDTO(seat)})
}

// RemoveFromQueue handles DELETE /v1/owner/queue/:id.
func (h *OwnerHandler) RemoveFromQueue(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	entryID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid queue entry id"})
	}
	ctx := c.Request().Context()
	entry, err := h.Queue.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrQueueEntryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "queue entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if _, err := h.Clubs.GetByIDAndOwner(ctx, entry.ClubID, uid); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "queue entry not found"})
	}
	if err := h.Queue.MarkRemoved(ctx, entryID); err != nil {
		if errors.Is(err, repository.ErrQueueEntryNotFound) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "queue entry is not waiting"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
