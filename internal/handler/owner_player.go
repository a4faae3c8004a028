package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cardroom/table-time/internal/model"
	"github.com/cardroom/table-time/internal/repository"
	"github.com/cardroom/table-time/internal/utils"
)

type playerReq struct {
	Name        string  `json:"name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Notes       *string `json:"notes"`
}

type playerDTO struct {
	ID            uint64  `json:"id"`
	ClubID        uint64  `json:"club_id"`
	Name          string  `json:"name"`
	Email         *string `json:"email,omitempty"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	TotalPlayTime int64   `json:"total_play_time"`
	Formatted     string  `json:"formatted_play_time"`
	LastPlayed    *string `json:"last_played,omitempty"`
}

func toPlayerDTO(p *model.Player) playerDTO {
	dto := playerDTO{
		ID:            p.ID,
		ClubID:        p.ClubID,
		Name:          p.Name,
		Email:         p.Email,
		PhoneNumber:   p.PhoneNumber,
		Notes:         p.Notes,
		TotalPlayTime: p.TotalPlayTime,
		Formatted:     utils.FormatDuration(p.TotalPlayTime),
	}
	if p.LastPlayed != nil {
		lp := p.LastPlayed.UTC().Format(time.RFC3339)
		dto.LastPlayed = &lp
	}
	return dto
}

// CreatePlayer handles POST /v1/owner/clubs/:id/players. When the club has a
// player limit configured the registration is rejected once the cap is hit.
func (h *OwnerHandler) CreatePlayer(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	clubID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club id"})
	}
	var req playerReq
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx := c.Request().Context()
	if _, err := h.Clubs.GetByIDAndOwner(ctx, clubID, uid); err != nil {
		if errors.Is(err, repository.ErrClubNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "club not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	limits, err := h.Limits.GetByClub(ctx, clubID)
	if err != nil && !errors.Is(err, repository.ErrClubNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if limits != nil && limits.MaxPlayers > 0 && limits.CurrentPlayers >= limits.MaxPlayers {
		return c.JSON(http.StatusConflict, echo.Map{"error": "club player limit reached"})
	}

	player := &model.Player{
		ClubID:      clubID,
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Notes:       req.Notes,
	}
	if err := h.Players.Create(ctx, player); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create player failed"})
	}
	if limits != nil {
		_ = h.Limits.IncrementCurrent(ctx, clubID)
	}
	return c.JSON(http.StatusCreated, toPlayerDTO(player))
}

// ListPlayers handles GET /v1/owner/clubs/:id/players.
func (h *OwnerHandler) ListPlayers(c echo.Context) error {
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
	players, err := h.Players.ListByClub(ctx, clubID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]playerDTO, 0, len(players))
	for i := range players {
		out = append(out, toPlayerDTO(&players[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"players": out})
}

// GetPlayer handles GET /v1/owner/players/:id.
func (h *OwnerHandler) GetPlayer(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid player id"})
	}
	ctx := c.Request().Context()
	player, err := h.Players.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "player not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if _, err := h.Clubs.GetByIDAndOwner(ctx, player.ClubID, uid); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "player not found"})
	}
	return c.JSON(http.StatusOK, toPlayerDTO(player))
}

// UpdatePlayer handles PATCH /v1/owner/players/:id.
func (h *OwnerHandler) UpdatePlayer(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid player id"})
	}
	var req playerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	player, err := h.Players.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "player not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if _, err := h.Clubs.GetByIDAndOwner(ctx, player.ClubID, uid); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "player not found"})
	}

	if req.Name != "" {
		player.Name = req.Name
	}
	if req.Email != nil {
		player.Email = req.Email
	}
	if req.PhoneNumber != nil {
		player.PhoneNumber = req.PhoneNumber
	}
	if req.Notes != nil {
		player.Notes = req.Notes
	}
	if err := h.Players.Update(ctx, player); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update player failed"})
	}
	return c.JSON(http.StatusOK, toPlayerDTO(player))
}
