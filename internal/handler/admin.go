package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cardroom/table-time/internal/model"
	"github.com/cardroom/table-time/internal/repository"
)

// AdminHandler bundles the repositories behind the admin surface: account
// management, the club directory and per-club player limits.
type AdminHandler struct {
	Users  *repository.UserRepo
	Clubs  *repository.ClubRepo
	Limits *repository.LimitsRepo
}

func NewAdminHandler(users *repository.UserRepo, clubs *repository.ClubRepo, limits *repository.LimitsRepo) *AdminHandler {
	return &AdminHandler{Users: users, Clubs: clubs, Limits: limits}
}

type adminUserDTO struct {
	ID          uint64  `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	FullName    *string `json:"full_name,omitempty"`
	ClubOwnerID *uint64 `json:"club_owner_id,omitempty"`
	IsActive    bool    `json:"is_active"`
	LastLogin   *string `json:"last_login,omitempty"`
}

func toAdminUserDTO(u *model.User) adminUserDTO {
	dto := adminUserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		FullName:    u.FullName,
		ClubOwnerID: u.ClubOwnerID,
		IsActive:    u.IsActive,
	}
	if u.LastLogin != nil {
		ll := u.LastLogin.UTC().Format(time.RFC3339)
		dto.LastLogin = &ll
	}
	return dto
}

// ListUsers handles GET /v1/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]adminUserDTO, 0, len(users))
	for i := range users {
		out = append(out, toAdminUserDTO(&users[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

type setActiveReq struct {
	IsActive bool `json:"is_active"`
}

// SetUserActive handles PATCH /v1/admin/users/:id/active.
func (h *AdminHandler) SetUserActive(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req setActiveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	if _, err := h.Users.GetByID(ctx, id); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err := h.Users.SetActive(ctx, id, req.IsActive); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_active": req.IsActive})
}

// ListClubs handles GET /v1/admin/clubs.
func (h *AdminHandler) ListClubs(c echo.Context) error {
	clubs, err := h.Clubs.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]clubDTO, 0, len(clubs))
	for i := range clubs {
		out = append(out, toClubDTO(&clubs[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"clubs": out})
}

type limitsDTO struct {
	ClubID         uint64  `json:"club_id"`
	MaxPlayers     uint32  `json:"max_players"`
	CurrentPlayers uint32  `json:"current_players"`
	UpdatedBy      *uint64 `json:"updated_by,omitempty"`
}

// GetLimits handles GET /v1/admin/clubs/:id/limits.
func (h *AdminHandler) GetLimits(c echo.Context) error {
	clubID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club id"})
	}
	l, err := h.Limits.GetByClub(c.Request().Context(), clubID)
	if err != nil {
		if errors.Is(err, repository.ErrClubNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no limits configured"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, limitsDTO{
		ClubID:         l.ClubID,
		MaxPlayers:     l.MaxPlayers,
		CurrentPlayers: l.CurrentPlayers,
		UpdatedBy:      l.UpdatedBy,
	})
}

type putLimitsReq struct {
	MaxPlayers uint32 `json:"max_players"`
}

// PutLimits handles PUT /v1/admin/clubs/:id/limits.
func (h *AdminHandler) PutLimits(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	clubID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club id"})
	}
	var req putLimitsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	if _, err := h.Clubs.GetByID(ctx, clubID); err != nil {
		if errors.Is(err, repository.ErrClubNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "club not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Limits.Upsert(ctx, clubID, req.MaxPlayers, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save limits failed"})
	}
	l, err := h.Limits.GetByClub(ctx, clubID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, limitsDTO{
		ClubID:         l.ClubID,
		MaxPlayers:     l.MaxPlayers,
		CurrentPlayers: l.CurrentPlayers,
		UpdatedBy:      l.UpdatedBy,
	})
}
