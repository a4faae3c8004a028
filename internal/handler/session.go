package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cardroom/table-time/internal/model"
	"github.com/cardroom/table-time/internal/repository"
	"github.com/cardroom/table-time/internal/service"
	"github.com/cardroom/table-time/internal/utils"
)

// SessionHandler exposes table session lifecycle endpoints.
type SessionHandler struct {
	Svc      *service.SessionService
	Sessions *repository.SessionRepo
}

func NewSessionHandler(svc *service.SessionService, sessions *repository.SessionRepo) *SessionHandler {
	return &SessionHandler{Svc: svc, Sessions: sessions}
}

type sessionStartReq struct {
	Name string `json:"name"`
}

type sessionDTO struct {
	ID        uint64  `json:"id"`
	TableID   uint64  `json:"table_id"`
	DealerID  *uint64 `json:"dealer_id,omitempty"`
	Name      string  `json:"name"`
	IsActive  bool    `json:"is_active"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time,omitempty"`
	TotalTime int64   `json:"total_time"`
	Formatted string  `json:"formatted"`
}

func toSessionDTO(s *model.TableSession) sessionDTO {
	dto := sessionDTO{
		ID:        s.ID,
		TableID:   s.TableID,
		DealerID:  s.DealerID,
		Name:      s.Name,
		IsActive:  s.IsActive,
		StartTime: s.StartTime.UTC().Format(time.RFC3339),
		TotalTime: s.TotalTime,
		Formatted: utils.FormatDuration(s.TotalTime),
	}
	if s.EndTime != nil {
		et := s.EndTime.UTC().Format(time.RFC3339)
		dto.EndTime = &et
	}
	return dto
}

// Start handles POST /v1/tables/:id/sessions. The authenticated dealer is
// recorded on the session.
func (h *SessionHandler) Start(c echo.Context) error {
	tableID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var req sessionStartReq
	_ = c.Bind(&req)

	var dealerID *uint64
	if uid, err := getUserID(c); err == nil {
		dealerID = &uid
	}

	sess, err := h.Svc.Start(c.Request().Context(), tableID, dealerID, req.Name)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(http.StatusCreated, toSessionDTO(sess))
}

// End handles POST /v1/tables/:id/sessions/end.
func (h *SessionHandler) End(c echo.Context) error {
	tableID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	sess, err := h.Svc.End(c.Request().Context(), tableID)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionDTO(sess))
}

// Current handles GET /v1/tables/:id/sessions/current.
func (h *SessionHandler) Current(c echo.Context) error {
	tableID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	sess, err := h.Svc.Current(c.Request().Context(), tableID)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionDTO(sess))
}

// List handles GET /v1/tables/:id/sessions.
func (h *SessionHandler) List(c echo.Context) error {
	tableID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	sessions, err := h.Sessions.ListByTable(c.Request().Context(), tableID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]sessionDTO, 0, len(sessions))
	for i := range sessions {
		out = append(out, toSessionDTO(&sessions[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": out})
}

func sessionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no active session"})
	case errors.Is(err, repository.ErrTableNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	case errors.Is(err, service.ErrTimeout):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "operation timed out"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
