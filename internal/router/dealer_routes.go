package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cardroom/table-time/internal/handler"
	"github.com/cardroom/table-time/internal/middleware"
	"github.com/cardroom/table-time/internal/model"
)

// RegisterDealer registers the floor endpoints: seat status changes, seat
// listings, the elapsed-time poll and session lifecycle. Dealers, owners and
// admins may all operate a table.
func RegisterDealer(e *echo.Echo, s *handler.SeatHandler, sess *handler.SessionHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleDealer, model.RoleOwner, model.RoleAdmin),
	)

	// ---- Seats ----
	g.PATCH("/seats/:id", s.ChangeStatus)
	g.GET("/tables/:id/seats", s.ListTableSeats)
	g.GET("/players/:id/elapsed", s.PlayerElapsed)

	// ---- Sessions ----
	g.POST("/tables/:id/sessions", sess.Start)
	g.POST("/tables/:id/sessions/end", sess.End)
	g.GET("/tables/:id/sessions/current", sess.Current)
	g.GET("/tables/:id/sessions", sess.List)
}
