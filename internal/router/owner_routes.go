package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cardroom/table-time/internal/handler"
	"github.com/cardroom/table-time/internal/middleware"
	"github.com/cardroom/table-time/internal/model"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1/owner.
// All routes require a valid JWT and OWNER role.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	g := e.Group(
		"/v1/owner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner),
	)

	// ---- Clubs ----
	g.POST("/clubs", o.CreateClub)
	g.GET("/clubs", o.ListClubs)
	g.GET("/clubs/:id", o.GetClub)
	g.PATCH("/clubs/:id", o.UpdateClub)

	// ---- Tables ----
	g.POST("/clubs/:id/tables", o.CreateTable)
	g.GET("/clubs/:id/tables", o.ListTables)
	g.PATCH("/tables/:id", o.UpdateTable)

	// ---- Players ----
	g.POST("/clubs/:id/players", o.CreatePlayer)
	g.GET("/clubs/:id/players", o.ListPlayers)
	g.GET("/players/:id", o.GetPlayer)
	g.PATCH("/players/:id", o.UpdatePlayer)

	// ---- Waiting queue ----
	g.POST("/clubs/:id/queue", o.JoinQueue)
	g.GET("/clubs/:id/queue", o.ListQueue)
	g.POST("/queue/:id/assign", o.AssignFromQueue)
	g.DELETE("/queue/:id", o.RemoveFromQueue)
}
