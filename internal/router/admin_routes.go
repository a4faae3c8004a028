package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cardroom/table-time/internal/handler"
	"github.com/cardroom/table-time/internal/middleware"
	"github.com/cardroom/table-time/internal/model"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.GET("/users", a.ListUsers)
	g.PATCH("/users/:id/active", a.SetUserActive)
	g.GET("/clubs", a.ListClubs)
	g.GET("/clubs/:id/limits", a.GetLimits)
	g.PUT("/clubs/:id/limits", a.PutLimits)
}
