package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/cinehub/cinehub/internal/auth"
	"github.com/cinehub/cinehub/internal/handler"
	"github.com/cinehub/cinehub/internal/middleware"
	"github.com/cinehub/cinehub/internal/model"
)

// RegisterAdmin registers the dashboard endpoints under /v1/admin.
// The group admits moderators through role containment (admin satisfies
// every moderator requirement); individual routes tighten access with an
// admin-only role check or a specific permission.
func RegisterAdmin(e *echo.Echo, u *handler.AdminUserHandler, logs *handler.ActivityLogHandler, av *handler.AdminAvatarHandler, gate *auth.Gate) {
	g := e.Group(
		"/v1/admin",
		middleware.SessionAuth(gate),
		middleware.RequireRole(model.RoleModerator),
	)

	// ---- Users ----
	g.GET("/users", u.List)
	// Patch admits moderators for the is_active toggle; the handler
	// rejects role changes from non-admin actors.
	g.PATCH("/users/:id", u.Patch)
	g.POST("/users/:id/password", u.ResetPassword, middleware.RequireRole(model.RoleAdmin))

	// ---- Permissions ----
	g.PATCH("/permissions", u.PatchPermissions, middleware.RequireRole(model.RoleAdmin))

	// ---- Activity logs ----
	g.GET("/activity-logs", logs.List, middleware.RequirePermission(auth.PermViewActivity))

	// ---- Avatars ----
	avatars := e.Group(
		"/v1/admin/avatars",
		middleware.SessionAuth(gate),
		middleware.RequirePermission(auth.PermManageContent),
	)
	avatars.GET("", av.List)
	avatars.POST("", av.Create)
	avatars.PUT("/:id", av.Update)
	avatars.DELETE("/:id", av.Delete)
}
