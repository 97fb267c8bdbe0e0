package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/cinehub/cinehub/internal/auth"
    "github.com/cinehub/cinehub/internal/model"
)

// RequireRole returns a middleware that enforces that the authenticated
// identity satisfies one of the given roles.  Containment applies: an
// admin identity satisfies a moderator requirement, never the reverse.
// It assumes SessionAuth ran earlier on the chain; a missing identity is
// rejected with 401 rather than 403 since it means no session resolved.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            id, ok := IdentityFrom(c)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
            }
            for _, want := range roles {
                if auth.RoleSatisfies(id.Role, want) {
                    return next(c)
                }
            }
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
    }
}

// RequirePermission enforces a fine-grained capability instead of a bare
// role.  Admins hold every permission by default, so this only ever
// narrows access for moderators and override-carrying accounts.
func RequirePermission(perm string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            id, ok := IdentityFrom(c)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
            }
            if !id.HasPermission(perm) {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
