package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cinehub/cinehub/internal/auth"
	"github.com/cinehub/cinehub/internal/handler"
	"github.com/cinehub/cinehub/internal/middleware"
)

// RegisterAuth registers the authentication routes.  Register, login and
// social-login do not require an existing session; they sit behind the
// Redis token-bucket rate limiter so credential stuffing is throttled at
// the infrastructure level (there is deliberately no per-account
// lockout).  Logout requires a resolved session since it revokes the
// caller's own jti.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, gate *auth.Gate, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/social-login", a.SocialLogin)

	e.POST("/v1/auth/logout", a.Logout, middleware.SessionAuth(gate))
}
