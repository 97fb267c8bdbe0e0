package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/cinehub/cinehub/internal/auth"
)

// SessionCookie is the name of the httpOnly cookie carrying the signed
// session token.
const SessionCookie = "cinehub_session"

// identityKey is the context key the resolved identity is stored under.
const identityKey = "identity"

// SessionAuth returns an Echo middleware that resolves the session token
// into an Identity via the role gate and injects it into the request
// context.  The token is read from the session cookie first, falling back
// to a Bearer Authorization header for API clients.  Resolution consults
// the persisted session store, so a revoked session is rejected even while
// the token's signature and expiry are still valid.
func SessionAuth(gate *auth.Gate) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            token := tokenFrom(c)
            if token == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
            }
            id, err := gate.Resolve(c.Request().Context(), token)
            if err != nil {
                // Every resolution failure is a 401; the gate does not
                // distinguish bad signature from revoked session.
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired session"})
            }
            c.Set(identityKey, id)
            return next(c)
        }
    }
}

// tokenFrom extracts the raw session token from the cookie or the
// Authorization header.  Empty string when neither is present.
func tokenFrom(c echo.Context) string {
    if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
        return ck.Value
    }
    h := c.Request().Header.Get("Authorization")
    if strings.HasPrefix(h, "Bearer ") {
        return strings.TrimPrefix(h, "Bearer ")
    }
    return ""
}

// IdentityFrom returns the identity stored by SessionAuth.  The boolean is
// false when the middleware did not run on this route.
func IdentityFrom(c echo.Context) (auth.Identity, bool) {
    id, ok := c.Get(identityKey).(auth.Identity)
    return id, ok
}
