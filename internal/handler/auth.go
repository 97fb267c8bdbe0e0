package handler

import (
    "context"  // provides context with cancellation for DB calls
    "errors"   // sentinel error matching
    "net/http" // HTTP status codes and primitives
    "strings"  // string manipulation utilities
    "time"     // timeouts for DB calls and cookie expiry

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/cinehub/cinehub/internal/auth"       // credential verifier, session issuer and role gate
    "github.com/cinehub/cinehub/internal/config"     // app configuration
    "github.com/cinehub/cinehub/internal/middleware" // session cookie name and identity helpers
    "github.com/cinehub/cinehub/internal/model"      // domain records
    "github.com/cinehub/cinehub/internal/repository" // DB repositories
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Verifier *auth.Verifier
	Issuer   *auth.Issuer
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, v *auth.Verifier, i *auth.Issuer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Verifier: v, Issuer: i}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type socialLoginReq struct {
	Provider string `json:"provider" validate:"required"`
	Token    string `json:"token" validate:"required"`
}

// setSessionCookie attaches the signed token as the httpOnly session
// cookie.  Secure is enabled in prod; SameSite stays Lax so top-level
// navigations from the provider redirect carry the cookie.
func (h *AuthHandler) setSessionCookie(c echo.Context, tok auth.SessionToken) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie immediately.
func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Register: create a local account.  No session is issued; the client
// logs in afterwards.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, strings.TrimSpace(req.Name), req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": newUserResponse(u)})
}

// Login: verify credentials and set the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Verifier.VerifyPassword(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
		case errors.Is(err, auth.ErrAccountInactive):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "account is deactivated"})
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	tok, err := h.Issuer.Issue(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	_ = h.Users.TouchLastLogin(ctx, u.ID)

	h.setSessionCookie(c, tok)
	return c.JSON(http.StatusOK, echo.Map{"user": newUserResponse(u)})
}

// SocialLogin: exchange a provider token for a local session, creating
// the account on first sight.
func (h *AuthHandler) SocialLogin(c echo.Context) error {
	var req socialLoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	if provider != model.ProviderGoogle && provider != model.ProviderFacebook {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported provider"})
	}

	// Provider round-trip plus two DB calls; allow a little longer than
	// the plain login path.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	u, err := h.Verifier.VerifyFederated(ctx, provider, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAccountInactive):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "account is deactivated"})
		case errors.Is(err, auth.ErrProviderVerification), errors.Is(err, auth.ErrMissingFields):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "provider verification failed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	tok, err := h.Issuer.Issue(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	_ = h.Users.TouchLastLogin(ctx, u.ID)

	h.setSessionCookie(c, tok)
	return c.JSON(http.StatusOK, echo.Map{"user": newUserResponse(u)})
}

// Logout: delete the persisted session and clear the cookie.  Runs behind
// SessionAuth, so the jti to revoke comes from the resolved identity
// rather than from any request body.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if id, ok := middleware.IdentityFrom(c); ok && id.SessionID != "" {
		if err := h.Issuer.Revoke(ctx, id.SessionID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
	}
	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
