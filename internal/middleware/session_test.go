package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinehub/cinehub/internal/auth"
	"github.com/cinehub/cinehub/internal/model"
)

// In-memory stores so the gate can resolve real signed tokens without a
// database.

type memUsers struct{ byID map[uint64]model.User }

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (m *memUsers) CreateFederated(context.Context, string, string, string, string, bool) (uint64, error) {
	return 0, sql.ErrConnDone
}

type memSessions struct{ rows map[string]model.Session }

func (m *memSessions) Create(_ context.Context, s model.Session) error {
	m.rows[s.ID] = s
	return nil
}

func (m *memSessions) Get(_ context.Context, id string) (model.Session, error) {
	s, ok := m.rows[id]
	if !ok {
		return model.Session{}, sql.ErrNoRows
	}
	return s, nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

const secret = "middleware-test-secret"

// newFixture returns a gate plus a signed token for a user with the given
// role.
func newFixture(t *testing.T, role model.Role) (*auth.Gate, string) {
	t.Helper()
	u := model.User{ID: 1, Email: "u@example.com", Name: "U", Role: role, IsActive: true}
	users := &memUsers{byID: map[uint64]model.User{1: u}}
	sessions := &memSessions{rows: map[string]model.Session{}}
	tok, err := auth.NewIssuer(secret, 1, sessions).Issue(context.Background(), u)
	require.NoError(t, err)
	return &auth.Gate{Secret: secret, Sessions: sessions, Users: users}, tok.Token
}

// okHandler echoes the resolved identity's user id.
func okHandler(c echo.Context) error {
	id, _ := IdentityFrom(c)
	return c.JSON(http.StatusOK, echo.Map{"user_id": id.UserID})
}

func perform(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSessionAuthFromCookie(t *testing.T) {
	gate, token := newFixture(t, model.RoleUser)
	e := echo.New()
	e.GET("/me", okHandler, SessionAuth(gate))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})

	rec := perform(e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":1}`, rec.Body.String())
}

func TestSessionAuthFromBearerHeader(t *testing.T) {
	gate, token := newFixture(t, model.RoleUser)
	e := echo.New()
	e.GET("/me", okHandler, SessionAuth(gate))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := perform(e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionAuthCookieWinsOverHeader(t *testing.T) {
	gate, token := newFixture(t, model.RoleUser)
	e := echo.New()
	e.GET("/me", okHandler, SessionAuth(gate))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	req.Header.Set("Authorization", "Bearer garbage")

	rec := perform(e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionAuthMissingToken(t *testing.T) {
	gate, _ := newFixture(t, model.RoleUser)
	e := echo.New()
	e.GET("/me", okHandler, SessionAuth(gate))

	rec := perform(e, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthBadToken(t *testing.T) {
	gate, _ := newFixture(t, model.RoleUser)
	e := echo.New()
	e.GET("/me", okHandler, SessionAuth(gate))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-token"})

	rec := perform(e, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleAdminPassesModeratorRoute(t *testing.T) {
	gate, token := newFixture(t, model.RoleAdmin)
	e := echo.New()
	e.GET("/mod", okHandler, SessionAuth(gate), RequireRole(model.RoleModerator))

	req := httptest.NewRequest(http.MethodGet, "/mod", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})

	rec := perform(e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleModeratorDeniedAdminRoute(t *testing.T) {
	gate, token := newFixture(t, model.RoleModerator)
	e := echo.New()
	e.GET("/admin", okHandler, SessionAuth(gate), RequireRole(model.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})

	rec := perform(e, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleUserDeniedModeratorRoute(t *testing.T) {
	gate, token := newFixture(t, model.RoleUser)
	e := echo.New()
	e.GET("/mod", okHandler, SessionAuth(gate), RequireRole(model.RoleModerator))

	req := httptest.NewRequest(http.MethodGet, "/mod", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})

	rec := perform(e, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleWithoutSessionAuthIs401(t *testing.T) {
	e := echo.New()
	e.GET("/mod", okHandler, RequireRole(model.RoleModerator))

	rec := perform(e, httptest.NewRequest(http.MethodGet, "/mod", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePermission(t *testing.T) {
	// Moderator defaults include view_activity but not manage_system.
	gate, token := newFixture(t, model.RoleModerator)
	e := echo.New()
	e.GET("/logs", okHandler, SessionAuth(gate), RequirePermission(auth.PermViewActivity))
	e.GET("/system", okHandler, SessionAuth(gate), RequirePermission(auth.PermManageSystem))

	req := httptest.NewRequest(http.MethodGet, "/logs", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	assert.Equal(t, http.StatusOK, perform(e, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/system", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	assert.Equal(t, http.StatusForbidden, perform(e, req).Code)
}
