package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cinehub/cinehub/internal/model"
)

var (
	// ErrUnauthenticated covers every token-resolution failure: bad
	// signature, expired, revoked session, or deactivated owner.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the identity is valid but lacks the required
	// role or permission.
	ErrForbidden = errors.New("forbidden")
)

// Identity is the resolved (user id, role, permission set) behind a valid
// session.  Role and permissions come from the current user row, not the
// token claims, so role changes apply to live sessions immediately.
type Identity struct {
	UserID      uint64
	Email       string
	Name        string
	Role        model.Role
	Permissions []string
	SessionID   string
}

// HasPermission reports whether the identity holds the capability.
func (id Identity) HasPermission(p string) bool {
	for _, have := range id.Permissions {
		if have == p {
			return true
		}
	}
	return false
}

// Gate resolves session tokens into identities and enforces role and
// permission requirements.  Every check consults the persisted session
// store: a deleted session row rejects a token whose signature and expiry
// are still valid.
type Gate struct {
	Secret   string
	Sessions SessionStore
	Users    UserStore
}

// Resolve validates the token, confirms the session still exists and has
// not passed its server-side expiry, and confirms the owning user is
// still active.  Any failure collapses to ErrUnauthenticated.
func (g *Gate) Resolve(ctx context.Context, token string) (Identity, error) {
	claims, err := parseToken(g.Secret, token)
	if err != nil {
		return Identity{}, ErrUnauthenticated
	}
	s, err := g.Sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Identity{}, ErrUnauthenticated
		}
		return Identity{}, err
	}
	if time.Now().UTC().After(s.ExpiresAt) {
		return Identity{}, ErrUnauthenticated
	}
	u, err := g.Users.GetByID(ctx, s.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Identity{}, ErrUnauthenticated
		}
		return Identity{}, err
	}
	if !u.IsActive {
		return Identity{}, ErrUnauthenticated
	}
	return Identity{
		UserID:      u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Permissions: EffectivePermissions(u.Role, u.Permissions),
		SessionID:   s.ID,
	}, nil
}

// Authorize resolves the token and then checks the identity's role against
// the requirement set.  An empty requirement set authorizes any valid
// identity.  Admin implicitly satisfies moderator requirements.
func (g *Gate) Authorize(ctx context.Context, token string, required ...model.Role) (Identity, error) {
	id, err := g.Resolve(ctx, token)
	if err != nil {
		return Identity{}, err
	}
	if len(required) == 0 {
		return id, nil
	}
	for _, want := range required {
		if RoleSatisfies(id.Role, want) {
			return id, nil
		}
	}
	return Identity{}, ErrForbidden
}
