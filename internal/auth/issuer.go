package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cinehub/cinehub/internal/model"
)

// SessionStore is the slice of the session repository the issuer and the
// role gate need.  The concrete implementation is repository.SessionRepo.
type SessionStore interface {
	Create(ctx context.Context, s model.Session) error
	Get(ctx context.Context, id string) (model.Session, error)
	Delete(ctx context.Context, id string) error
}

// Issuer turns a verified identity into a signed session token plus a
// persisted session row.  The row keyed by the token's jti is what makes
// server-side revocation possible independent of the embedded expiry.
type Issuer struct {
	Secret   string
	TTL      time.Duration
	Sessions SessionStore
}

// NewIssuer constructs an Issuer with a day-based TTL.
func NewIssuer(secret string, ttlDays int, sessions SessionStore) *Issuer {
	return &Issuer{Secret: secret, TTL: time.Duration(ttlDays) * 24 * time.Hour, Sessions: sessions}
}

// Issue signs a session token for the user and persists the matching
// session record.  If the record cannot be stored the token is not
// returned, so there is never a valid token without a revocable session.
func (i *Issuer) Issue(ctx context.Context, u model.User) (SessionToken, error) {
	sid := uuid.NewString()
	exp := time.Now().UTC().Add(i.TTL)
	signed, err := signToken(i.Secret, u.ID, string(u.Role), sid, exp)
	if err != nil {
		return SessionToken{}, err
	}
	if err := i.Sessions.Create(ctx, model.Session{ID: sid, UserID: u.ID, ExpiresAt: exp}); err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, SessionID: sid, Exp: exp}, nil
}

// Revoke deletes the persisted session record.  Revoking an already
// revoked or unknown session is a no-op.
func (i *Issuer) Revoke(ctx context.Context, sessionID string) error {
	return i.Sessions.Delete(ctx, sessionID)
}
