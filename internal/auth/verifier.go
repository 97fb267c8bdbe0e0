package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cinehub/cinehub/internal/model"
)

// Error taxonomy for credential verification.  Handlers map these to 400,
// 401 and 403 responses; everything else is a 500.
var (
	ErrMissingFields        = errors.New("email and password are required")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountInactive      = errors.New("account is deactivated")
	ErrProviderVerification = errors.New("provider token verification failed")
)

// UserStore is the slice of the user repository the verifier needs.  The
// concrete implementation is repository.UserRepo; tests substitute stubs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	CreateFederated(ctx context.Context, email, name, provider, providerID string, emailVerified bool) (uint64, error)
}

// ProviderClaim is the verified identity a federated provider asserts.
// Verification of the provider's signature happens outside this package;
// a ProviderVerifier turns an opaque token into one of these.
type ProviderClaim struct {
	Email         string
	Name          string
	Subject       string
	EmailVerified bool
}

// ProviderVerifier checks an opaque provider token with the external
// identity provider and returns the claims it vouches for.
type ProviderVerifier interface {
	Verify(ctx context.Context, provider, token string) (ProviderClaim, error)
}

// Verifier checks credentials against stored user records.  It has no side
// effects beyond the lookup (and federated first-sight creation); issuing
// a session is a separate step.
type Verifier struct {
	Users     UserStore
	Providers ProviderVerifier
}

// VerifyPassword checks an email/password pair.  Unknown emails and wrong
// passwords return the same ErrInvalidCredentials, and the unknown-email
// path burns a bcrypt comparison so the two cannot be told apart by
// timing.  Inactive accounts are rejected regardless of password
// correctness.
func (v *Verifier) VerifyPassword(ctx context.Context, email, password string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return model.User{}, ErrMissingFields
	}
	u, err := v.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			burnPassword(password)
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if !u.IsActive {
		return model.User{}, ErrAccountInactive
	}
	if u.PasswordHash == "" || !VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// VerifyFederated resolves a provider token to a local user, creating the
// account on first sight with role "user" and the provider's
// email-verified claim.  An existing but deactivated account is still
// rejected.
func (v *Verifier) VerifyFederated(ctx context.Context, provider, token string) (model.User, error) {
	if provider == "" || token == "" {
		return model.User{}, ErrMissingFields
	}
	claim, err := v.Providers.Verify(ctx, provider, token)
	if err != nil {
		return model.User{}, ErrProviderVerification
	}
	email := strings.ToLower(strings.TrimSpace(claim.Email))
	if email == "" {
		return model.User{}, ErrProviderVerification
	}
	u, err := v.Users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return model.User{}, err
		}
		id, err := v.Users.CreateFederated(ctx, email, claim.Name, provider, claim.Subject, claim.EmailVerified)
		if err != nil {
			return model.User{}, err
		}
		return v.Users.GetByID(ctx, id)
	}
	if !u.IsActive {
		return model.User{}, ErrAccountInactive
	}
	return u, nil
}
