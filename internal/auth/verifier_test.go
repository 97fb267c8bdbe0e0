package auth

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cinehub/cinehub/internal/model"
)

// stubUserStore is an in-memory UserStore keyed by email.
type stubUserStore struct {
	byEmail map[string]model.User
	nextID  uint64
	created []string // emails passed to CreateFederated
}

func newStubUserStore(users ...model.User) *stubUserStore {
	s := &stubUserStore{byEmail: map[string]model.User{}, nextID: 100}
	for _, u := range users {
		s.byEmail[u.Email] = u
	}
	return s
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (s *stubUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (s *stubUserStore) CreateFederated(_ context.Context, email, name, provider, providerID string, emailVerified bool) (uint64, error) {
	s.nextID++
	s.byEmail[email] = model.User{
		ID:            s.nextID,
		Email:         email,
		Name:          name,
		Role:          model.RoleUser,
		IsActive:      true,
		EmailVerified: emailVerified,
		Provider:      provider,
		ProviderID:    providerID,
	}
	s.created = append(s.created, email)
	return s.nextID, nil
}

// stubProvider returns a fixed claim or error.
type stubProvider struct {
	claim ProviderClaim
	err   error
}

func (p *stubProvider) Verify(_ context.Context, _, _ string) (ProviderClaim, error) {
	return p.claim, p.err
}

func hashFor(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestVerifyPasswordSuccess(t *testing.T) {
	store := newStubUserStore(model.User{
		ID: 1, Email: "alice@example.com", Role: model.RoleUser,
		IsActive: true, PasswordHash: hashFor(t, "s3cret"),
	})
	v := &Verifier{Users: store}

	u, err := v.VerifyPassword(context.Background(), "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), u.ID)
}

func TestVerifyPasswordNormalizesEmail(t *testing.T) {
	store := newStubUserStore(model.User{
		ID: 1, Email: "alice@example.com", Role: model.RoleUser,
		IsActive: true, PasswordHash: hashFor(t, "s3cret"),
	})
	v := &Verifier{Users: store}

	u, err := v.VerifyPassword(context.Background(), "  Alice@Example.COM ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), u.ID)
}

func TestVerifyPasswordMissingFields(t *testing.T) {
	v := &Verifier{Users: newStubUserStore()}

	_, err := v.VerifyPassword(context.Background(), "", "pw")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = v.VerifyPassword(context.Background(), "a@b.com", "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestVerifyPasswordIndistinguishableFailures(t *testing.T) {
	// Unknown email and wrong password must surface the same error so the
	// response does not reveal which accounts exist.
	store := newStubUserStore(model.User{
		ID: 1, Email: "alice@example.com", Role: model.RoleUser,
		IsActive: true, PasswordHash: hashFor(t, "s3cret"),
	})
	v := &Verifier{Users: store}

	_, errUnknown := v.VerifyPassword(context.Background(), "nobody@example.com", "s3cret")
	_, errWrong := v.VerifyPassword(context.Background(), "alice@example.com", "wrong")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
}

func TestVerifyPasswordInactiveAccount(t *testing.T) {
	store := newStubUserStore(model.User{
		ID: 1, Email: "alice@example.com", Role: model.RoleUser,
		IsActive: false, PasswordHash: hashFor(t, "s3cret"),
	})
	v := &Verifier{Users: store}

	// Inactive wins even when the password is correct.
	_, err := v.VerifyPassword(context.Background(), "alice@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrAccountInactive)

	// And also when it is wrong; the caller learns only that the account
	// is deactivated, never whether the password matched.
	_, err = v.VerifyPassword(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestVerifyPasswordFederatedOnlyAccount(t *testing.T) {
	// Accounts created through a provider have no local hash and cannot
	// log in with a password.
	store := newStubUserStore(model.User{
		ID: 2, Email: "bob@example.com", Role: model.RoleUser,
		IsActive: true, Provider: model.ProviderGoogle,
	})
	v := &Verifier{Users: store}

	_, err := v.VerifyPassword(context.Background(), "bob@example.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyFederatedFirstSightCreates(t *testing.T) {
	store := newStubUserStore()
	v := &Verifier{
		Users: store,
		Providers: &stubProvider{claim: ProviderClaim{
			Email: "Carol@Example.com", Name: "Carol", Subject: "g-123", EmailVerified: true,
		}},
	}

	u, err := v.VerifyFederated(context.Background(), model.ProviderGoogle, "opaque")
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", u.Email)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.True(t, u.EmailVerified)
	assert.Equal(t, []string{"carol@example.com"}, store.created)
}

func TestVerifyFederatedExistingAccount(t *testing.T) {
	store := newStubUserStore(model.User{
		ID: 3, Email: "carol@example.com", Role: model.RoleModerator, IsActive: true,
	})
	v := &Verifier{
		Users:     store,
		Providers: &stubProvider{claim: ProviderClaim{Email: "carol@example.com", Subject: "g-123"}},
	}

	u, err := v.VerifyFederated(context.Background(), model.ProviderGoogle, "opaque")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), u.ID)
	assert.Empty(t, store.created, "existing account must not be recreated")
}

func TestVerifyFederatedInactiveAccount(t *testing.T) {
	store := newStubUserStore(model.User{
		ID: 4, Email: "dave@example.com", Role: model.RoleUser, IsActive: false,
	})
	v := &Verifier{
		Users:     store,
		Providers: &stubProvider{claim: ProviderClaim{Email: "dave@example.com"}},
	}

	_, err := v.VerifyFederated(context.Background(), model.ProviderGoogle, "opaque")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestVerifyFederatedProviderFailure(t *testing.T) {
	v := &Verifier{
		Users:     newStubUserStore(),
		Providers: &stubProvider{err: ErrProviderVerification},
	}

	_, err := v.VerifyFederated(context.Background(), model.ProviderGoogle, "bad")
	assert.ErrorIs(t, err, ErrProviderVerification)
}
