package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinehub/cinehub/internal/model"
)

// stubSessionStore is an in-memory SessionStore.
type stubSessionStore struct {
	rows      map[string]model.Session
	createErr error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{rows: map[string]model.Session{}}
}

func (s *stubSessionStore) Create(_ context.Context, sess model.Session) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.rows[sess.ID] = sess
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (model.Session, error) {
	sess, ok := s.rows[id]
	if !ok {
		return model.Session{}, sql.ErrNoRows
	}
	return sess, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	delete(s.rows, id)
	return nil
}

const testSecret = "unit-test-secret"

func testGate(users *stubUserStore, sessions *stubSessionStore) *Gate {
	return &Gate{Secret: testSecret, Sessions: sessions, Users: users}
}

func activeUser(id uint64, role model.Role) model.User {
	return model.User{ID: id, Email: "u@example.com", Name: "U", Role: role, IsActive: true}
}

func TestIssueThenResolve(t *testing.T) {
	u := activeUser(7, model.RoleUser)
	users := newStubUserStore(u)
	sessions := newStubSessionStore()
	issuer := NewIssuer(testSecret, 7, sessions)

	tok, err := issuer.Issue(context.Background(), u)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	assert.Contains(t, sessions.rows, tok.SessionID)

	id, err := testGate(users, sessions).Resolve(context.Background(), tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id.UserID)
	assert.Equal(t, model.RoleUser, id.Role)
	assert.Equal(t, tok.SessionID, id.SessionID)
}

func TestIssueFailsWhenSessionNotPersisted(t *testing.T) {
	sessions := newStubSessionStore()
	sessions.createErr = sql.ErrConnDone
	issuer := NewIssuer(testSecret, 7, sessions)

	_, err := issuer.Issue(context.Background(), activeUser(7, model.RoleUser))
	assert.Error(t, err, "no token may exist without a revocable session row")
}

func TestRevokedSessionRejectedWhileTokenUnexpired(t *testing.T) {
	u := activeUser(7, model.RoleUser)
	users := newStubUserStore(u)
	sessions := newStubSessionStore()
	issuer := NewIssuer(testSecret, 7, sessions)
	gate := testGate(users, sessions)

	tok, err := issuer.Issue(context.Background(), u)
	require.NoError(t, err)

	require.NoError(t, issuer.Revoke(context.Background(), tok.SessionID))

	// The JWT itself is still signed and far from expiry; the deleted
	// session row must win.
	_, err = gate.Resolve(context.Background(), tok.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestServerSideExpiryRejected(t *testing.T) {
	u := activeUser(7, model.RoleUser)
	users := newStubUserStore(u)
	sessions := newStubSessionStore()
	issuer := NewIssuer(testSecret, 7, sessions)
	gate := testGate(users, sessions)

	tok, err := issuer.Issue(context.Background(), u)
	require.NoError(t, err)

	// Age the stored row past its expiry without touching the token.
	s := sessions.rows[tok.SessionID]
	s.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	sessions.rows[tok.SessionID] = s

	_, err = gate.Resolve(context.Background(), tok.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestDeactivatedOwnerRejected(t *testing.T) {
	u := activeUser(7, model.RoleUser)
	users := newStubUserStore(u)
	sessions := newStubSessionStore()
	issuer := NewIssuer(testSecret, 7, sessions)
	gate := testGate(users, sessions)

	tok, err := issuer.Issue(context.Background(), u)
	require.NoError(t, err)

	u.IsActive = false
	users.byEmail[u.Email] = u

	_, err = gate.Resolve(context.Background(), tok.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolveRereadsRoleFromStore(t *testing.T) {
	// A demotion applies to live sessions: the role claim baked into the
	// token must not survive a re-read of the user row.
	u := activeUser(7, model.RoleAdmin)
	users := newStubUserStore(u)
	sessions := newStubSessionStore()
	issuer := NewIssuer(testSecret, 7, sessions)
	gate := testGate(users, sessions)

	tok, err := issuer.Issue(context.Background(), u)
	require.NoError(t, err)

	u.Role = model.RoleUser
	users.byEmail[u.Email] = u

	id, err := gate.Resolve(context.Background(), tok.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, id.Role)

	_, err = gate.Authorize(context.Background(), tok.Token, model.RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGarbageTokenRejected(t *testing.T) {
	gate := testGate(newStubUserStore(), newStubSessionStore())

	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := gate.Resolve(context.Background(), raw)
		assert.ErrorIs(t, err, ErrUnauthenticated, "token %q", raw)
	}
}

func TestTokenSignedWithDifferentSecretRejected(t *testing.T) {
	u := activeUser(7, model.RoleUser)
	users := newStubUserStore(u)
	sessions := newStubSessionStore()
	issuer := NewIssuer("some-other-secret", 7, sessions)
	gate := testGate(users, sessions)

	tok, err := issuer.Issue(context.Background(), u)
	require.NoError(t, err)

	_, err = gate.Resolve(context.Background(), tok.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthorizeRoleContainment(t *testing.T) {
	cases := []struct {
		have     model.Role
		want     model.Role
		expectOK bool
	}{
		{model.RoleAdmin, model.RoleAdmin, true},
		{model.RoleAdmin, model.RoleModerator, true},
		{model.RoleAdmin, model.RoleUser, false},
		{model.RoleModerator, model.RoleModerator, true},
		{model.RoleModerator, model.RoleAdmin, false},
		{model.RoleModerator, model.RoleUser, false},
		{model.RoleUser, model.RoleUser, true},
		{model.RoleUser, model.RoleModerator, false},
		{model.RoleUser, model.RoleAdmin, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expectOK, RoleSatisfies(tc.have, tc.want), "%s vs %s", tc.have, tc.want)
	}
}

func TestAuthorizeEmptyRequirementAllowsAnyIdentity(t *testing.T) {
	u := activeUser(7, model.RoleUser)
	users := newStubUserStore(u)
	sessions := newStubSessionStore()
	issuer := NewIssuer(testSecret, 7, sessions)
	gate := testGate(users, sessions)

	tok, err := issuer.Issue(context.Background(), u)
	require.NoError(t, err)

	_, err = gate.Authorize(context.Background(), tok.Token)
	assert.NoError(t, err)
}
