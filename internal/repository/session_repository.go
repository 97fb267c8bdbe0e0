package repository

import (
	"context"
	"database/sql"

	"github.com/cinehub/cinehub/internal/model"
)

// SessionRepo persists issued sessions (single row per jti).  A deleted
// row means the token is revoked even if its embedded expiry has not
// elapsed.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create inserts a session row.
func (r *SessionRepo) Create(ctx context.Context, s model.Session) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (id, user_id, expires_at) VALUES (?,?,?)",
		s.ID, s.UserID, s.ExpiresAt)
	return err
}

// Get returns the session for the given id.  sql.ErrNoRows signals a
// revoked or never-issued session.
func (r *SessionRepo) Get(ctx context.Context, id string) (model.Session, error) {
	var s model.Session
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, expires_at, created_at FROM sessions WHERE id=? LIMIT 1",
		id).Scan(&s.ID, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	return s, err
}

// Delete removes a session (logout / revocation).  Deleting a missing row
// is not an error.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE id=?", id)
	return err
}

// DeleteAllForUser removes every session a user holds.  Used when an
// admin deactivates an account so live sessions die immediately.
func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE user_id=?", userID)
	return err
}

// DeleteExpired prunes rows whose server-side expiry has passed.  Expired
// rows are already rejected by the role gate; this just keeps the table
// small.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < NOW()")
	return err
}
