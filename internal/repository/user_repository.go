package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/cinehub/cinehub/internal/auth"
	"github.com/cinehub/cinehub/internal/model"
)

// UserRepo persists rows of the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,email,name,password_hash,role,is_active,email_verified,provider,provider_id,avatar_id,permissions_json,watch_count,last_login_at,created_at,updated_at"

// scanUser reads one row of userCols into a model.User.  password_hash,
// provider_id, avatar_id, permissions_json and last_login_at are nullable.
func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var (
		u         model.User
		hash      sql.NullString
		provID    sql.NullString
		avatarID  sql.NullInt64
		permsJSON sql.NullString
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.Name, &hash, &u.Role, &u.IsActive,
		&u.EmailVerified, &u.Provider, &provID, &avatarID, &permsJSON,
		&u.WatchCount, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.PasswordHash = hash.String
	u.ProviderID = provID.String
	if avatarID.Valid {
		u.AvatarID = uint64(avatarID.Int64)
	}
	if permsJSON.Valid && permsJSON.String != "" {
		perms := []string{}
		if err := json.Unmarshal([]byte(permsJSON.String), &perms); err == nil {
			u.Permissions = perms
		}
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return u, nil
}

// Create inserts a local-provider user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, name, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, name, password_hash, role, provider) VALUES (?,?,?,?,?)",
		email, name, hash, model.RoleUser, model.ProviderLocal)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// CreateFederated inserts a user created on first social login.  No
// password hash is stored; email_verified comes from the provider claim.
func (r *UserRepo) CreateFederated(ctx context.Context, email, name, provider, providerID string, emailVerified bool) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, name, role, email_verified, provider, provider_id) VALUES (?,?,?,?,?,?)",
		email, name, model.RoleUser, emailVerified, provider, providerID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns a page of users ordered by creation time descending along
// with the total count for pagination controls.
func (r *UserRepo) List(ctx context.Context, page, limit int) ([]model.User, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

// UpdateRoleActive applies the admin PATCH: either field may be nil to
// leave it unchanged.  Returns ErrNotFound when the user does not exist.
func (r *UserRepo) UpdateRoleActive(ctx context.Context, id uint64, role *model.Role, isActive *bool) error {
	sets := []string{}
	args := []any{}
	if role != nil {
		sets = append(sets, "role=?")
		args = append(args, *role)
	}
	if isActive != nil {
		sets = append(sets, "is_active=?")
		args = append(args, *isActive)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+", updated_at=NOW() WHERE id=?", args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "absent" from "unchanged": a same-value update still
		// touches updated_at, so zero rows means the id was not found.
		var exists int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=?", id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}

// UpdatePermissions replaces a user's permission override set.  Passing
// nil clears the override so role defaults apply again.
func (r *UserRepo) UpdatePermissions(ctx context.Context, id uint64, perms []string) error {
	var val any
	if perms != nil {
		b, err := json.Marshal(perms)
		if err != nil {
			return err
		}
		val = string(b)
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET permissions_json=?, updated_at=NOW() WHERE id=?", val, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=?", id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}

// SetPassword overwrites the stored hash.  Used by the admin reset
// endpoint; the profile endpoint changes passwords inside UpdateProfile's
// transaction instead.
func (r *UserRepo) SetPassword(ctx context.Context, id uint64, password string, cost int) error {
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?", hash, id)
	return err
}

// SetAvatar points the user at an avatar record.
func (r *UserRepo) SetAvatar(ctx context.Context, id, avatarID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET avatar_id=?, updated_at=NOW() WHERE id=?", avatarID, id)
	return err
}

// TouchLastLogin stamps a successful authentication.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET last_login_at=NOW() WHERE id=?", id)
	return err
}

// UpdateProfile applies name/email edits and an optional password change
// in a single transaction.  When newPassword is non-empty the caller's
// current password must verify against the stored hash; any failure after
// Begin rolls the whole update back so a rejected password change never
// leaves a half-applied name or email edit.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, email, oldPassword, newPassword string, cost int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if name != "" {
		if _, err := tx.ExecContext(ctx,
			"UPDATE users SET name=?, updated_at=NOW() WHERE id=?", name, id); err != nil {
			return err
		}
	}
	if email != "" {
		email = strings.ToLower(strings.TrimSpace(email))
		if _, err := tx.ExecContext(ctx,
			"UPDATE users SET email=?, updated_at=NOW() WHERE id=?", email, id); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "1062") {
				return ErrEmailExists
			}
			return err
		}
	}
	if newPassword != "" {
		var hash sql.NullString
		err := tx.QueryRowContext(ctx,
			"SELECT password_hash FROM users WHERE id=? LIMIT 1", id).Scan(&hash)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if !hash.Valid || !auth.VerifyPassword(hash.String, oldPassword) {
			return auth.ErrInvalidCredentials
		}
		newHash, err := auth.HashPassword(newPassword, cost)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?", newHash, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// IncrementWatchCount bumps the usage counter recorded per stream-log
// entry.
func (r *UserRepo) IncrementWatchCount(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET watch_count=watch_count+1 WHERE id=?", id)
	return err
}
