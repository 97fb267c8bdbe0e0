package model

import "time"

// Role is the coarse authorization tier assigned to a user.  Roles are
// stored as lowercase strings in the `users` table and embedded in the
// session token's claims.  Admin capability is a strict superset of
// moderator capability; the containment rule lives in the auth package.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

// Auth providers recognized by the social-login endpoint.  "local" marks
// accounts created through the register form.
const (
	ProviderLocal    = "local"
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column.  Handlers never serialize
// this struct directly; they build response DTOs so the password hash and
// permission overrides stay internal.
//
// Fields:
//  ID            – primary key identifier of the user.
//  Email         – unique email address, stored lowercase.
//  Name          – display name.
//  PasswordHash  – bcrypt hash; empty for federated-only accounts.
//  Role          – authorization tier (user, moderator, admin).
//  IsActive      – whether the account may authenticate.
//  EmailVerified – whether the email was confirmed (inherited from the
//                  provider claim for federated accounts).
//  Provider      – identity provider ("local", "google", "facebook").
//  ProviderID    – subject identifier at the provider; empty for local.
//  AvatarID      – selected avatar, zero when unset.
//  Permissions   – per-user permission overrides; nil means "derive from
//                  role only".
//  WatchCount    – number of stream-log entries recorded for the user.
//  LastLoginAt   – most recent successful login, nil before first login.
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type User struct {
	ID            uint64
	Email         string
	Name          string
	PasswordHash  string
	Role          Role
	IsActive      bool
	EmailVerified bool
	Provider      string
	ProviderID    string
	AvatarID      uint64
	Permissions   []string
	WatchCount    uint64
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
