package model

import "time"

// Session models a row in the `sessions` table.  Each issued token carries
// a jti claim equal to the session ID; deleting the row revokes the token
// server-side regardless of its embedded expiry.  Multiple concurrent
// sessions per user are allowed.
//
// Fields:
//  ID        – uuid primary key, mirrored in the token's jti claim.
//  UserID    – owner of the session.
//  ExpiresAt – expiration timestamp, matches the token's exp claim.
//  CreatedAt – timestamp of creation.
type Session struct {
	ID        string
	UserID    uint64
	ExpiresAt time.Time
	CreatedAt time.Time
}
