package handler

import (
	"time"

	"github.com/cinehub/cinehub/internal/auth"
	"github.com/cinehub/cinehub/internal/model"
)

// userResponse is the public shape of a user.  Every route returning a
// user goes through newUserResponse so the hash and raw override column
// never leak and the permission set is always the effective one.
type userResponse struct {
	ID            uint64     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Role          model.Role `json:"role"`
	IsActive      bool       `json:"is_active"`
	EmailVerified bool       `json:"email_verified"`
	Provider      string     `json:"provider"`
	AvatarID      uint64     `json:"avatar_id,omitempty"`
	Permissions   []string   `json:"permissions"`
	WatchCount    uint64     `json:"watch_count"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func newUserResponse(u model.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		IsActive:      u.IsActive,
		EmailVerified: u.EmailVerified,
		Provider:      u.Provider,
		AvatarID:      u.AvatarID,
		Permissions:   auth.EffectivePermissions(u.Role, u.Permissions),
		WatchCount:    u.WatchCount,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
	}
}

// paginationResponse carries the fields the UI pagination controls need.
type paginationResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func newPagination(page, limit, total int) paginationResponse {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return paginationResponse{Page: page, Limit: limit, Total: total, TotalPages: pages}
}
