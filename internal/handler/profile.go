package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinehub/cinehub/internal/auth"
	"github.com/cinehub/cinehub/internal/config"
	"github.com/cinehub/cinehub/internal/middleware"
	"github.com/cinehub/cinehub/internal/repository"
)

// ProfileHandler serves the authenticated user's own record, profile
// edits and the avatar picker.
type ProfileHandler struct {
	Cfg     config.Config
	Users   *repository.UserRepo
	Avatars *repository.AvatarRepo
}

func NewProfileHandler(cfg config.Config, u *repository.UserRepo, a *repository.AvatarRepo) *ProfileHandler {
	return &ProfileHandler{Cfg: cfg, Users: u, Avatars: a}
}

type updateProfileReq struct {
	Name        string `json:"name"`
	Email       string `json:"email" validate:"omitempty,email"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" validate:"omitempty,min=8"`
}

type setAvatarReq struct {
	AvatarID uint64 `json:"avatar_id" validate:"required"`
}

// Get returns the caller's profile.
func (h *ProfileHandler) Get(c echo.Context) error {
	id, _ := middleware.IdentityFrom(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": newUserResponse(u)})
}

// Update applies name/email edits and an optional password change.  All
// writes run in one transaction, so a failed old-password check leaves
// the name and email untouched.
func (h *ProfileHandler) Update(c echo.Context) error {
	id, _ := middleware.IdentityFrom(c)

	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.NewPassword != "" && req.OldPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "old_password required to change password"})
	}
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" && email == "" && req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err := h.Users.UpdateProfile(ctx, id.UserID, name, email, req.OldPassword, req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current password is incorrect"})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	u, err := h.Users.GetByID(ctx, id.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": newUserResponse(u)})
}

// avatarResponse is the public shape of an avatar.
type avatarResponse struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

// ListAvatars returns the active avatars a user may pick from.
func (h *ProfileHandler) ListAvatars(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	avatars, err := h.Avatars.List(ctx, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]avatarResponse, 0, len(avatars))
	for _, a := range avatars {
		out = append(out, avatarResponse{ID: a.ID, Name: a.Name, URL: a.URL, Category: a.Category})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// SetAvatar points the caller at one of the active avatars.
func (h *ProfileHandler) SetAvatar(c echo.Context) error {
	id, _ := middleware.IdentityFrom(c)

	var req setAvatarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Avatars.GetByID(ctx, req.AvatarID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "avatar not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !a.IsActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "avatar is not available"})
	}
	if err := h.Users.SetAvatar(ctx, id.UserID, a.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"avatar_id": a.ID})
}
