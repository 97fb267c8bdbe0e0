package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinehub/cinehub/internal/audit"
	"github.com/cinehub/cinehub/internal/auth"
	"github.com/cinehub/cinehub/internal/config"
	"github.com/cinehub/cinehub/internal/middleware"
	"github.com/cinehub/cinehub/internal/model"
	"github.com/cinehub/cinehub/internal/repository"
)

// AdminUserHandler implements the admin dashboard's user management.
// Listing is open to moderators; role changes, password resets and
// permission edits are admin-only and every mutation is audited.
type AdminUserHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions *repository.SessionRepo
	Auditor  *audit.Auditor
}

func NewAdminUserHandler(cfg config.Config, u *repository.UserRepo, s *repository.SessionRepo, a *audit.Auditor) *AdminUserHandler {
	return &AdminUserHandler{Cfg: cfg, Users: u, Sessions: s, Auditor: a}
}

type patchUserReq struct {
	Role     *model.Role `json:"role"`
	IsActive *bool       `json:"is_active"`
}

type resetPasswordReq struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type patchPermissionsReq struct {
	UserID      uint64   `json:"user_id" validate:"required"`
	Permissions []string `json:"permissions" validate:"required"`
}

// actorUser builds the minimal user the auditor needs from the resolved
// identity, saving a second lookup on every privileged mutation.
func actorUser(c echo.Context) model.User {
	id, _ := middleware.IdentityFrom(c)
	return model.User{ID: id.UserID, Email: id.Email, Name: id.Name, Role: id.Role}
}

// pathUserID parses the :id route parameter.
func pathUserID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// List returns a page of users.  Accessible to moderators and admins.
func (h *AdminUserHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, total, err := h.Users.List(ctx, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, newUserResponse(u))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"users":      out,
		"pagination": newPagination(page, limit, total),
	})
}

// Patch updates a user's role and/or active flag.  Role changes are
// restricted to admin actors; deactivation also kills the target's live
// sessions.  An UPDATE_USER audit entry is appended after the mutation
// commits.
func (h *AdminUserHandler) Patch(c echo.Context) error {
	actor := actorUser(c)

	targetID, err := pathUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req patchUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Role == nil && req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
		}
		// The route admits moderators for the is_active toggle; changing
		// roles stays admin-only.
		if actor.Role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only admins may change roles"})
		}
	}
	if targetID == actor.ID && req.IsActive != nil && !*req.IsActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot deactivate your own account"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	before, err := h.Users.GetByID(ctx, targetID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	if err := h.Users.UpdateRoleActive(ctx, targetID, req.Role, req.IsActive); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if req.IsActive != nil && !*req.IsActive {
		// Deactivation revokes every live session immediately.
		_ = h.Sessions.DeleteAllForUser(ctx, targetID)
	}

	u, err := h.Users.GetByID(ctx, targetID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	meta := map[string]any{}
	if req.Role != nil {
		meta["role_before"] = before.Role
		meta["role_after"] = u.Role
	}
	if req.IsActive != nil {
		meta["is_active_before"] = before.IsActive
		meta["is_active_after"] = u.IsActive
	}
	h.Auditor.Record(ctx, actor, model.ActionUpdateUser, &targetID,
		fmt.Sprintf("updated user %s", u.Email), meta,
		c.RealIP(), c.Request().UserAgent())

	return c.JSON(http.StatusOK, echo.Map{"user": newUserResponse(u)})
}

// ResetPassword sets a new password for the target user.  Admin only;
// audited as CHANGE_PASSWORD.  The new password is never written to the
// audit trail.
func (h *AdminUserHandler) ResetPassword(c echo.Context) error {
	actor := actorUser(c)

	targetID, err := pathUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	target, err := h.Users.GetByID(ctx, targetID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err := h.Users.SetPassword(ctx, targetID, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	h.Auditor.Record(ctx, actor, model.ActionChangePassword, &targetID,
		fmt.Sprintf("reset password for %s", target.Email), nil,
		c.RealIP(), c.Request().UserAgent())

	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

// PatchPermissions replaces a user's permission override set.  Admin
// only; audited as UPDATE_PERMISSIONS.
func (h *AdminUserHandler) PatchPermissions(c echo.Context) error {
	actor := actorUser(c)

	var req patchPermissionsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	for _, p := range req.Permissions {
		if !auth.ValidPermission(p) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("unknown permission %q", p)})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	target, err := h.Users.GetByID(ctx, req.UserID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err := h.Users.UpdatePermissions(ctx, req.UserID, req.Permissions); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	h.Auditor.Record(ctx, actor, model.ActionUpdatePermissions, &req.UserID,
		fmt.Sprintf("updated permissions for %s", target.Email),
		map[string]any{"permissions": req.Permissions},
		c.RealIP(), c.Request().UserAgent())

	u, err := h.Users.GetByID(ctx, req.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": newUserResponse(u)})
}
