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
	"github.com/cinehub/cinehub/internal/model"
	"github.com/cinehub/cinehub/internal/repository"
)

// AdminAvatarHandler manages the avatar catalog.  Routes sit behind the
// manage_content permission so moderators can curate avatars without
// full admin rights.
type AdminAvatarHandler struct {
	Avatars *repository.AvatarRepo
	Auditor *audit.Auditor
}

func NewAdminAvatarHandler(a *repository.AvatarRepo, aud *audit.Auditor) *AdminAvatarHandler {
	return &AdminAvatarHandler{Avatars: a, Auditor: aud}
}

type avatarReq struct {
	Name     string `json:"name" validate:"required,max=100"`
	URL      string `json:"url" validate:"required,url"`
	Category string `json:"category" validate:"max=50"`
	IsActive *bool  `json:"is_active"`
}

// adminAvatarResponse includes the active flag hidden from the picker.
type adminAvatarResponse struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Category  string    `json:"category"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func newAdminAvatarResponse(a model.Avatar) adminAvatarResponse {
	return adminAvatarResponse{ID: a.ID, Name: a.Name, URL: a.URL, Category: a.Category, IsActive: a.IsActive, CreatedAt: a.CreatedAt}
}

// List returns every avatar including inactive ones.
func (h *AdminAvatarHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	avatars, err := h.Avatars.List(ctx, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]adminAvatarResponse, 0, len(avatars))
	for _, a := range avatars {
		out = append(out, newAdminAvatarResponse(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Create adds a new avatar record.
func (h *AdminAvatarHandler) Create(c echo.Context) error {
	var req avatarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Avatars.Create(ctx, model.Avatar{Name: req.Name, URL: req.URL, Category: req.Category, IsActive: active})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	a, err := h.Avatars.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load avatar failed"})
	}

	h.Auditor.Record(ctx, actorUser(c), model.ActionCreateAvatar, nil,
		fmt.Sprintf("created avatar %q", a.Name), map[string]any{"avatar_id": a.ID},
		c.RealIP(), c.Request().UserAgent())

	return c.JSON(http.StatusCreated, echo.Map{"avatar": newAdminAvatarResponse(a)})
}

// Update rewrites an avatar record.
func (h *AdminAvatarHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req avatarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	current, err := h.Avatars.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "avatar not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	active := current.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}
	a := model.Avatar{ID: id, Name: req.Name, URL: req.URL, Category: req.Category, IsActive: active}
	if err := h.Avatars.Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "avatar not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	h.Auditor.Record(ctx, actorUser(c), model.ActionUpdateAvatar, nil,
		fmt.Sprintf("updated avatar %q", a.Name), map[string]any{"avatar_id": a.ID},
		c.RealIP(), c.Request().UserAgent())

	a.CreatedAt = current.CreatedAt
	return c.JSON(http.StatusOK, echo.Map{"avatar": newAdminAvatarResponse(a)})
}

// Delete removes an avatar.
func (h *AdminAvatarHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Avatars.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "avatar not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Avatars.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "avatar not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	h.Auditor.Record(ctx, actorUser(c), model.ActionDeleteAvatar, nil,
		fmt.Sprintf("deleted avatar %q", a.Name), map[string]any{"avatar_id": id},
		c.RealIP(), c.Request().UserAgent())

	return c.NoContent(http.StatusNoContent)
}
