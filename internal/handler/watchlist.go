package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinehub/cinehub/internal/middleware"
	"github.com/cinehub/cinehub/internal/model"
	"github.com/cinehub/cinehub/internal/repository"
)

// WatchlistHandler serves the authenticated user's watchlist.
type WatchlistHandler struct {
	Watchlist *repository.WatchlistRepo
}

func NewWatchlistHandler(w *repository.WatchlistRepo) *WatchlistHandler {
	return &WatchlistHandler{Watchlist: w}
}

type addWatchlistReq struct {
	MediaID    uint64 `json:"media_id" validate:"required"`
	MediaType  string `json:"media_type" validate:"required"`
	Title      string `json:"title" validate:"required,max=255"`
	PosterPath string `json:"poster_path" validate:"max=255"`
}

type watchlistItemResponse struct {
	ID         uint64    `json:"id"`
	MediaID    uint64    `json:"media_id"`
	MediaType  string    `json:"media_type"`
	Title      string    `json:"title"`
	PosterPath string    `json:"poster_path,omitempty"`
	AddedAt    time.Time `json:"added_at"`
}

// List returns the caller's watchlist newest-first.
func (h *WatchlistHandler) List(c echo.Context) error {
	id, _ := middleware.IdentityFrom(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Watchlist.List(ctx, id.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]watchlistItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, watchlistItemResponse{
			ID: it.ID, MediaID: it.MediaID, MediaType: it.MediaType,
			Title: it.Title, PosterPath: it.PosterPath, AddedAt: it.AddedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Add upserts a watchlist membership.  Adding the same title twice keeps
// a single row, so the endpoint is idempotent.
func (h *WatchlistHandler) Add(c echo.Context) error {
	id, _ := middleware.IdentityFrom(c)

	var req addWatchlistReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !model.ValidMediaType(req.MediaType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "media_type must be movie or tv"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err := h.Watchlist.Add(ctx, model.WatchlistItem{
		UserID:     id.UserID,
		MediaID:    req.MediaID,
		MediaType:  req.MediaType,
		Title:      req.Title,
		PosterPath: req.PosterPath,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "added"})
}

// Remove deletes one membership row addressed by media type and id.
func (h *WatchlistHandler) Remove(c echo.Context) error {
	id, _ := middleware.IdentityFrom(c)

	mediaType := c.Param("type")
	if !model.ValidMediaType(mediaType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "media_type must be movie or tv"})
	}
	mediaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Watchlist.Remove(ctx, id.UserID, mediaID, mediaType); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not in watchlist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
