package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinehub/cinehub/internal/middleware"
	"github.com/cinehub/cinehub/internal/model"
	"github.com/cinehub/cinehub/internal/repository"
)

// HistoryHandler serves the per-user stream log.  Recording a watch also
// bumps the user's usage counter.
type HistoryHandler struct {
	History *repository.HistoryRepo
	Users   *repository.UserRepo
}

func NewHistoryHandler(hist *repository.HistoryRepo, users *repository.UserRepo) *HistoryHandler {
	return &HistoryHandler{History: hist, Users: users}
}

type streamLogReq struct {
	MediaID    uint64  `json:"media_id" validate:"required"`
	MediaType  string  `json:"media_type" validate:"required"`
	Title      string  `json:"title" validate:"required,max=255"`
	PosterPath string  `json:"poster_path" validate:"max=255"`
	Season     *uint32 `json:"season"`
	Episode    *uint32 `json:"episode"`
}

type historyItemResponse struct {
	ID         uint64    `json:"id"`
	MediaID    uint64    `json:"media_id"`
	MediaType  string    `json:"media_type"`
	Title      string    `json:"title"`
	PosterPath string    `json:"poster_path,omitempty"`
	Season     *uint32   `json:"season,omitempty"`
	Episode    *uint32   `json:"episode,omitempty"`
	WatchedAt  time.Time `json:"watched_at"`
}

// List returns the caller's watch history newest-first.
func (h *HistoryHandler) List(c echo.Context) error {
	id, _ := middleware.IdentityFrom(c)
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.History.List(ctx, id.UserID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]historyItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, historyItemResponse{
			ID: it.ID, MediaID: it.MediaID, MediaType: it.MediaType,
			Title: it.Title, PosterPath: it.PosterPath,
			Season: it.Season, Episode: it.Episode, WatchedAt: it.WatchedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Record appends (or refreshes) a stream-log row.  Season/episode only
// make sense for tv entries; they are dropped for movies.
func (h *HistoryHandler) Record(c echo.Context) error {
	id, _ := middleware.IdentityFrom(c)

	var req streamLogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !model.ValidMediaType(req.MediaType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "media_type must be movie or tv"})
	}
	if req.MediaType == model.MediaMovie {
		req.Season, req.Episode = nil, nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err := h.History.Record(ctx, model.HistoryItem{
		UserID:     id.UserID,
		MediaID:    req.MediaID,
		MediaType:  req.MediaType,
		Title:      req.Title,
		PosterPath: req.PosterPath,
		Season:     req.Season,
		Episode:    req.Episode,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	_ = h.Users.IncrementWatchCount(ctx, id.UserID)

	return c.JSON(http.StatusOK, echo.Map{"message": "recorded"})
}
