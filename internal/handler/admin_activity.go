package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinehub/cinehub/internal/model"
	"github.com/cinehub/cinehub/internal/repository"
)

// ActivityLogHandler serves the admin activity-log listing.
type ActivityLogHandler struct {
	Logs *repository.ActivityRepo
}

func NewActivityLogHandler(logs *repository.ActivityRepo) *ActivityLogHandler {
	return &ActivityLogHandler{Logs: logs}
}

// activityLogResponse flattens an audit entry for the dashboard table.
type activityLogResponse struct {
	ID          uint64         `json:"id"`
	ActorID     uint64         `json:"actor_id"`
	ActorEmail  string         `json:"actor_email"`
	ActorName   string         `json:"actor_name"`
	Action      string         `json:"action"`
	TargetID    *uint64        `json:"target_id,omitempty"`
	TargetEmail string         `json:"target_email,omitempty"`
	TargetName  string         `json:"target_name,omitempty"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	IP          string         `json:"ip"`
	UserAgent   string         `json:"user_agent"`
	CreatedAt   time.Time      `json:"created_at"`
}

func newActivityLogResponse(e model.ActivityLogEntry) activityLogResponse {
	return activityLogResponse{
		ID:          e.ID,
		ActorID:     e.ActorID,
		ActorEmail:  e.ActorEmail,
		ActorName:   e.ActorName,
		Action:      e.Action,
		TargetID:    e.TargetID,
		TargetEmail: e.TargetEmail,
		TargetName:  e.TargetName,
		Description: e.Description,
		Metadata:    e.Metadata,
		IP:          e.IP,
		UserAgent:   e.UserAgent,
		CreatedAt:   e.CreatedAt,
	}
}

// List returns one page of audit records newest-first.  Supported query
// parameters: page, limit, search (substring over actor/target name,
// email and description), action, startDate and endDate (RFC3339 or
// YYYY-MM-DD; endDate without a time component covers the whole day).
func (h *ActivityLogHandler) List(c echo.Context) error {
	f := repository.ActivityFilter{
		Search: c.QueryParam("search"),
		Action: c.QueryParam("action"),
	}
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))
	f.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	if s := c.QueryParam("startDate"); s != "" {
		t, err := parseDateParam(s, false)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid startDate"})
		}
		f.Start = &t
	}
	if s := c.QueryParam("endDate"); s != "" {
		t, err := parseDateParam(s, true)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid endDate"})
		}
		f.End = &t
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, total, err := h.Logs.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]activityLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, newActivityLogResponse(e))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"logs":       out,
		"pagination": newPagination(f.Page, f.Limit, total),
	})
}

// parseDateParam accepts RFC3339 timestamps or bare dates.  A bare end
// date is pushed to the end of that day so the range is inclusive.
func parseDateParam(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t.UTC(), nil
}
