package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cinehub/cinehub/internal/model"
)

func TestBuildActivityWhereEmptyFilter(t *testing.T) {
	where, args := buildActivityWhere(ActivityFilter{})
	assert.Equal(t, " WHERE 1=1", where)
	assert.Empty(t, args)
}

func TestBuildActivityWhereSearch(t *testing.T) {
	where, args := buildActivityWhere(ActivityFilter{Search: "alice"})
	assert.Contains(t, where, "a.email LIKE ?")
	assert.Contains(t, where, "t.name LIKE ?")
	assert.Contains(t, where, "l.description LIKE ?")
	// One arg per LIKE clause, all the same pattern.
	assert.Equal(t, []any{"%alice%", "%alice%", "%alice%", "%alice%", "%alice%"}, args)
}

func TestBuildActivityWhereAction(t *testing.T) {
	where, args := buildActivityWhere(ActivityFilter{Action: model.ActionUpdateUser})
	assert.Contains(t, where, "l.action = ?")
	assert.Equal(t, []any{model.ActionUpdateUser}, args)
}

func TestBuildActivityWhereDateRange(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)

	where, args := buildActivityWhere(ActivityFilter{Start: &start, End: &end})
	assert.Contains(t, where, "l.created_at >= ?")
	assert.Contains(t, where, "l.created_at <= ?")
	assert.Equal(t, []any{start, end}, args)

	// Open-ended ranges only add one bound.
	where, args = buildActivityWhere(ActivityFilter{Start: &start})
	assert.Contains(t, where, "l.created_at >= ?")
	assert.NotContains(t, where, "l.created_at <= ?")
	assert.Equal(t, []any{start}, args)
}

func TestBuildActivityWhereCombined(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	where, args := buildActivityWhere(ActivityFilter{
		Search: "bob",
		Action: model.ActionChangePassword,
		Start:  &start,
	})
	// Search args come first, then action, then range, matching the
	// order clauses are appended.
	assert.Len(t, args, 7)
	assert.Equal(t, model.ActionChangePassword, args[5])
	assert.Equal(t, start, args[6])
	assert.Contains(t, where, "AND (a.email LIKE ?")
	assert.Contains(t, where, "AND l.action = ?")
	assert.Contains(t, where, "AND l.created_at >= ?")
}
