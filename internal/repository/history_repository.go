package repository

import (
	"context"
	"database/sql"

	"github.com/cinehub/cinehub/internal/model"
)

// HistoryRepo persists the per-user stream log (watch history).
type HistoryRepo struct{ DB *sql.DB }

func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{DB: db} }

// Record upserts a history row.  Re-watching a title moves it to the top
// by refreshing watched_at and episode progress rather than inserting a
// second row.
func (r *HistoryRepo) Record(ctx context.Context, it model.HistoryItem) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO history_items (user_id, media_id, media_type, title, poster_path, season, episode)
		 VALUES (?,?,?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE title=VALUES(title), poster_path=VALUES(poster_path),
		   season=VALUES(season), episode=VALUES(episode), watched_at=NOW()`,
		it.UserID, it.MediaID, it.MediaType, it.Title, it.PosterPath, it.Season, it.Episode)
	return err
}

// List returns the user's watch history newest-first, capped at limit.
func (r *HistoryRepo) List(ctx context.Context, userID uint64, limit int) ([]model.HistoryItem, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, media_id, media_type, title, poster_path, season, episode, watched_at FROM history_items WHERE user_id=? ORDER BY watched_at DESC, id DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.HistoryItem{}
	for rows.Next() {
		var (
			it      model.HistoryItem
			season  sql.NullInt32
			episode sql.NullInt32
		)
		if err := rows.Scan(&it.ID, &it.UserID, &it.MediaID, &it.MediaType, &it.Title, &it.PosterPath, &season, &episode, &it.WatchedAt); err != nil {
			return nil, err
		}
		if season.Valid {
			v := uint32(season.Int32)
			it.Season = &v
		}
		if episode.Valid {
			v := uint32(episode.Int32)
			it.Episode = &v
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
