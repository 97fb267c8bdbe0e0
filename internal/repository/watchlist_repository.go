package repository

import (
	"context"
	"database/sql"

	"github.com/cinehub/cinehub/internal/model"
)

// WatchlistRepo persists per-user watchlist membership rows.
type WatchlistRepo struct{ DB *sql.DB }

func NewWatchlistRepo(db *sql.DB) *WatchlistRepo { return &WatchlistRepo{DB: db} }

// Add upserts a membership row.  (user_id, media_id, media_type) is
// unique, so calling Add twice refreshes title/poster instead of creating
// a duplicate.
func (r *WatchlistRepo) Add(ctx context.Context, it model.WatchlistItem) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO watchlist_items (user_id, media_id, media_type, title, poster_path)
		 VALUES (?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE title=VALUES(title), poster_path=VALUES(poster_path)`,
		it.UserID, it.MediaID, it.MediaType, it.Title, it.PosterPath)
	return err
}

// List returns the user's watchlist newest-first.
func (r *WatchlistRepo) List(ctx context.Context, userID uint64) ([]model.WatchlistItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, media_id, media_type, title, poster_path, added_at FROM watchlist_items WHERE user_id=? ORDER BY added_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.WatchlistItem{}
	for rows.Next() {
		var it model.WatchlistItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.MediaID, &it.MediaType, &it.Title, &it.PosterPath, &it.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Remove deletes a membership row.  Returns ErrNotFound when the user had
// no such item.
func (r *WatchlistRepo) Remove(ctx context.Context, userID, mediaID uint64, mediaType string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM watchlist_items WHERE user_id=? AND media_id=? AND media_type=?",
		userID, mediaID, mediaType)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
