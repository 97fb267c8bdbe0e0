package model

import "time"

// Media types accepted by the watchlist and stream-log endpoints.
const (
	MediaMovie = "movie"
	MediaTV    = "tv"
)

// ValidMediaType reports whether t is a known media type.
func ValidMediaType(t string) bool { return t == MediaMovie || t == MediaTV }

// WatchlistItem is a per-user membership row in `watchlist_items`.
// (user_id, media_id, media_type) is unique; adds are upserts so repeated
// calls never duplicate a row.
type WatchlistItem struct {
	ID         uint64
	UserID     uint64
	MediaID    uint64
	MediaType  string
	Title      string
	PosterPath string
	AddedAt    time.Time
}

// HistoryItem is a stream-log row in `history_items`, recorded each time a
// user watches a title.  Season/Episode are nil for movies.
type HistoryItem struct {
	ID         uint64
	UserID     uint64
	MediaID    uint64
	MediaType  string
	Title      string
	PosterPath string
	Season     *uint32
	Episode    *uint32
	WatchedAt  time.Time
}

// Avatar is a profile image managed by administrators and selectable by
// users.  Inactive avatars stay referenced by users but are hidden from
// the picker.
type Avatar struct {
	ID        uint64
	Name      string
	URL       string
	Category  string
	IsActive  bool
	CreatedAt time.Time
}
