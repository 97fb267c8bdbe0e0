package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cinehub/cinehub/internal/auth"
	"github.com/cinehub/cinehub/internal/handler"
	"github.com/cinehub/cinehub/internal/middleware"
)

// RegisterUser registers the endpoints any authenticated account may
// call: profile, avatar picker, watchlist and the stream log.  All routes
// require a valid session; no role beyond that.
func RegisterUser(e *echo.Echo, p *handler.ProfileHandler, w *handler.WatchlistHandler, hist *handler.HistoryHandler, gate *auth.Gate) {
	g := e.Group("/v1", middleware.SessionAuth(gate))

	// ---- Profile ----
	g.GET("/profile", p.Get)
	g.PUT("/profile", p.Update)
	g.GET("/profile/avatars", p.ListAvatars)
	g.PUT("/profile/avatar", p.SetAvatar)

	// ---- Watchlist ----
	g.GET("/watchlist", w.List)
	g.POST("/watchlist", w.Add)
	g.DELETE("/watchlist/:type/:id", w.Remove)

	// ---- Stream log ----
	g.GET("/stream-log", hist.List)
	g.POST("/stream-log", hist.Record)
}
