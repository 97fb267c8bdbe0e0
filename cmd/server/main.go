package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cinehub/cinehub/internal/audit"
	"github.com/cinehub/cinehub/internal/auth"
	"github.com/cinehub/cinehub/internal/config"
	"github.com/cinehub/cinehub/internal/database"
	"github.com/cinehub/cinehub/internal/handler"
	"github.com/cinehub/cinehub/internal/logger"
	"github.com/cinehub/cinehub/internal/middleware"
	"github.com/cinehub/cinehub/internal/queue"
	"github.com/cinehub/cinehub/internal/repository"
	"github.com/cinehub/cinehub/internal/router"
	queue_publisher "github.com/cinehub/cinehub/internal/service"
	"github.com/cinehub/cinehub/internal/tmdb"
)

func main() {
	_ = godotenv.Load() // Load .env if present; real env vars win

	cfg := config.Load() // Load environment config

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zl.Sugar().Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // Redis backs rate limiting and response caching

	// Repositories over the canonical MySQL store.
	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	activity := repository.NewActivityRepo(db)
	watchlist := repository.NewWatchlistRepo(db)
	history := repository.NewHistoryRepo(db)
	avatars := repository.NewAvatarRepo(db)

	// Authentication core: credential checks, session issuing, the role gate.
	verifier := &auth.Verifier{Users: users, Providers: auth.NewHTTPProviderVerifier()}
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTLDays, sessions)
	gate := &auth.Gate{Secret: cfg.JWTSecret, Sessions: sessions, Users: users}

	auditor := audit.New(activity, queue_publisher.PublishActivityRecorded, zl)

	catalog := tmdb.New(cfg.TMDBBaseURL, cfg.TMDBAPIKey, zl)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	authH := handler.NewAuthHandler(cfg, users, verifier, issuer)
	profileH := handler.NewProfileHandler(cfg, users, avatars)
	watchH := handler.NewWatchlistHandler(watchlist)
	historyH := handler.NewHistoryHandler(history, users)
	catalogH := handler.NewCatalogHandler(catalog)
	adminUsersH := handler.NewAdminUserHandler(cfg, users, sessions, auditor)
	activityH := handler.NewActivityLogHandler(activity)
	avatarsH := handler.NewAdminAvatarHandler(avatars, auditor)

	router.RegisterRoutes(e) // Health check
	router.RegisterAuth(e, authH, gate, limiter)
	router.RegisterUser(e, profileH, watchH, historyH, gate)
	router.RegisterCatalog(e, catalogH, cache)
	router.RegisterAdmin(e, adminUsersH, activityH, avatarsH, gate)

	// Consume activity events in the background.  The consumer reconnects
	// on its own; a hard failure here must not take the API down.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			zl.Sugar().Warnf("activity consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	zl.Sugar().Infof("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil { // Start HTTP server
		zl.Sugar().Fatal(err)
	}
}
