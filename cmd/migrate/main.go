package main // One-time import of legacy MongoDB documents into MySQL.

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cinehub/cinehub/internal/database"
	"github.com/cinehub/cinehub/internal/model"
)

// legacyUser mirrors the document shape of the old Mongo user store.  The
// watchlist was embedded in the user document, so it rides along here.
type legacyUser struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Email         string             `bson:"email"`
	Name          string             `bson:"name"`
	Password      string             `bson:"password"`
	Role          string             `bson:"role"`
	IsActive      *bool              `bson:"isActive"`
	EmailVerified bool               `bson:"emailVerified"`
	Provider      string             `bson:"provider"`
	ProviderID    string             `bson:"providerId"`
	WatchCount    uint32             `bson:"watchCount"`
	CreatedAt     time.Time          `bson:"createdAt"`
	LastLogin     *time.Time         `bson:"lastLogin"`
	Watchlist     []legacyWatchItem  `bson:"watchlist"`
}

type legacyWatchItem struct {
	MediaType  string    `bson:"mediaType"`
	MediaID    uint64    `bson:"mediaId"`
	Title      string    `bson:"title"`
	PosterPath string    `bson:"posterPath"`
	AddedAt    time.Time `bson:"addedAt"`
}

func main() {
	_ = godotenv.Load()

	db, err := database.Open(must("DB_USER"), os.Getenv("DB_PASS"), must("DB_HOST"), must("DB_PORT"), must("DB_NAME"))
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(must("MONGO_URI")))
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}
	defer cli.Disconnect(context.Background()) //nolint:errcheck

	users := cli.Database(must("MONGO_DB")).Collection("users")
	cur, err := users.Find(ctx, bson.M{})
	if err != nil {
		log.Fatalf("mongo find: %v", err)
	}
	defer cur.Close(ctx)

	var migrated, skipped, items int
	for cur.Next(ctx) {
		var lu legacyUser
		if err := cur.Decode(&lu); err != nil {
			log.Printf("decode: %v (skipping)", err)
			skipped++
			continue
		}
		n, err := importUser(ctx, db, lu)
		if err != nil {
			log.Printf("import %s: %v (skipping)", lu.Email, err)
			skipped++
			continue
		}
		migrated++
		items += n
	}
	if err := cur.Err(); err != nil {
		log.Fatalf("mongo cursor: %v", err)
	}
	log.Printf("done: %d users migrated, %d skipped, %d watchlist items", migrated, skipped, items)
}

// importUser upserts one legacy user and its watchlist into MySQL.  Rerunning
// the tool is safe: users are keyed by email and watchlist rows by
// (user_id, media_type, media_id).
func importUser(ctx context.Context, db *sql.DB, lu legacyUser) (int, error) {
	email := strings.ToLower(strings.TrimSpace(lu.Email))
	if email == "" {
		return 0, nil
	}
	role := model.Role(strings.ToLower(lu.Role))
	if !role.Valid() {
		role = model.RoleUser
	}
	active := true
	if lu.IsActive != nil {
		active = *lu.IsActive
	}
	provider := lu.Provider
	if provider == "" {
		provider = model.ProviderLocal
	}
	createdAt := lu.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO users (email, name, password_hash, role, is_active, email_verified, provider, provider_id, watch_count, last_login_at, created_at, updated_at)
		VALUES (?, ?, NULLIF(?, ''), ?, ?, ?, ?, NULLIF(?, ''), ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name), role = VALUES(role), is_active = VALUES(is_active),
			watch_count = VALUES(watch_count), updated_at = VALUES(updated_at)`,
		email, lu.Name, lu.Password, string(role), active, lu.EmailVerified,
		provider, lu.ProviderID, lu.WatchCount, lu.LastLogin, createdAt, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	var userID uint64
	if err := db.QueryRowContext(ctx, `SELECT id FROM users WHERE email = ?`, email).Scan(&userID); err != nil {
		return 0, err
	}

	n := 0
	for _, it := range lu.Watchlist {
		if !model.ValidMediaType(it.MediaType) {
			continue
		}
		addedAt := it.AddedAt
		if addedAt.IsZero() {
			addedAt = createdAt
		}
		_, err := db.ExecContext(ctx, `
			INSERT INTO watchlist_items (user_id, media_type, media_id, title, poster_path, added_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE title = VALUES(title), poster_path = VALUES(poster_path)`,
			userID, it.MediaType, it.MediaID, it.Title, it.PosterPath, addedAt)
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
