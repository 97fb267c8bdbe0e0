package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/cinehub/cinehub/internal/model"
)

// ActivityRepo appends and lists rows of the append-only 'activity_logs'
// table.  There is deliberately no update or delete method.
type ActivityRepo struct{ DB *sql.DB }

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{DB: db} }

// Insert appends one audit record.  Metadata is stored as JSON.
func (r *ActivityRepo) Insert(ctx context.Context, e model.ActivityLogEntry) error {
	var meta any
	if e.Metadata != nil {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return err
		}
		meta = string(b)
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO activity_logs (actor_id, action, target_id, description, metadata_json, ip, user_agent) VALUES (?,?,?,?,?,?,?)",
		e.ActorID, e.Action, e.TargetID, e.Description, meta, e.IP, e.UserAgent)
	return err
}

// ActivityFilter narrows the admin activity-log listing.  Zero values
// leave the corresponding dimension unfiltered.
type ActivityFilter struct {
	Search string     // substring over actor/target name+email and description
	Action string     // exact action match
	Start  *time.Time // created_at >= Start
	End    *time.Time // created_at <= End
	Page   int
	Limit  int
}

// buildActivityWhere turns a filter into a WHERE fragment and its args.
// The actor and target joins are aliased a and t in the SELECT below.
func buildActivityWhere(f ActivityFilter) (string, []any) {
	where := " WHERE 1=1"
	args := []any{}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		where += " AND (a.email LIKE ? OR a.name LIKE ? OR t.email LIKE ? OR t.name LIKE ? OR l.description LIKE ?)"
		args = append(args, like, like, like, like, like)
	}
	if f.Action != "" {
		where += " AND l.action = ?"
		args = append(args, f.Action)
	}
	if f.Start != nil {
		where += " AND l.created_at >= ?"
		args = append(args, *f.Start)
	}
	if f.End != nil {
		where += " AND l.created_at <= ?"
		args = append(args, *f.End)
	}
	return where, args
}

// List returns one page of audit records newest-first plus the total
// count matching the filter, for the UI's pagination controls.
func (r *ActivityRepo) List(ctx context.Context, f ActivityFilter) ([]model.ActivityLogEntry, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	where, args := buildActivityWhere(f)

	from := " FROM activity_logs l JOIN users a ON a.id = l.actor_id LEFT JOIN users t ON t.id = l.target_id"

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*)"+from+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT l.id, l.actor_id, l.action, l.target_id, l.description, l.metadata_json, l.ip, l.user_agent, l.created_at, a.email, a.name, t.email, t.name" +
		from + where + " ORDER BY l.created_at DESC, l.id DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []model.ActivityLogEntry{}
	for rows.Next() {
		var (
			e          model.ActivityLogEntry
			targetID   sql.NullInt64
			metaJSON   sql.NullString
			targetMail sql.NullString
			targetName sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &targetID, &e.Description,
			&metaJSON, &e.IP, &e.UserAgent, &e.CreatedAt,
			&e.ActorEmail, &e.ActorName, &targetMail, &targetName); err != nil {
			return nil, 0, err
		}
		if targetID.Valid {
			v := uint64(targetID.Int64)
			e.TargetID = &v
		}
		if metaJSON.Valid && metaJSON.String != "" {
			meta := map[string]any{}
			if err := json.Unmarshal([]byte(metaJSON.String), &meta); err == nil {
				e.Metadata = meta
			}
		}
		e.TargetEmail = targetMail.String
		e.TargetName = targetName.String
		out = append(out, e)
	}
	return out, total, rows.Err()
}
