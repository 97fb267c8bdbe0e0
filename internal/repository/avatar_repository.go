package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinehub/cinehub/internal/model"
)

// AvatarRepo persists admin-managed avatar records.
type AvatarRepo struct{ DB *sql.DB }

func NewAvatarRepo(db *sql.DB) *AvatarRepo { return &AvatarRepo{DB: db} }

// Create inserts an avatar and returns its ID.
func (r *AvatarRepo) Create(ctx context.Context, a model.Avatar) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO avatars (name, url, category, is_active) VALUES (?,?,?,?)",
		a.Name, a.URL, a.Category, a.IsActive)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches one avatar.
func (r *AvatarRepo) GetByID(ctx context.Context, id uint64) (model.Avatar, error) {
	var a model.Avatar
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, url, category, is_active, created_at FROM avatars WHERE id=? LIMIT 1",
		id).Scan(&a.ID, &a.Name, &a.URL, &a.Category, &a.IsActive, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Avatar{}, ErrNotFound
	}
	return a, err
}

// List returns avatars, optionally restricted to active ones (the user
// picker hides inactive entries; the admin view sees everything).
func (r *AvatarRepo) List(ctx context.Context, activeOnly bool) ([]model.Avatar, error) {
	q := "SELECT id, name, url, category, is_active, created_at FROM avatars"
	if activeOnly {
		q += " WHERE is_active=1"
	}
	q += " ORDER BY category, name"
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Avatar{}
	for rows.Next() {
		var a model.Avatar
		if err := rows.Scan(&a.ID, &a.Name, &a.URL, &a.Category, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update rewrites an avatar record.
func (r *AvatarRepo) Update(ctx context.Context, a model.Avatar) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE avatars SET name=?, url=?, category=?, is_active=? WHERE id=?",
		a.Name, a.URL, a.Category, a.IsActive, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an avatar.  Users referencing it keep the dangling id;
// the picker simply falls back to the default image client-side.
func (r *AvatarRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM avatars WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
