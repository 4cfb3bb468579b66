package repository

import (
	"context"

	"artsy/internal/models"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	const q = `SELECT id, name, email, role, is_banned, created_at FROM users WHERE id = $1`
	var u models.User
	if err := r.db.QueryRow(ctx, q, id).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.IsBanned, &u.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}
