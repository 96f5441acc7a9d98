package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

func (p *SQLProvider) CreateUser(ctx context.Context, user User) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)`,
		user.Name, user.Email, user.PasswordHash)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return res.LastInsertId()
}

func (p *SQLProvider) GetUser(ctx context.Context, id int64) (*User, error) {
	var user User
	err := p.db.GetContext(ctx, &user,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

func (p *SQLProvider) GetUserByName(ctx context.Context, name string) (*User, error) {
	var user User
	err := p.db.GetContext(ctx, &user,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", name, err)
	}
	return &user, nil
}
