package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateUser inserts an active account and returns it.
func (db *DB) CreateUser(ctx context.Context, email, username, passwordHash string) (*User, error) {
	u := User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, username, password_hash, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		u.ID, u.Email, u.Username, u.PasswordHash, u.IsActive,
	).Scan(&u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

// GetUserByID retrieves a user by id.
func (db *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return db.getUser(ctx, "id", id)
}

// GetUserByEmail retrieves a user by email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	if email == "" {
		return nil, nil
	}
	return db.getUser(ctx, "email", email)
}

// GetUserByUsername retrieves a user by username.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, nil
	}
	return db.getUser(ctx, "username", username)
}

// getUser looks a user up by a fixed column; column is never caller input.
func (db *DB) getUser(ctx context.Context, column string, value any) (*User, error) {
	var u User
	err := db.pool.QueryRow(ctx,
		`SELECT id, email, username, password_hash, is_active, created_at FROM users WHERE `+column+` = $1`,
		value,
	).Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return &u, nil
}
