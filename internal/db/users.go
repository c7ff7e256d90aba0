package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrUserNotFound is returned when no user row exists for the id.
var ErrUserNotFound = errors.New("user not found")

// ContactNumber returns the phone number for a user. A user that exists
// but has no phone on file yields an empty string without error.
func (db *DB) ContactNumber(ctx context.Context, userID string) (string, error) {
	var phone string
	err := db.pool.QueryRow(ctx,
		`SELECT COALESCE(phone_number, '') FROM users WHERE id = $1`,
		userID,
	).Scan(&phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up user %s: %w", userID, err)
	}
	return phone, nil
}
