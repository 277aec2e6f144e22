package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/inkpress-dev/inkpress/internal/domain"
	internal_errors "github.com/inkpress-dev/inkpress/internal/errors"
)

// User fetches the stored credential record for a username.
func (s *Storage) User(ctx context.Context, username domain.Username) (domain.User, error) {
	return s.user(ctx, s.db, username)
}

// SaveUser inserts a new user record. Used by account provisioning tooling
// and tests; the service itself never creates users.
func (s *Storage) SaveUser(ctx context.Context, user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(ctx, tx, user)
		return err
	})
	return id, err
}

// UpdatePassword replaces a user's salt and password hash.
func (s *Storage) UpdatePassword(ctx context.Context, userId domain.UserId, passwordHash string, salt []byte) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updatePassword(ctx, tx, userId, passwordHash, salt)
	})
}

func (s *Storage) user(ctx context.Context, q Querier, username domain.Username) (domain.User, error) {
	var user domain.User
	err := q.QueryRowContext(ctx,
		"SELECT id, username, password_hash, salt FROM users WHERE username = $1",
		username,
	).Scan(&user.Id, &user.Username, &user.PasswordHash, &user.Salt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) saveUser(ctx context.Context, q Querier, user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := q.QueryRowContext(ctx,
		"INSERT INTO users(username, password_hash, salt) VALUES($1, $2, $3) RETURNING id",
		user.Username, user.PasswordHash, user.Salt,
	).Scan(&id)
	if err != nil {
		return domain.UserId{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) updatePassword(ctx context.Context, q Querier, userId domain.UserId, passwordHash string, salt []byte) error {
	result, err := q.ExecContext(ctx,
		"UPDATE users SET password_hash = $1, salt = $2 WHERE id = $3",
		passwordHash, salt, userId,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for password update: %w", err)
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "User not found for password update", StatusCode: http.StatusNotFound}
	}
	return nil
}
