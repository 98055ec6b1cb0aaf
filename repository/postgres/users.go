package postgres

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"time"

	"github.com/emzola/bookswap/data"
	"github.com/emzola/bookswap/repository"
	"github.com/google/uuid"
)

// CreateUser inserts a new user record.
func (r *Repository) CreateUser(user *data.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, version`
	user.ID = uuid.NewString()
	args := []interface{}{user.ID, user.Name, user.Email, user.Password.Hash}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.CreatedAt,
		&user.Version,
	)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "users_email_key"`:
			return repository.ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

func (r *Repository) getUser(where string, arg interface{}) (*data.User, error) {
	query := `
		SELECT id, created_at, name, email, password_hash, version
		FROM users
		WHERE ` + where
	var user data.User
	var hash []byte
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Name,
		&user.Email,
		&hash,
		&user.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, repository.ErrRecordNotFound
		default:
			return nil, err
		}
	}
	user.Password.SetHash(hash)
	return &user, nil
}

// GetUserByID retrieves a user record by its ID.
func (r *Repository) GetUserByID(id string) (*data.User, error) {
	return r.getUser("id = $1", id)
}

// GetUserByEmail retrieves a user record by its email.
func (r *Repository) GetUserByEmail(email string) (*data.User, error) {
	return r.getUser("email = $1", email)
}

// UpdateUser updates a user record.
func (r *Repository) UpdateUser(user *data.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, password_hash = $3, version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version`
	args := []interface{}{
		user.Name,
		user.Email,
		user.Password.Hash,
		user.ID,
		user.Version,
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&user.Version)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "users_email_key"`:
			return repository.ErrDuplicateRecord
		case errors.Is(err, sql.ErrNoRows):
			return repository.ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// GetUserForToken returns the user associated with an unexpired token in the
// given scope.
func (r *Repository) GetUserForToken(scope, tokenPlaintext string) (*data.User, error) {
	tokenHash := sha256.Sum256([]byte(tokenPlaintext))
	query := `
		SELECT users.id, users.created_at, users.name, users.email, users.password_hash, users.version
		FROM users
		INNER JOIN tokens
		ON users.id = tokens.user_id
		WHERE tokens.hash = $1
		AND tokens.scope = $2
		AND tokens.expiry > $3`
	args := []interface{}{tokenHash[:], scope, time.Now()}
	var user data.User
	var hash []byte
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Name,
		&user.Email,
		&hash,
		&user.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, repository.ErrRecordNotFound
		default:
			return nil, err
		}
	}
	user.Password.SetHash(hash)
	return &user, nil
}
