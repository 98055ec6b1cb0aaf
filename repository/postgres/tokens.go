package postgres

import (
	"context"
	"time"

	"github.com/emzola/bookswap/data"
)

// CreateToken generates a token for a user and persists its hash.
func (r *Repository) CreateToken(userID string, ttl time.Duration, scope string) (*data.Token, error) {
	token, err := data.GenerateToken(userID, ttl, scope)
	if err != nil {
		return nil, err
	}
	query := `
		INSERT INTO tokens (hash, user_id, expiry, scope)
		VALUES ($1, $2, $3, $4)`
	args := []interface{}{token.Hash, token.UserID, token.Expiry, token.Scope}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return token, nil
}

// DeleteAllTokensForUser deletes every token for a user in a scope.
func (r *Repository) DeleteAllTokensForUser(scope, userID string) error {
	query := `
		DELETE FROM tokens
		WHERE scope = $1 AND user_id = $2`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	_, err := r.db.ExecContext(ctx, query, scope, userID)
	return err
}
