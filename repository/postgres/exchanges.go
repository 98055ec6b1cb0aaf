package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/emzola/bookswap/data"
	"github.com/emzola/bookswap/repository"
	"github.com/google/uuid"
)

// CreateExchange inserts a new exchange request record.
func (r *Repository) CreateExchange(exchange *data.Exchange) error {
	query := `
		INSERT INTO exchanges (id, requester_id, requester_name, owner_id, owner_name, requested_book_id, offered_book_id, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`
	exchange.ID = uuid.NewString()
	args := []interface{}{
		exchange.ID,
		exchange.RequesterID,
		exchange.RequesterName,
		exchange.OwnerID,
		exchange.OwnerName,
		exchange.RequestedBookID,
		exchange.OfferedBookID,
		exchange.Message,
		string(exchange.Status),
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	return r.db.QueryRowContext(ctx, query, args...).Scan(&exchange.CreatedAt)
}

func scanExchange(scanner interface{ Scan(...interface{}) error }) (*data.Exchange, error) {
	var exchange data.Exchange
	var status string
	var respondedAt sql.NullTime
	err := scanner.Scan(
		&exchange.ID,
		&exchange.RequesterID,
		&exchange.RequesterName,
		&exchange.OwnerID,
		&exchange.OwnerName,
		&exchange.RequestedBookID,
		&exchange.OfferedBookID,
		&exchange.Message,
		&status,
		&exchange.CreatedAt,
		&respondedAt,
	)
	if err != nil {
		return nil, err
	}
	exchange.Status = data.ExchangeStatus(status)
	if respondedAt.Valid {
		exchange.RespondedAt = &respondedAt.Time
	}
	return &exchange, nil
}

const exchangeColumns = `id, requester_id, requester_name, owner_id, owner_name, requested_book_id, offered_book_id, message, status, created_at, responded_at`

// GetExchange retrieves an exchange request record by its ID.
func (r *Repository) GetExchange(id string) (*data.Exchange, error) {
	query := `
		SELECT ` + exchangeColumns + `
		FROM exchanges
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	exchange, err := scanExchange(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, repository.ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return exchange, nil
}

func (r *Repository) listExchanges(query string, args ...interface{}) ([]*data.Exchange, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	exchanges := []*data.Exchange{}
	for rows.Next() {
		exchange, err := scanExchange(rows)
		if err != nil {
			return nil, err
		}
		exchanges = append(exchanges, exchange)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return exchanges, nil
}

// GetAllExchangesForOwner retrieves exchange requests addressed to a user.
func (r *Repository) GetAllExchangesForOwner(userID string) ([]*data.Exchange, error) {
	query := `
		SELECT ` + exchangeColumns + `
		FROM exchanges
		WHERE owner_id = $1
		ORDER BY created_at, id`
	return r.listExchanges(query, userID)
}

// GetAllExchangesForRequester retrieves exchange requests created by a user.
func (r *Repository) GetAllExchangesForRequester(userID string) ([]*data.Exchange, error) {
	query := `
		SELECT ` + exchangeColumns + `
		FROM exchanges
		WHERE requester_id = $1
		ORDER BY created_at, id`
	return r.listExchanges(query, userID)
}

// UpdateExchange updates an exchange request record.
func (r *Repository) UpdateExchange(exchange *data.Exchange) error {
	query := `
		UPDATE exchanges
		SET message = $1, status = $2, responded_at = $3
		WHERE id = $4`
	var respondedAt sql.NullTime
	if exchange.RespondedAt != nil {
		respondedAt = sql.NullTime{Time: *exchange.RespondedAt, Valid: true}
	}
	args := []interface{}{exchange.Message, string(exchange.Status), respondedAt, exchange.ID}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}
