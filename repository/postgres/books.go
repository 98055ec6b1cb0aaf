package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/emzola/bookswap/data"
	"github.com/emzola/bookswap/repository"
	"github.com/google/uuid"
)

// CreateBook inserts a new book record.
func (r *Repository) CreateBook(book *data.Book) error {
	query := `
		INSERT INTO books (id, owner_id, owner_name, title, author, genre, condition, description, cover_image_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at, version`
	book.ID = uuid.NewString()
	args := []interface{}{
		book.ID,
		book.OwnerID,
		book.OwnerName,
		book.Title,
		book.Author,
		book.Genre,
		book.Condition,
		book.Description,
		book.CoverImageURL,
		string(book.Status),
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	return r.db.QueryRowContext(ctx, query, args...).Scan(
		&book.CreatedAt,
		&book.UpdatedAt,
		&book.Version,
	)
}

func scanBook(scanner interface{ Scan(...interface{}) error }) (*data.Book, error) {
	var book data.Book
	var status string
	err := scanner.Scan(
		&book.ID,
		&book.OwnerID,
		&book.OwnerName,
		&book.Title,
		&book.Author,
		&book.Genre,
		&book.Condition,
		&book.Description,
		&book.CoverImageURL,
		&status,
		&book.CreatedAt,
		&book.UpdatedAt,
		&book.Version,
	)
	if err != nil {
		return nil, err
	}
	book.Status = data.BookStatus(status)
	return &book, nil
}

const bookColumns = `id, owner_id, owner_name, title, author, genre, condition, description, cover_image_url, status, created_at, updated_at, version`

// GetBook retrieves a book record by its ID.
func (r *Repository) GetBook(id string) (*data.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	book, err := scanBook(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, repository.ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

func (r *Repository) listBooks(query string, args ...interface{}) ([]*data.Book, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	books := []*data.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// GetAllBooks retrieves every book record.
func (r *Repository) GetAllBooks() ([]*data.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		ORDER BY created_at, id`
	return r.listBooks(query)
}

// GetAllBooksForUser retrieves every book record owned by a user.
func (r *Repository) GetAllBooksForUser(userID string) ([]*data.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE owner_id = $1
		ORDER BY created_at, id`
	return r.listBooks(query, userID)
}

// SearchBooks retrieves books whose title, author or genre contains the query,
// case-insensitively.
func (r *Repository) SearchBooks(search string) ([]*data.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE title ILIKE '%' || $1 || '%'
		OR author ILIKE '%' || $1 || '%'
		OR genre ILIKE '%' || $1 || '%'
		ORDER BY created_at, id`
	return r.listBooks(query, search)
}

// UpdateBook updates a book record.
func (r *Repository) UpdateBook(book *data.Book) error {
	query := `
		UPDATE books
		SET owner_id = $1, owner_name = $2, title = $3, author = $4, genre = $5, condition = $6, description = $7, cover_image_url = $8, status = $9, updated_at = now(), version = version + 1
		WHERE id = $10 AND version = $11
		RETURNING updated_at, version`
	args := []interface{}{
		book.OwnerID,
		book.OwnerName,
		book.Title,
		book.Author,
		book.Genre,
		book.Condition,
		book.Description,
		book.CoverImageURL,
		string(book.Status),
		book.ID,
		book.Version,
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&book.UpdatedAt, &book.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return repository.ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// DeleteBook deletes a book record along with every exchange request that
// references it, in one transaction.
func (r *Repository) DeleteBook(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, `DELETE FROM exchanges WHERE requested_book_id = $1 OR offered_book_id = $1`, id)
	if err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
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
	return tx.Commit()
}
