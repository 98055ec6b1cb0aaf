package service

import (
	"errors"
	"net/http"

	"github.com/emzola/bookswap/data"
	"github.com/emzola/bookswap/data/dto"
	"github.com/emzola/bookswap/internal/validator"
	"github.com/emzola/bookswap/repository"
)

type books interface {
	CreateBook(owner *data.User, requestBody dto.CreateBookRequestBody) (*data.Book, error)
	GetBook(bookID string) (*data.Book, error)
	ListBooks() ([]*data.Book, error)
	ListUserBooks(userID string) ([]*data.Book, error)
	SearchBooks(query string) ([]*data.Book, error)
	UpdateBook(bookID string, userID string, requestBody dto.UpdateBookRequestBody) (*data.Book, error)
	UpdateBookCover(bookID string, userID string, r *http.Request) (*data.Book, error)
	DeleteBook(bookID string, userID string) error
}

// CreateBook service creates a new book listing owned by the given user. New
// listings always start out available.
func (s *service) CreateBook(owner *data.User, requestBody dto.CreateBookRequestBody) (*data.Book, error) {
	book := &data.Book{
		OwnerID:       owner.ID,
		OwnerName:     owner.Name,
		Title:         requestBody.Title,
		Author:        requestBody.Author,
		Genre:         requestBody.Genre,
		Condition:     requestBody.Condition,
		Description:   requestBody.Description,
		CoverImageURL: requestBody.CoverImageURL,
		Status:        data.BookStatusAvailable,
	}
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err := s.repo.CreateBook(book)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// GetBook service retrieves the details of a book.
func (s *service) GetBook(bookID string) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// ListBooks service retrieves every book listing.
func (s *service) ListBooks() ([]*data.Book, error) {
	return s.repo.GetAllBooks()
}

// ListUserBooks service retrieves the book listings owned by a user.
func (s *service) ListUserBooks(userID string) ([]*data.Book, error) {
	return s.repo.GetAllBooksForUser(userID)
}

// SearchBooks service retrieves books matching a case-insensitive substring
// query on title, author or genre.
func (s *service) SearchBooks(query string) ([]*data.Book, error) {
	return s.repo.SearchBooks(query)
}

// UpdateBook service applies a partial update to a book. Only the owner may
// update a book, and only fields present in the request body are changed.
func (s *service) UpdateBook(bookID string, userID string, requestBody dto.UpdateBookRequestBody) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if book.OwnerID != userID {
		return nil, ErrNotPermitted
	}
	if requestBody.Title != nil {
		book.Title = *requestBody.Title
	}
	if requestBody.Author != nil {
		book.Author = *requestBody.Author
	}
	if requestBody.Genre != nil {
		book.Genre = *requestBody.Genre
	}
	if requestBody.Condition != nil {
		book.Condition = *requestBody.Condition
	}
	if requestBody.Description != nil {
		book.Description = *requestBody.Description
	}
	if requestBody.CoverImageURL != nil {
		book.CoverImageURL = *requestBody.CoverImageURL
	}
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.UpdateBook(book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return book, nil
}

// UpdateBookCover service uploads a cover image for a book to S3 object
// storage and records the resulting URL on the listing.
func (s *service) UpdateBookCover(bookID string, userID string, r *http.Request) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if book.OwnerID != userID {
		return nil, ErrNotPermitted
	}
	err = r.ParseMultipartForm(5000)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesError):
			return nil, ErrContentTooLarge
		default:
			return nil, ErrBadRequest
		}
	}
	file, fileHeader, err := r.FormFile("cover")
	if err != nil {
		return nil, ErrBadRequest
	}
	defer file.Close()
	buffer, mtype, err := s.detectMimeType(file, fileHeader)
	if err != nil {
		return nil, err
	}
	supportedMediaType := []string{
		"image/jpeg",
		"image/png",
	}
	if !mimePermitted(mtype, supportedMediaType...) {
		return nil, ErrUnsupportedMediaType
	}
	coverURL, err := s.uploadCoverToS3(buffer, mtype, fileHeader)
	if err != nil {
		return nil, err
	}
	book.CoverImageURL = coverURL
	err = s.repo.UpdateBook(book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return book, nil
}

// DeleteBook service deletes a book listing. Only the owner may delete a
// book; every exchange request referencing the book is removed with it.
func (s *service) DeleteBook(bookID string, userID string) error {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	if book.OwnerID != userID {
		return ErrNotPermitted
	}
	err = s.repo.DeleteBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}
