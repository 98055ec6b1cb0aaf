package jsonfile

import (
	"strings"
	"time"

	"github.com/emzola/bookswap/data"
	"github.com/emzola/bookswap/repository"
	"github.com/google/uuid"
)

func (r *bookRecord) toData() *data.Book {
	return &data.Book{
		ID:            r.ID,
		OwnerID:       r.OwnerID,
		OwnerName:     r.OwnerName,
		Title:         r.Title,
		Author:        r.Author,
		Genre:         r.Genre,
		Condition:     r.Condition,
		Description:   r.Description,
		CoverImageURL: r.CoverImageURL,
		Status:        data.BookStatus(r.Status),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Version:       r.Version,
	}
}

// CreateBook inserts a new book record.
func (s *Store) CreateBook(book *data.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	book.ID = uuid.NewString()
	book.CreatedAt = time.Now().UTC()
	book.UpdatedAt = book.CreatedAt
	book.Version = 1
	s.doc.Books = append(s.doc.Books, &bookRecord{
		ID:            book.ID,
		OwnerID:       book.OwnerID,
		OwnerName:     book.OwnerName,
		Title:         book.Title,
		Author:        book.Author,
		Genre:         book.Genre,
		Condition:     book.Condition,
		Description:   book.Description,
		CoverImageURL: book.CoverImageURL,
		Status:        string(book.Status),
		CreatedAt:     book.CreatedAt,
		UpdatedAt:     book.UpdatedAt,
		Version:       book.Version,
	})
	return s.persist()
}

// GetBook retrieves a book record by its ID.
func (s *Store) GetBook(id string) (*data.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.doc.Books {
		if record.ID == id {
			return record.toData(), nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

// GetAllBooks retrieves every book record.
func (s *Store) GetAllBooks() ([]*data.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	books := make([]*data.Book, 0, len(s.doc.Books))
	for _, record := range s.doc.Books {
		books = append(books, record.toData())
	}
	return books, nil
}

// GetAllBooksForUser retrieves every book record owned by a user.
func (s *Store) GetAllBooksForUser(userID string) ([]*data.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	books := []*data.Book{}
	for _, record := range s.doc.Books {
		if record.OwnerID == userID {
			books = append(books, record.toData())
		}
	}
	return books, nil
}

// SearchBooks retrieves books whose title, author or genre contains the query,
// case-insensitively. An empty query matches every book.
func (s *Store) SearchBooks(query string) ([]*data.Book, error) {
	query = strings.ToLower(query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	books := []*data.Book{}
	for _, record := range s.doc.Books {
		if query == "" ||
			strings.Contains(strings.ToLower(record.Title), query) ||
			strings.Contains(strings.ToLower(record.Author), query) ||
			strings.Contains(strings.ToLower(record.Genre), query) {
			books = append(books, record.toData())
		}
	}
	return books, nil
}

// UpdateBook updates a book record, guarding against concurrent edits with a
// version check.
func (s *Store) UpdateBook(book *data.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.doc.Books {
		if record.ID == book.ID {
			if record.Version != book.Version {
				return repository.ErrEditConflict
			}
			record.OwnerID = book.OwnerID
			record.OwnerName = book.OwnerName
			record.Title = book.Title
			record.Author = book.Author
			record.Genre = book.Genre
			record.Condition = book.Condition
			record.Description = book.Description
			record.CoverImageURL = book.CoverImageURL
			record.Status = string(book.Status)
			record.UpdatedAt = time.Now().UTC()
			record.Version++
			book.UpdatedAt = record.UpdatedAt
			book.Version = record.Version
			return s.persist()
		}
	}
	return repository.ErrRecordNotFound
}

// DeleteBook deletes a book record along with every exchange request that
// references it, so no orphaned references survive.
func (s *Store) DeleteBook(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	index := -1
	for i, record := range s.doc.Books {
		if record.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return repository.ErrRecordNotFound
	}
	s.doc.Books = append(s.doc.Books[:index], s.doc.Books[index+1:]...)
	kept := s.doc.Exchanges[:0]
	for _, exchange := range s.doc.Exchanges {
		if exchange.RequestedBookID != id && exchange.OfferedBookID != id {
			kept = append(kept, exchange)
		}
	}
	s.doc.Exchanges = kept
	return s.persist()
}
