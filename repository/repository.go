// Package repository defines the persistence interface the service layer is
// programmed against. Concrete engines live in the jsonfile and postgres
// subpackages and are selected by configuration.
package repository

import (
	"time"

	"github.com/emzola/bookswap/data"
)

type Repository interface {
	users
	books
	exchanges
	tokens
}

type users interface {
	CreateUser(user *data.User) error
	GetUserByID(id string) (*data.User, error)
	GetUserByEmail(email string) (*data.User, error)
	UpdateUser(user *data.User) error
	GetUserForToken(scope, tokenPlaintext string) (*data.User, error)
}

type books interface {
	CreateBook(book *data.Book) error
	GetBook(id string) (*data.Book, error)
	GetAllBooks() ([]*data.Book, error)
	GetAllBooksForUser(userID string) ([]*data.Book, error)
	SearchBooks(query string) ([]*data.Book, error)
	UpdateBook(book *data.Book) error
	// DeleteBook also removes every exchange request referencing the book,
	// so no orphaned references survive a delete.
	DeleteBook(id string) error
}

type exchanges interface {
	CreateExchange(exchange *data.Exchange) error
	GetExchange(id string) (*data.Exchange, error)
	GetAllExchangesForOwner(userID string) ([]*data.Exchange, error)
	GetAllExchangesForRequester(userID string) ([]*data.Exchange, error)
	UpdateExchange(exchange *data.Exchange) error
}

type tokens interface {
	CreateToken(userID string, ttl time.Duration, scope string) (*data.Token, error)
	DeleteAllTokensForUser(scope, userID string) error
}
