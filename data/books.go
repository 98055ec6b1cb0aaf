package data

import (
	"time"

	"github.com/emzola/bookswap/internal/validator"
)

// BookStatus is the closed set of listing states a book moves through.
type BookStatus string

const (
	BookStatusAvailable          BookStatus = "available"
	BookStatusPendingExchange    BookStatus = "pending-exchange"
	BookStatusExchangedAvailable BookStatus = "exchanged-available"
)

// ExchangeEligible reports whether a book in this status may enter a new
// exchange. A book that changed hands via a completed exchange stays eligible;
// exchanged-available is a history marker only.
func (s BookStatus) ExchangeEligible() bool {
	return s == BookStatusAvailable || s == BookStatusExchangedAvailable
}

// Conditions is the fixed five-point physical-quality scale, best first.
var Conditions = []string{"Like New", "Very Good", "Good", "Fair", "Poor"}

// Book defines a book model. OwnerName is denormalized from the owning user so
// listings don't need a join; it is kept in sync on ownership transfer.
type Book struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"ownerId"`
	OwnerName     string     `json:"ownerName"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Genre         string     `json:"genre"`
	Condition     string     `json:"condition"`
	Description   string     `json:"description,omitempty"`
	CoverImageURL string     `json:"coverImageUrl,omitempty"`
	Status        BookStatus `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Version       int32      `json:"-"`
}

func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(book.Title != "", "title", "must be provided")
	v.Check(len(book.Title) <= 500, "title", "must not be more than 500 bytes long")
	v.Check(book.Author != "", "author", "must be provided")
	v.Check(len(book.Author) <= 500, "author", "must not be more than 500 bytes long")
	v.Check(book.Genre != "", "genre", "must be provided")
	v.Check(len(book.Genre) <= 100, "genre", "must not be more than 100 bytes long")
	v.Check(book.Condition != "", "condition", "must be provided")
	v.Check(validator.PermittedValue(book.Condition, Conditions...), "condition", "must be one of: Like New, Very Good, Good, Fair, Poor")
	v.Check(len(book.Description) <= 2000, "description", "must not be more than 2000 bytes long")
	v.Check(len(book.CoverImageURL) <= 2000, "coverImageUrl", "must not be more than 2000 bytes long")
	v.Check(validator.PermittedValue(book.Status,
		BookStatusAvailable, BookStatusPendingExchange, BookStatusExchangedAvailable),
		"status", "must be a valid book status")
}
