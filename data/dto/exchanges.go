package dto

import "github.com/emzola/bookswap/data"

// CreateExchangeRequestBody defines a request body for CreateExchange service.
type CreateExchangeRequestBody struct {
	RequestedBookID string `json:"requestedBookId"`
	OfferedBookID   string `json:"offeredBookId"`
	Message         string `json:"message"`
}

// RespondToExchangeRequestBody defines a request body for RespondToExchange service.
type RespondToExchangeRequestBody struct {
	Action string `json:"action"`
}

// BookSummary is the slice of book fields embedded in enriched exchange listings.
type BookSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Condition string `json:"condition"`
}

// ExchangeDetails is an exchange request enriched with the current state of
// the two books it references, resolved at read time.
type ExchangeDetails struct {
	*data.Exchange
	RequestedBook *BookSummary `json:"requestedBook"`
	OfferedBook   *BookSummary `json:"offeredBook"`
}
