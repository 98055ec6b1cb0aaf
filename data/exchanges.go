package data

import (
	"time"

	"github.com/emzola/bookswap/internal/validator"
)

// ExchangeStatus is the closed set of states an exchange request moves
// through. Accepted and declined are terminal.
type ExchangeStatus string

const (
	ExchangeStatusPending  ExchangeStatus = "pending"
	ExchangeStatusAccepted ExchangeStatus = "accepted"
	ExchangeStatusDeclined ExchangeStatus = "declined"
)

// Exchange actions a book owner can take on a pending request.
const (
	ExchangeActionAccept  = "accept"
	ExchangeActionDecline = "decline"
)

// Exchange defines an exchange request model: a proposal by the requester to
// trade their offered book for the owner's requested book. OwnerID is the
// owner of the requested book at creation time. Requester and owner names are
// denormalized for display.
type Exchange struct {
	ID              string         `json:"id"`
	RequesterID     string         `json:"requesterId"`
	RequesterName   string         `json:"requesterName"`
	OwnerID         string         `json:"ownerId"`
	OwnerName       string         `json:"ownerName"`
	RequestedBookID string         `json:"requestedBookId"`
	OfferedBookID   string         `json:"offeredBookId"`
	Message         string         `json:"message,omitempty"`
	Status          ExchangeStatus `json:"status"`
	CreatedAt       time.Time      `json:"createdAt"`
	RespondedAt     *time.Time     `json:"respondedAt,omitempty"`
}

func ValidateExchange(v *validator.Validator, exchange *Exchange) {
	v.Check(exchange.RequestedBookID != "", "requestedBookId", "must be provided")
	v.Check(exchange.OfferedBookID != "", "offeredBookId", "must be provided")
	v.Check(exchange.RequestedBookID != exchange.OfferedBookID, "offeredBookId", "must differ from the requested book")
	v.Check(len(exchange.Message) <= 1000, "message", "must not be more than 1000 bytes long")
}

func ValidateExchangeAction(v *validator.Validator, action string) {
	v.Check(action != "", "action", "must be provided")
	v.Check(validator.PermittedValue(action, ExchangeActionAccept, ExchangeActionDecline), "action", "must be accept or decline")
}
