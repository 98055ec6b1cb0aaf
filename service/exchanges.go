package service

import (
	"errors"
	"time"

	"github.com/emzola/bookswap/data"
	"github.com/emzola/bookswap/data/dto"
	"github.com/emzola/bookswap/internal/validator"
	"github.com/emzola/bookswap/repository"
)

type exchanges interface {
	CreateExchange(requester *data.User, requestBody dto.CreateExchangeRequestBody) (*data.Exchange, error)
	ListReceivedExchanges(userID string) ([]*dto.ExchangeDetails, error)
	ListSentExchanges(userID string) ([]*dto.ExchangeDetails, error)
	RespondToExchange(responderID string, exchangeID string, action string) (*data.Exchange, error)
}

// CreateExchange service proposes a swap of the requester's offered book for
// another user's requested book. Both books are locked for the duration of
// the check-and-mutate cycle so concurrent proposals cannot both observe the
// books as available.
func (s *service) CreateExchange(requester *data.User, requestBody dto.CreateExchangeRequestBody) (*data.Exchange, error) {
	exchange := &data.Exchange{
		RequesterID:     requester.ID,
		RequesterName:   requester.Name,
		RequestedBookID: requestBody.RequestedBookID,
		OfferedBookID:   requestBody.OfferedBookID,
		Message:         requestBody.Message,
		Status:          data.ExchangeStatusPending,
	}
	v := validator.New()
	if data.ValidateExchange(v, exchange); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}

	bookKeys := []string{exchange.RequestedBookID, exchange.OfferedBookID}
	s.locks.LockKeys(bookKeys)
	defer s.locks.UnlockKeys(bookKeys)

	requestedBook, err := s.repo.GetBook(exchange.RequestedBookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	offeredBook, err := s.repo.GetBook(exchange.OfferedBookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if offeredBook.OwnerID != requester.ID {
		return nil, ErrNotPermitted
	}
	if requestedBook.OwnerID == requester.ID {
		return nil, ErrInvalidState
	}
	if !requestedBook.Status.ExchangeEligible() || !offeredBook.Status.ExchangeEligible() {
		return nil, ErrInvalidState
	}

	exchange.OwnerID = requestedBook.OwnerID
	exchange.OwnerName = requestedBook.OwnerName

	requestedBook.Status = data.BookStatusPendingExchange
	offeredBook.Status = data.BookStatusPendingExchange
	err = s.repo.UpdateBook(requestedBook)
	if err != nil {
		return nil, err
	}
	err = s.repo.UpdateBook(offeredBook)
	if err != nil {
		return nil, err
	}
	err = s.repo.CreateExchange(exchange)
	if err != nil {
		return nil, err
	}
	return exchange, nil
}

// ListReceivedExchanges service retrieves exchange requests addressed to a
// user, enriched with the current state of the two books each references.
func (s *service) ListReceivedExchanges(userID string) ([]*dto.ExchangeDetails, error) {
	exchanges, err := s.repo.GetAllExchangesForOwner(userID)
	if err != nil {
		return nil, err
	}
	return s.enrichExchanges(exchanges)
}

// ListSentExchanges service retrieves exchange requests created by a user,
// enriched with the current state of the two books each references.
func (s *service) ListSentExchanges(userID string) ([]*dto.ExchangeDetails, error) {
	exchanges, err := s.repo.GetAllExchangesForRequester(userID)
	if err != nil {
		return nil, err
	}
	return s.enrichExchanges(exchanges)
}

// enrichExchanges resolves book summaries for a list of exchange requests.
// Entries whose books can no longer be resolved are skipped; deletes cascade
// to referencing exchanges, so this guard should never fire in practice.
func (s *service) enrichExchanges(exchanges []*data.Exchange) ([]*dto.ExchangeDetails, error) {
	details := []*dto.ExchangeDetails{}
	for _, exchange := range exchanges {
		requestedBook, err := s.repo.GetBook(exchange.RequestedBookID)
		if err != nil {
			if errors.Is(err, repository.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		offeredBook, err := s.repo.GetBook(exchange.OfferedBookID)
		if err != nil {
			if errors.Is(err, repository.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		details = append(details, &dto.ExchangeDetails{
			Exchange:      exchange,
			RequestedBook: bookSummary(requestedBook),
			OfferedBook:   bookSummary(offeredBook),
		})
	}
	return details, nil
}

func bookSummary(book *data.Book) *dto.BookSummary {
	return &dto.BookSummary{
		ID:        book.ID,
		Title:     book.Title,
		Author:    book.Author,
		Condition: book.Condition,
	}
}

// RespondToExchange service accepts or declines a pending exchange request.
// Only the owner of the requested book may respond, and a request can be
// responded to exactly once. On accept the two books swap owners and become
// exchanged-available; on decline both books return to available. The
// exchange and both books are locked so two concurrent responses cannot both
// observe the request as pending.
func (s *service) RespondToExchange(responderID string, exchangeID string, action string) (*data.Exchange, error) {
	v := validator.New()
	if data.ValidateExchangeAction(v, action); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}

	s.locks.Lock(exchangeID)
	defer s.locks.Unlock(exchangeID)

	exchange, err := s.repo.GetExchange(exchangeID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if exchange.OwnerID != responderID {
		return nil, ErrNotPermitted
	}
	if exchange.Status != data.ExchangeStatusPending {
		return nil, ErrInvalidState
	}

	bookKeys := []string{exchange.RequestedBookID, exchange.OfferedBookID}
	s.locks.LockKeys(bookKeys)
	defer s.locks.UnlockKeys(bookKeys)

	requestedBook, err := s.repo.GetBook(exchange.RequestedBookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	offeredBook, err := s.repo.GetBook(exchange.OfferedBookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	switch action {
	case data.ExchangeActionAccept:
		requestedBook.OwnerID, offeredBook.OwnerID = offeredBook.OwnerID, requestedBook.OwnerID
		requestedBook.OwnerName, offeredBook.OwnerName = offeredBook.OwnerName, requestedBook.OwnerName
		requestedBook.Status = data.BookStatusExchangedAvailable
		offeredBook.Status = data.BookStatusExchangedAvailable
		exchange.Status = data.ExchangeStatusAccepted
	case data.ExchangeActionDecline:
		// A declined swap resets both books to available even if one of them
		// was exchanged-available beforehand, discarding the history marker.
		// This mirrors the long-standing behavior clients rely on.
		requestedBook.Status = data.BookStatusAvailable
		offeredBook.Status = data.BookStatusAvailable
		exchange.Status = data.ExchangeStatusDeclined
	}
	respondedAt := time.Now().UTC()
	exchange.RespondedAt = &respondedAt

	err = s.repo.UpdateBook(requestedBook)
	if err != nil {
		return nil, err
	}
	err = s.repo.UpdateBook(offeredBook)
	if err != nil {
		return nil, err
	}
	err = s.repo.UpdateExchange(exchange)
	if err != nil {
		return nil, err
	}
	return exchange, nil
}
