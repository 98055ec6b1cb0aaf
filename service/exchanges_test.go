package service

import (
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/emzola/bookswap/config"
	"github.com/emzola/bookswap/data"
	"github.com/emzola/bookswap/data/dto"
	"github.com/emzola/bookswap/internal/jsonlog"
	"github.com/emzola/bookswap/repository/jsonfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *service {
	t.Helper()
	store, err := jsonfile.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	logger := jsonlog.New(io.Discard, jsonlog.LevelError)
	return New(config.Config{}, &sync.WaitGroup{}, logger, store)
}

func createTestUser(t *testing.T, svc *service, name, email string) *data.User {
	t.Helper()
	user := &data.User{Name: name, Email: email}
	err := user.Password.Set("password123")
	require.NoError(t, err)
	err = svc.repo.CreateUser(user)
	require.NoError(t, err)
	return user
}

func createTestBook(t *testing.T, svc *service, owner *data.User, title string) *data.Book {
	t.Helper()
	book, err := svc.CreateBook(owner, dto.CreateBookRequestBody{
		Title:     title,
		Author:    "Test Author",
		Genre:     "Fiction",
		Condition: "Good",
	})
	require.NoError(t, err)
	return book
}

func TestCreateExchange(t *testing.T) {
	svc := newTestService(t)
	owner := createTestUser(t, svc, "John Doe", "john@example.com")
	requester := createTestUser(t, svc, "Jane Smith", "jane@example.com")
	requestedBook := createTestBook(t, svc, owner, "The Great Gatsby")
	offeredBook := createTestBook(t, svc, requester, "Clean Code")

	exchange, err := svc.CreateExchange(requester, dto.CreateExchangeRequestBody{
		RequestedBookID: requestedBook.ID,
		OfferedBookID:   offeredBook.ID,
		Message:         "Interested in swapping?",
	})
	require.NoError(t, err)
	assert.Equal(t, data.ExchangeStatusPending, exchange.Status)
	assert.Equal(t, requester.ID, exchange.RequesterID)
	assert.Equal(t, owner.ID, exchange.OwnerID)
	assert.Equal(t, owner.Name, exchange.OwnerName)

	requestedBook, err = svc.GetBook(requestedBook.ID)
	require.NoError(t, err)
	offeredBook, err = svc.GetBook(offeredBook.ID)
	require.NoError(t, err)
	assert.Equal(t, data.BookStatusPendingExchange, requestedBook.Status)
	assert.Equal(t, data.BookStatusPendingExchange, offeredBook.Status)
}

func TestCreateExchangeOfferedBookNotOwned(t *testing.T) {
	svc := newTestService(t)
	owner := createTestUser(t, svc, "John Doe", "john@example.com")
	requester := createTestUser(t, svc, "Jane Smith", "jane@example.com")
	requestedBook := createTestBook(t, svc, owner, "The Great Gatsby")
	notTheirs := createTestBook(t, svc, owner, "To Kill a Mockingbird")

	_, err := svc.CreateExchange(requester, dto.CreateExchangeRequestBody{
		RequestedBookID: requestedBook.ID,
		OfferedBookID:   notTheirs.ID,
	})
	assert.ErrorIs(t, err, ErrNotPermitted)
}

func TestCreateExchangeOwnBook(t *testing.T) {
	svc := newTestService(t)
	requester := createTestUser(t, svc, "John Doe", "john@example.com")
	requestedBook := createTestBook(t, svc, requester, "The Great Gatsby")
	offeredBook := createTestBook(t, svc, requester, "Clean Code")

	_, err := svc.CreateExchange(requester, dto.CreateExchangeRequestBody{
		RequestedBookID: requestedBook.ID,
		OfferedBookID:   offeredBook.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCreateExchangeBookNotFound(t *testing.T) {
	svc := newTestService(t)
	requester := createTestUser(t, svc, "Jane Smith", "jane@example.com")
	offeredBook := createTestBook(t, svc, requester, "Clean Code")

	_, err := svc.CreateExchange(requester, dto.CreateExchangeRequestBody{
		RequestedBookID: "no-such-book",
		OfferedBookID:   offeredBook.ID,
	})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestCreateExchangeBookAlreadyPending(t *testing.T) {
	svc := newTestService(t)
	owner := createTestUser(t, svc, "John Doe", "john@example.com")
	requester := createTestUser(t, svc, "Jane Smith", "jane@example.com")
	requestedBook := createTestBook(t, svc, owner, "The Great Gatsby")
	offeredBook := createTestBook(t, svc, requester, "Clean Code")
	secondOffer := createTestBook(t, svc, requester, "Refactoring")

	_, err := svc.CreateExchange(requester, dto.CreateExchangeRequestBody{
		RequestedBookID: requestedBook.ID,
		OfferedBookID:   offeredBook.ID,
	})
	require.NoError(t, err)

	_, err = svc.CreateExchange(requester, dto.CreateExchangeRequestBody{
		RequestedBookID: requestedBook.ID,
		OfferedBookID:   secondOffer.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRespondToExchangeAccept(t *testing.T) {
	svc := newTestService(t)
	owner := createTestUser(t, svc, "John Doe", "john@example.com")
	requester := createTestUser(t, svc, "Jane Smith", "jane@example.com")
	requestedBook := createTestBook(t, svc, owner, "The Great Gatsby")
	offeredBook := createTestBook(t, svc, requester, "Clean Code")

	exchange, err := svc.CreateExchange(requester, dto.CreateExchangeRequestBody{
		RequestedBookID: requestedBook.ID,
		OfferedBookID:   offeredBook.ID,
	})
	require.NoError(t, err)

	exchange, err = svc.RespondToExchange(owner.ID, exchange.ID, data.ExchangeActionAccept)
	require.NoError(t, err)
	assert.Equal(t, data.ExchangeStatusAccepted, exchange.Status)
	require.NotNil(t, exchange.RespondedAt)

	requestedBook, err = svc.GetBook(requestedBook.ID)
	require.NoError(t, err)
	offeredBook, err = svc.GetBook(offeredBook.ID)
	require.NoError(t, err)
	assert.Equal(t, requester.ID, requestedBook.OwnerID)
	assert.Equal(t, requester.Name, requestedBook.OwnerName)
	assert.Equal(t, owner.ID, offeredBook.OwnerID)
	assert.Equal(t, owner.Name, offeredBook.OwnerName)
	assert.Equal(t, data.BookStatusExchangedAvailable, requestedBook.Status)
	assert.Equal(t, data.BookStatusExchangedAvailable, offeredBook.Status)
}

func TestRespondToExchangeDecline(t *testing.T) {
	svc := newTestService(t)
	owner := createTestUser(t, svc, "John Doe", "john@example.com")
	requester := createTestUser(t, svc, "Jane Smith", "jane@example.com")
	requestedBook := createTestBook(t, svc, owner, "The Great Gatsby")
	offeredBook := createTestBook(t, svc, requester, "Clean Code")

	exchange, err := svc.CreateExchange(requester, dto.CreateExchangeRequestBody{
		RequestedBookID: requestedBook.ID,
		OfferedBookID:   offeredBook.ID,
	})
	require.NoError(t, err)

	exchange, err = svc.RespondToExchange(owner.ID, exchange.ID, data.ExchangeActionDecline)
	require.NoError(t, err)
	assert.Equal(t, data.ExchangeStatusDeclined, exchange.Status)

	requestedBook, err = svc.GetBook(requestedBook.ID)
	require.NoError(t, err)
	offeredBook, err = svc.GetBook(offeredBook.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, requestedBook.OwnerID)
	assert.Equal(t, requester.ID, offeredBook.OwnerID)
	assert.Equal(t, data.BookStatusAvailable, requestedBook.Status)
	assert.Equal(t, data.BookStatusAvailable, offeredBook.Status)
}

func TestRespondToExchangeTwice(t *testing.T) {
	svc := newTestService(t)
	owner := createTestUser(t, svc, "John Doe", "john@example.com")
	requester := createTestUser(t, svc, "Jane Smith", "jane@example.com")
	requestedBook := createTestBook(t, svc, owner, "The Great Gatsby")
	offeredBook := createTestBook(t, svc, requester, "Clean Code")

	exchange, err := svc.CreateExchange(requester, dto.CreateExchangeRequestBody{
		RequestedBookID: requestedBook.ID,
		OfferedBookID:   offeredBook.ID,
	})
	require.NoError(t, err)

	_, err = svc.RespondToExchange(owner.ID, exchange.ID, data.ExchangeActionDecline)
	require.NoError(t, err)

	_, err = svc.RespondToExchange(owner.ID, exchange.ID, data.ExchangeActionAccept)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRespondToExchangeNotOwner(t *testing.T) {
	svc := newTestService(t)
	owner := createTestUser(t, svc, "John Doe", "john@example.com")
	requester := createTestUser(t, svc, "Jane Smith", "jane@example.com")
	requestedBook := createTestBook(t, svc, owner, "The Great Gatsby")
	offeredBook := createTestBook(t, svc, requester, "Clean Code")

	exchange, err := svc.CreateExchange(requester, dto.CreateExchangeRequestBody{
		RequestedBookID: requestedBook.ID,
		OfferedBookID:   offeredBook.ID,
	})
	require.NoError(t, err)

	_, err = svc.RespondToExchange(requester.ID, exchange.ID, data.ExchangeActionAccept)
	assert.ErrorIs(t, err, ErrNotPermitted)
}

func TestRespondToExchangeMissingBook(t *testing.T) {
	svc := newTestService(t)
	owner := createTestUser(t, svc, "John Doe", "john@example.com")

	// An exchange referencing books that no longer exist, inserted behind the
	// service's back.
	exchange := &data.Exchange{
		RequesterID:     "gone",
		OwnerID:         owner.ID,
		RequestedBookID: "missing-book",
		OfferedBookID:   "another-missing-book",
		Status:          data.ExchangeStatusPending,
	}
	require.NoError(t, svc.repo.CreateExchange(exchange))

	_, err := svc.RespondToExchange(owner.ID, exchange.ID, data.ExchangeActionAccept)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRespondToExchangeInvalidAction(t *testing.T) {
	svc := newTestService(t)
	owner := createTestUser(t, svc, "John Doe", "john@example.com")

	_, err := svc.RespondToExchange(owner.ID, "irrelevant", "maybe")
	assert.ErrorIs(t, err, ErrFailedValidation)
}

func TestExchangedBookCanBeOfferedAgain(t *testing.T) {
	svc := newTestService(t)
	owner := createTestUser(t, svc, "John Doe", "john@example.com")
	requester := createTestUser(t, svc, "Jane Smith", "jane@example.com")
	requestedBook := createTestBook(t, svc, owner, "The Great Gatsby")
	offeredBook := createTestBook(t, svc, requester, "Clean Code")

	exchange, err := svc.CreateExchange(requester, dto.CreateExchangeRequestBody{
		RequestedBookID: requestedBook.ID,
		OfferedBookID:   offeredBook.ID,
	})
	require.NoError(t, err)
	_, err = svc.RespondToExchange(owner.ID, exchange.ID, data.ExchangeActionAccept)
	require.NoError(t, err)

	// The requested book now belongs to the requester and the offered one to
	// the original owner. Both carry exchanged-available status and remain
	// eligible for new swaps.
	_, err = svc.CreateExchange(owner, dto.CreateExchangeRequestBody{
		RequestedBookID: requestedBook.ID,
		OfferedBookID:   offeredBook.ID,
	})
	require.NoError(t, err)
}

func TestListSentAndReceivedExchanges(t *testing.T) {
	svc := newTestService(t)
	owner := createTestUser(t, svc, "John Doe", "john@example.com")
	requester := createTestUser(t, svc, "Jane Smith", "jane@example.com")
	requestedBook := createTestBook(t, svc, owner, "The Great Gatsby")
	offeredBook := createTestBook(t, svc, requester, "Clean Code")

	exchange, err := svc.CreateExchange(requester, dto.CreateExchangeRequestBody{
		RequestedBookID: requestedBook.ID,
		OfferedBookID:   offeredBook.ID,
	})
	require.NoError(t, err)

	received, err := svc.ListReceivedExchanges(owner.ID)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, exchange.ID, received[0].ID)
	require.NotNil(t, received[0].RequestedBook)
	assert.Equal(t, "The Great Gatsby", received[0].RequestedBook.Title)
	require.NotNil(t, received[0].OfferedBook)
	assert.Equal(t, "Clean Code", received[0].OfferedBook.Title)

	sent, err := svc.ListSentExchanges(requester.ID)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, exchange.ID, sent[0].ID)

	ownerSent, ownerSentErr := svc.ListSentExchanges(owner.ID)
	assert.Empty(t, mustExchanges(t, ownerSent, ownerSentErr))
	requesterReceived, requesterReceivedErr := svc.ListReceivedExchanges(requester.ID)
	assert.Empty(t, mustExchanges(t, requesterReceived, requesterReceivedErr))
}

func mustExchanges(t *testing.T, details []*dto.ExchangeDetails, err error) []*dto.ExchangeDetails {
	t.Helper()
	require.NoError(t, err)
	return details
}
