package service

import (
	"testing"

	"github.com/emzola/bookswap/data"
	"github.com/emzola/bookswap/data/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookValidation(t *testing.T) {
	svc := newTestService(t)
	owner := createTestUser(t, svc, "John Doe", "john@example.com")

	_, err := svc.CreateBook(owner, dto.CreateBookRequestBody{
		Title:     "",
		Author:    "Harper Lee",
		Condition: "Mint",
	})
	assert.ErrorIs(t, err, ErrFailedValidation)

	// Every failing field is reported, not just one.
	assert.Contains(t, err.Error(), "title")
	assert.Contains(t, err.Error(), "genre")
	assert.Contains(t, err.Error(), "condition")
}

func TestUpdateBookPartial(t *testing.T) {
	svc := newTestService(t)
	owner := createTestUser(t, svc, "John Doe", "john@example.com")
	book := createTestBook(t, svc, owner, "The Great Gatsby")

	condition := "Fair"
	updated, err := svc.UpdateBook(book.ID, owner.ID, dto.UpdateBookRequestBody{
		Condition: &condition,
	})
	require.NoError(t, err)
	assert.Equal(t, "Fair", updated.Condition)
	assert.Equal(t, "The Great Gatsby", updated.Title)
	assert.Equal(t, data.BookStatusAvailable, updated.Status)
}

func TestUpdateBookNotOwner(t *testing.T) {
	svc := newTestService(t)
	owner := createTestUser(t, svc, "John Doe", "john@example.com")
	other := createTestUser(t, svc, "Jane Smith", "jane@example.com")
	book := createTestBook(t, svc, owner, "The Great Gatsby")

	title := "Hijacked"
	_, err := svc.UpdateBook(book.ID, other.ID, dto.UpdateBookRequestBody{Title: &title})
	assert.ErrorIs(t, err, ErrNotPermitted)

	err = svc.DeleteBook(book.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotPermitted)
}

func TestDeleteBookCascadesExchanges(t *testing.T) {
	svc := newTestService(t)
	owner := createTestUser(t, svc, "John Doe", "john@example.com")
	requester := createTestUser(t, svc, "Jane Smith", "jane@example.com")
	requestedBook := createTestBook(t, svc, owner, "The Great Gatsby")
	offeredBook := createTestBook(t, svc, requester, "Clean Code")

	_, err := svc.CreateExchange(requester, dto.CreateExchangeRequestBody{
		RequestedBookID: requestedBook.ID,
		OfferedBookID:   offeredBook.ID,
	})
	require.NoError(t, err)

	err = svc.DeleteBook(requestedBook.ID, owner.ID)
	require.NoError(t, err)

	_, err = svc.GetBook(requestedBook.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	sent, sentErr := svc.ListSentExchanges(requester.ID)
	assert.Empty(t, mustExchanges(t, sent, sentErr))
	received, receivedErr := svc.ListReceivedExchanges(owner.ID)
	assert.Empty(t, mustExchanges(t, received, receivedErr))
}

func TestSearchBooks(t *testing.T) {
	svc := newTestService(t)
	owner := createTestUser(t, svc, "John Doe", "john@example.com")
	createTestBook(t, svc, owner, "The Great Gatsby")
	createTestBook(t, svc, owner, "Clean Code")

	books, err := svc.SearchBooks("gatsby")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "The Great Gatsby", books[0].Title)

	// An empty query matches everything.
	books, err = svc.SearchBooks("")
	require.NoError(t, err)
	assert.Len(t, books, 2)
}
