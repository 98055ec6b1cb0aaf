package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/emzola/bookswap/config"
	"github.com/emzola/bookswap/data"
	"github.com/emzola/bookswap/internal/jsonlog"
	"github.com/emzola/bookswap/repository/jsonfile"
	"github.com/emzola/bookswap/service"
	"github.com/jellydator/ttlcache/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := jsonfile.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	logger := jsonlog.New(io.Discard, jsonlog.LevelError)
	cfg := config.Config{}
	cfg.Server.Env = "test"
	svc := service.New(cfg, &sync.WaitGroup{}, logger, store)
	cache := ttlcache.New(ttlcache.WithTTL[string, *data.User](5 * time.Minute))
	h := New(cfg, logger, cache, svc)
	ts := httptest.NewServer(h.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func doRequest(t *testing.T, ts *httptest.Server, method, path, token string, body interface{}) (int, map[string]json.RawMessage) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var payload map[string]json.RawMessage
	err = json.NewDecoder(resp.Body).Decode(&payload)
	require.NoError(t, err)
	return resp.StatusCode, payload
}

func registerAndLogin(t *testing.T, ts *httptest.Server, name, email string) string {
	t.Helper()
	status, _ := doRequest(t, ts, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, status)
	status, payload := doRequest(t, ts, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	var token struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(payload["authentication_token"], &token))
	require.NotEmpty(t, token.Token)
	return token.Token
}

func TestHealthcheck(t *testing.T) {
	ts := newTestServer(t)
	status, payload := doRequest(t, ts, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `"available"`, string(payload["status"]))
}

func TestRegisterLoginAndListOwnBooks(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "John Doe", "john@example.com")

	status, payload := doRequest(t, ts, http.MethodPost, "/books", token, map[string]string{
		"title":     "1984",
		"author":    "George Orwell",
		"genre":     "Fiction",
		"condition": "Good",
	})
	require.Equal(t, http.StatusCreated, status)
	var book data.Book
	require.NoError(t, json.Unmarshal(payload["book"], &book))
	assert.Equal(t, data.BookStatusAvailable, book.Status)
	assert.Equal(t, "John Doe", book.OwnerName)

	status, payload = doRequest(t, ts, http.MethodGet, "/books/my", token, nil)
	require.Equal(t, http.StatusOK, status)
	var books []*data.Book
	require.NoError(t, json.Unmarshal(payload["books"], &books))
	require.Len(t, books, 1)
	assert.Equal(t, "1984", books[0].Title)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	registerAndLogin(t, ts, "John Doe", "john@example.com")
	status, _ := doRequest(t, ts, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "Impostor",
		"email":    "john@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	registerAndLogin(t, ts, "John Doe", "john@example.com")
	status, _ := doRequest(t, ts, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "john@example.com",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAnonymousBrowsing(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "John Doe", "john@example.com")
	status, _ := doRequest(t, ts, http.MethodPost, "/books", token, map[string]string{
		"title":     "The Great Gatsby",
		"author":    "F. Scott Fitzgerald",
		"genre":     "Fiction",
		"condition": "Good",
	})
	require.Equal(t, http.StatusCreated, status)

	// Listing and searching books need no token.
	status, payload := doRequest(t, ts, http.MethodGet, "/books", "", nil)
	require.Equal(t, http.StatusOK, status)
	var books []*data.Book
	require.NoError(t, json.Unmarshal(payload["books"], &books))
	assert.Len(t, books, 1)

	status, payload = doRequest(t, ts, http.MethodGet, "/books/search?q=gatsby", "", nil)
	require.Equal(t, http.StatusOK, status)
	books = nil
	require.NoError(t, json.Unmarshal(payload["books"], &books))
	assert.Len(t, books, 1)
}

func TestAuthenticationRequired(t *testing.T) {
	ts := newTestServer(t)
	status, _ := doRequest(t, ts, http.MethodPost, "/books", "", map[string]string{
		"title":     "1984",
		"author":    "George Orwell",
		"genre":     "Fiction",
		"condition": "Good",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doRequest(t, ts, http.MethodGet, "/exchanges/received", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCreateBookValidationError(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "John Doe", "john@example.com")
	status, _ := doRequest(t, ts, http.MethodPost, "/books", token, map[string]string{
		"title":     "",
		"author":    "George Orwell",
		"genre":     "Fiction",
		"condition": "Mint",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestExchangeFlow(t *testing.T) {
	ts := newTestServer(t)
	ownerToken := registerAndLogin(t, ts, "John Doe", "john@example.com")
	requesterToken := registerAndLogin(t, ts, "Jane Smith", "jane@example.com")

	status, payload := doRequest(t, ts, http.MethodPost, "/books", ownerToken, map[string]string{
		"title":     "The Great Gatsby",
		"author":    "F. Scott Fitzgerald",
		"genre":     "Fiction",
		"condition": "Good",
	})
	require.Equal(t, http.StatusCreated, status)
	var requestedBook data.Book
	require.NoError(t, json.Unmarshal(payload["book"], &requestedBook))

	status, payload = doRequest(t, ts, http.MethodPost, "/books", requesterToken, map[string]string{
		"title":     "Clean Code",
		"author":    "Robert C. Martin",
		"genre":     "Technology",
		"condition": "Like New",
	})
	require.Equal(t, http.StatusCreated, status)
	var offeredBook data.Book
	require.NoError(t, json.Unmarshal(payload["book"], &offeredBook))

	status, payload = doRequest(t, ts, http.MethodPost, "/exchanges", requesterToken, map[string]string{
		"requestedBookId": requestedBook.ID,
		"offeredBookId":   offeredBook.ID,
		"message":         "Interested in swapping?",
	})
	require.Equal(t, http.StatusCreated, status)
	var exchange data.Exchange
	require.NoError(t, json.Unmarshal(payload["exchange"], &exchange))
	assert.Equal(t, data.ExchangeStatusPending, exchange.Status)
	assert.Contains(t, string(payload["exchange"]), `"requestedBookId"`)

	// The requester cannot respond to their own request.
	status, _ = doRequest(t, ts, http.MethodPut, "/exchanges/"+exchange.ID+"/respond", requesterToken, map[string]string{
		"action": "accept",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, payload = doRequest(t, ts, http.MethodPut, "/exchanges/"+exchange.ID+"/respond", ownerToken, map[string]string{
		"action": "accept",
	})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(payload["exchange"], &exchange))
	assert.Equal(t, data.ExchangeStatusAccepted, exchange.Status)

	// Responding a second time is rejected.
	status, _ = doRequest(t, ts, http.MethodPut, "/exchanges/"+exchange.ID+"/respond", ownerToken, map[string]string{
		"action": "decline",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// Ownership has swapped, so the requested book now shows up under the
	// requester's listings.
	status, payload = doRequest(t, ts, http.MethodGet, "/books/my", requesterToken, nil)
	require.Equal(t, http.StatusOK, status)
	var books []*data.Book
	require.NoError(t, json.Unmarshal(payload["books"], &books))
	require.Len(t, books, 1)
	assert.Equal(t, "The Great Gatsby", books[0].Title)
	assert.Equal(t, data.BookStatusExchangedAvailable, books[0].Status)
}

func TestSearchBooks(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "John Doe", "john@example.com")
	for _, title := range []string{"The Great Gatsby", "Clean Code"} {
		status, _ := doRequest(t, ts, http.MethodPost, "/books", token, map[string]string{
			"title":     title,
			"author":    "Author",
			"genre":     "Fiction",
			"condition": "Good",
		})
		require.Equal(t, http.StatusCreated, status)
	}
	status, payload := doRequest(t, ts, http.MethodGet, "/books/search?q=gatsby", token, nil)
	require.Equal(t, http.StatusOK, status)
	var books []*data.Book
	require.NoError(t, json.Unmarshal(payload["books"], &books))
	require.Len(t, books, 1)
	assert.Equal(t, "The Great Gatsby", books[0].Title)
}

func TestNotFoundRoute(t *testing.T) {
	ts := newTestServer(t)
	status, _ := doRequest(t, ts, http.MethodGet, "/nonexistent", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
