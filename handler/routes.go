package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	router.HandlerFunc(http.MethodPost, "/auth/register", h.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/auth/login", h.createAuthenticationTokenHandler)

	// Browsing and searching listings is open to anonymous clients.
	router.HandlerFunc(http.MethodGet, "/books", h.listBooksHandler)
	router.HandlerFunc(http.MethodGet, "/books/my", h.requireAuthenticatedUser(h.listUserBooksHandler))
	router.HandlerFunc(http.MethodGet, "/books/search", h.searchBooksHandler)
	router.HandlerFunc(http.MethodPost, "/books", h.requireAuthenticatedUser(h.createBookHandler))
	router.HandlerFunc(http.MethodPut, "/books/:bookId", h.requireAuthenticatedUser(h.updateBookHandler))
	router.HandlerFunc(http.MethodDelete, "/books/:bookId", h.requireAuthenticatedUser(h.deleteBookHandler))
	router.HandlerFunc(http.MethodPatch, "/books/:bookId/cover", h.requireAuthenticatedUser(h.updateBookCoverHandler))

	router.HandlerFunc(http.MethodPost, "/exchanges", h.requireAuthenticatedUser(h.createExchangeHandler))
	router.HandlerFunc(http.MethodGet, "/exchanges/received", h.requireAuthenticatedUser(h.listReceivedExchangesHandler))
	router.HandlerFunc(http.MethodGet, "/exchanges/sent", h.requireAuthenticatedUser(h.listSentExchangesHandler))
	router.HandlerFunc(http.MethodPut, "/exchanges/:exchangeId/respond", h.requireAuthenticatedUser(h.respondToExchangeHandler))

	router.HandlerFunc(http.MethodGet, "/health", h.healthcheckHandler)

	if h.config.Metrics.Enabled {
		router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
	}

	// Swagger routes
	router.HandlerFunc(http.MethodGet, "/spec", h.handleSwaggerFile())
	router.HandlerFunc(http.MethodGet, "/docs/*any", httpSwagger.Handler(httpSwagger.URL("/spec")))

	return h.metrics(h.recoverPanic(h.enableCORS(h.rateLimit(h.authenticate(router)))))
}
