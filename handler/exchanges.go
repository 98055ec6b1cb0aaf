package handler

import (
	"errors"
	"net/http"

	"github.com/emzola/bookswap/data/dto"
	"github.com/emzola/bookswap/service"
)

func (h *Handler) createExchangeHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateExchangeRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	requester := h.contextGetUser(r)
	exchange, err := h.service.CreateExchange(requester, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		case errors.Is(err, service.ErrInvalidState):
			h.invalidStateResponse(w, r, "both books must be available for exchange and belong to different users")
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusCreated, envelope{"exchange": exchange}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) listReceivedExchangesHandler(w http.ResponseWriter, r *http.Request) {
	user := h.contextGetUser(r)
	exchanges, err := h.service.ListReceivedExchanges(user.ID)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"exchanges": exchanges}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) listSentExchangesHandler(w http.ResponseWriter, r *http.Request) {
	user := h.contextGetUser(r)
	exchanges, err := h.service.ListSentExchanges(user.ID)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"exchanges": exchanges}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) respondToExchangeHandler(w http.ResponseWriter, r *http.Request) {
	exchangeID, err := h.readIDParam(r, "exchangeId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.RespondToExchangeRequestBody
	err = h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	exchange, err := h.service.RespondToExchange(user.ID, exchangeID, requestBody.Action)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		case errors.Is(err, service.ErrInvalidState):
			h.invalidStateResponse(w, r, "this exchange request has already been responded to")
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"exchange": exchange}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
