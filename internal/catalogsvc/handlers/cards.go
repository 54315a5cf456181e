package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/avvvet/card-catalog/internal/catalogsvc/models"
	"github.com/avvvet/card-catalog/internal/catalogsvc/service"
	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.catalog.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, cards)
}

func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.CreateResponse(w, Response{
			Message: "card id must be an integer",
			Code:    http.StatusBadRequest,
			Error:   err.Error(),
		})
		return
	}

	card, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, card)
}

// CreateCard answers 201 when a new card row was inserted and 200 when an
// existing card of the same name was restocked.
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var in models.CardInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		h.CreateResponse(w, Response{
			Message: "invalid request body",
			Code:    http.StatusBadRequest,
			Error:   err.Error(),
		})
		return
	}

	card, created, err := h.catalog.Create(r.Context(), in)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	h.writeJSON(w, code, card)
}

func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		h.CreateResponse(w, Response{
			Message: "validation failed",
			Code:    http.StatusUnprocessableEntity,
			Data:    map[string]string{"field": verr.Field},
			Error:   verr.Error(),
		})
	case errors.Is(err, service.ErrNotFound):
		h.CreateResponse(w, Response{
			Message: "Card not found",
			Code:    http.StatusNotFound,
			Error:   err.Error(),
		})
	case errors.Is(err, service.ErrConflict):
		h.CreateResponse(w, Response{
			Message: "card name already exists",
			Code:    http.StatusConflict,
			Error:   err.Error(),
		})
	default:
		log.Errorf("catalog request failed: %v", err)
		h.CreateResponse(w, Response{
			Message: "internal error",
			Code:    http.StatusInternalServerError,
			Error:   http.StatusText(http.StatusInternalServerError),
		})
	}
}
