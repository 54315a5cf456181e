package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/avvvet/card-catalog/internal/catalogsvc/models"
	log "github.com/sirupsen/logrus"
)

// CatalogService is what the HTTP layer needs from the catalog.
type CatalogService interface {
	List(ctx context.Context, query string) ([]models.CardView, error)
	Get(ctx context.Context, id int64) (*models.CardView, error)
	Create(ctx context.Context, in models.CardInput) (*models.CardView, bool, error)
}

type Handler struct {
	catalog CatalogService
}

func NewHandler(catalog CatalogService) *Handler {
	return &Handler{catalog: catalog}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	h.writeJSON(w, rsp.Code, rsp)
}

// writeJSON writes v as the bare response body; card endpoints return the
// payload itself rather than the Response envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
