package comm

import (
	"encoding/json"

	"github.com/avvvet/card-catalog/internal/catalogsvc/models"
)

// message types on the catalog subjects
const (
	TypeCardCreated   = "card.created"
	TypeCardRestocked = "card.restocked"
	TypeListCards     = "list-cards"
	TypeGetCard       = "get-card"
	TypeListResponse  = "list-cards-response"
	TypeGetResponse   = "get-card-response"
	TypeErrorResponse = "error-response"
)

// Message is the envelope for everything published or consumed over NATS.
type Message struct {
	Type     string          `json:"type"`
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid,omitempty"`
}

type CardEvent struct {
	Card      models.CardView `json:"card"`
	Timestamp int64           `json:"timestamp"`
}

type ListCardsRequest struct {
	Query string `json:"q"`
}

type GetCardRequest struct {
	ID int64 `json:"id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
