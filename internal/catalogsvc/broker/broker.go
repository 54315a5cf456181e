package broker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/avvvet/card-catalog/internal/catalogsvc/models"
	"github.com/avvvet/card-catalog/internal/catalogsvc/service"
	"github.com/avvvet/card-catalog/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

const (
	EventsTopic  = "catalog.events"
	ServiceTopic = "catalog.service"
)

// Conn is the part of *nats.Conn the broker uses.
type Conn interface {
	Publish(subj string, data []byte) error
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// CardReader answers card lookups coming in over NATS.
type CardReader interface {
	List(ctx context.Context, query string) ([]models.CardView, error)
	Get(ctx context.Context, id int64) (*models.CardView, error)
}

type Broker struct {
	Conn    Conn
	Catalog CardReader
	Timeout time.Duration
}

func NewBroker(nc Conn, catalog CardReader) *Broker {
	return &Broker{
		Conn:    nc,
		Catalog: catalog,
		Timeout: 10 * time.Second,
	}
}

func (b *Broker) PublishCardCreated(card models.CardView) {
	b.publishCardEvent(comm.TypeCardCreated, card)
}

func (b *Broker) PublishCardRestocked(card models.CardView) {
	b.publishCardEvent(comm.TypeCardRestocked, card)
}

func (b *Broker) publishCardEvent(eventType string, card models.CardView) {
	evt := comm.CardEvent{
		Card:      card,
		Timestamp: time.Now().UnixMilli(),
	}
	b.publishMessage(EventsTopic, eventType, evt, "")
}

// handles requests coming from other services
func (b *Broker) handleMessage(msgNat *nats.Msg) {
	msg := &comm.Message{}
	if err := json.Unmarshal(msgNat.Data, msg); err != nil {
		log.Errorf("Error nats message %s", err)
		return
	}

	topic := EventsTopic
	if msgNat.Reply != "" {
		topic = msgNat.Reply
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.Timeout)
	defer cancel()

	switch msg.Type {
	case comm.TypeListCards:
		var request comm.ListCardsRequest
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &request); err != nil {
				b.publishError(topic, http.StatusBadRequest, err, msg.SocketId)
				return
			}
		}

		cards, err := b.Catalog.List(ctx, request.Query)
		if err != nil {
			log.Errorf("Error [CatalogService.List] %s", err)
			b.publishError(topic, http.StatusInternalServerError, err, msg.SocketId)
			return
		}
		b.publishMessage(topic, comm.TypeListResponse, cards, msg.SocketId)
	case comm.TypeGetCard:
		var request comm.GetCardRequest
		if err := json.Unmarshal(msg.Data, &request); err != nil {
			b.publishError(topic, http.StatusBadRequest, err, msg.SocketId)
			return
		}

		card, err := b.Catalog.Get(ctx, request.ID)
		if err != nil {
			code := http.StatusInternalServerError
			if errors.Is(err, service.ErrNotFound) {
				code = http.StatusNotFound
			} else {
				log.Errorf("Error [CatalogService.Get] %s", err)
			}
			b.publishError(topic, code, err, msg.SocketId)
			return
		}
		b.publishMessage(topic, comm.TypeGetResponse, card, msg.SocketId)
	default:
		log.Warnf("unknown catalog message type %q", msg.Type)
	}
}

func (b *Broker) publishError(topic string, code int, err error, socketId string) {
	b.publishMessage(topic, comm.TypeErrorResponse, comm.ErrorResponse{Error: err.Error(), Code: code}, socketId)
}

func (b *Broker) publishMessage(topic, msgType string, v interface{}, socketId string) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("error [%s] unable to marshal payload: %s", msgType, err)
		return
	}

	payload, err := json.Marshal(&comm.Message{
		Type:     msgType,
		Data:     data,
		SocketId: socketId,
	})
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	b.Publish(topic, payload)
}

// consume requests addressed to the catalog service
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessage)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}
