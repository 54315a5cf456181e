package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/avvvet/card-catalog/internal/catalogsvc/catalog"
	"github.com/avvvet/card-catalog/internal/catalogsvc/models"
	"github.com/avvvet/card-catalog/internal/catalogsvc/store"
	log "github.com/sirupsen/logrus"
)

const maxNameLength = 200

// EventPublisher receives catalog changes after they are committed.
type EventPublisher interface {
	PublishCardCreated(card models.CardView)
	PublishCardRestocked(card models.CardView)
}

// CatalogService serves card reads and the upsert-by-name create.
type CatalogService struct {
	cardStore  *store.CardStore
	stockStore *store.StockStore
	images     *catalog.ImageResolver
	events     EventPublisher
}

func NewCatalogService(cardStore *store.CardStore, stockStore *store.StockStore, images *catalog.ImageResolver) *CatalogService {
	return &CatalogService{
		cardStore:  cardStore,
		stockStore: stockStore,
		images:     images,
	}
}

// SetPublisher attaches an event publisher; nil disables events.
func (s *CatalogService) SetPublisher(p EventPublisher) {
	s.events = p
}

// List returns every live card, or only those whose name, type or tribe
// contains query, sorted by name.
func (s *CatalogService) List(ctx context.Context, query string) ([]models.CardView, error) {
	rows, err := s.cardStore.List(ctx, nil, query)
	if err != nil {
		return nil, err
	}

	views := make([]models.CardView, 0, len(rows))
	for _, row := range rows {
		views = append(views, s.decorate(row))
	}
	return views, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*models.CardView, error) {
	row, err := s.cardStore.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotFound
	}

	view := s.decorate(*row)
	return &view, nil
}

// Create inserts a card, or when a card with the same name (ignoring case)
// already exists, adds one unit to its stock and leaves the card untouched.
// The bool result is true when a new card row was inserted.
func (s *CatalogService) Create(ctx context.Context, in models.CardInput) (*models.CardView, bool, error) {
	card, err := normalizeInput(in)
	if err != nil {
		return nil, false, err
	}

	tx, err := s.cardStore.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin create tx: %w", err)
	}
	defer tx.Rollback()

	existing, err := s.cardStore.FindByName(ctx, tx, card.Name)
	if err != nil {
		return nil, false, err
	}

	created := existing == nil
	id := card.ID
	if created {
		id, err = s.cardStore.Insert(ctx, tx, card)
		if err != nil {
			if store.IsUniqueViolation(err) {
				return nil, false, ErrConflict
			}
			return nil, false, err
		}
		price, _ := catalog.DeriveAttributes(card.Name, id)
		err = s.stockStore.Insert(ctx, tx, models.StockRecord{CardID: id, Quantity: 1, Price: price})
	} else {
		id = existing.ID
		price, _ := catalog.DeriveAttributes(existing.Name, id)
		err = s.stockStore.Restock(ctx, tx, id, price)
	}
	if err != nil {
		return nil, false, err
	}

	row, err := s.cardStore.GetByID(ctx, tx, id)
	if err != nil {
		return nil, false, err
	}
	if row == nil {
		return nil, false, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		if store.IsUniqueViolation(err) {
			return nil, false, ErrConflict
		}
		return nil, false, fmt.Errorf("commit create tx: %w", err)
	}

	view := s.decorate(*row)
	if s.events != nil {
		if created {
			s.events.PublishCardCreated(view)
		} else {
			s.events.PublishCardRestocked(view)
		}
	}

	log.WithFields(log.Fields{
		"id":       view.ID,
		"created":  created,
		"quantity": view.Quantity,
	}).Debug("card stocked")

	return &view, created, nil
}

// decorate attaches the image path and price/quantity. Cards without a stock
// row get generated values; these are not written back.
func (s *CatalogService) decorate(row models.CardWithStock) models.CardView {
	view := models.CardView{Card: row.Card}
	if s.images != nil {
		view.Image = s.images.Resolve(row.Card.Name)
	}

	if row.Stock != nil {
		view.Price = row.Stock.Price
		view.Quantity = row.Stock.Quantity
	} else {
		view.Price, view.Quantity = catalog.DeriveAttributes(row.Card.Name, row.Card.ID)
	}
	return view
}

// normalizeInput validates the payload and returns the card to store:
// trimmed text fields, and spells carry no attack or health.
func normalizeInput(in models.CardInput) (models.Card, error) {
	card := models.Card{
		Name:     strings.TrimSpace(in.Name),
		CardType: strings.TrimSpace(in.CardType),
		Attack:   in.Attack,
		Health:   in.Health,
		Tribe:    strings.TrimSpace(in.Tribe),
		Text:     strings.TrimSpace(in.Text),
	}

	switch {
	case card.Name == "":
		return card, &ValidationError{Field: "name", Reason: "must not be empty"}
	case utf8.RuneCountInString(card.Name) > maxNameLength:
		return card, &ValidationError{Field: "name", Reason: fmt.Sprintf("must be at most %d characters", maxNameLength)}
	case card.CardType == "":
		return card, &ValidationError{Field: "card_type", Reason: "must not be empty"}
	case in.Cost == nil:
		return card, &ValidationError{Field: "cost", Reason: "is required"}
	case *in.Cost < 0:
		return card, &ValidationError{Field: "cost", Reason: "must be >= 0"}
	case card.Attack < 0:
		return card, &ValidationError{Field: "attack", Reason: "must be >= 0"}
	case card.Health < 0:
		return card, &ValidationError{Field: "health", Reason: "must be >= 0"}
	}

	card.Cost = *in.Cost
	if strings.ToLower(card.CardType) == "spell" {
		card.Attack = 0
		card.Health = 0
	}
	return card, nil
}
