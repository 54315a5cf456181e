package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avvvet/card-catalog/internal/catalogsvc/models"
)

type StockStore struct {
	db *sql.DB
}

func NewStockStore(db *sql.DB) *StockStore {
	return &StockStore{db: db}
}

// All returns every stock row keyed by card id.
func (s *StockStore) All(ctx context.Context, q DBTX) (map[int64]models.StockRecord, error) {
	q = orDB(s.db, q)

	rows, err := q.QueryContext(ctx, `SELECT card_id, quantity, price FROM card_stock`)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}
	defer rows.Close()

	stock := make(map[int64]models.StockRecord)
	for rows.Next() {
		var r models.StockRecord
		if err := rows.Scan(&r.CardID, &r.Quantity, &r.Price); err != nil {
			return nil, err
		}
		stock[r.CardID] = r
	}
	return stock, rows.Err()
}

// Insert creates a stock row for a card that has none.
func (s *StockStore) Insert(ctx context.Context, q DBTX, r models.StockRecord) error {
	q = orDB(s.db, q)

	_, err := q.ExecContext(ctx,
		`INSERT INTO card_stock (card_id, quantity, price) VALUES (?, ?, ?)`,
		r.CardID, r.Quantity, r.Price,
	)
	if err != nil {
		return fmt.Errorf("could not create stock for card %d: %w", r.CardID, err)
	}
	return nil
}

// AddQuantity increases an existing stock row by delta.
func (s *StockStore) AddQuantity(ctx context.Context, q DBTX, cardID int64, delta int) error {
	q = orDB(s.db, q)

	_, err := q.ExecContext(ctx,
		`UPDATE card_stock SET quantity = quantity + ? WHERE card_id = ?`,
		delta, cardID,
	)
	if err != nil {
		return fmt.Errorf("could not update stock for card %d: %w", cardID, err)
	}
	return nil
}

// Restock adds one unit to the card's stock, creating the row with quantity 1
// and the given price when it does not exist yet.
func (s *StockStore) Restock(ctx context.Context, q DBTX, cardID int64, price float64) error {
	q = orDB(s.db, q)

	query := `
		INSERT INTO card_stock (card_id, quantity, price)
		VALUES (?, 1, ?)
		ON CONFLICT(card_id) DO UPDATE SET quantity = quantity + 1`

	if _, err := q.ExecContext(ctx, query, cardID, price); err != nil {
		return fmt.Errorf("could not restock card %d: %w", cardID, err)
	}
	return nil
}
