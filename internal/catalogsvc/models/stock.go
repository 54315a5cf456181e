package models

// DefaultStockPrice is the price given to a stock row created by a dedupe merge.
const DefaultStockPrice = 1.0

// StockRecord is a row of card_stock, one per live card.
type StockRecord struct {
	CardID   int64   `json:"card_id"` // FK to cards(id)
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}
