package models

// Card is a row of the cards table.
type Card struct {
	ID       int64  `json:"id"` // Primary key
	Name     string `json:"name"`
	CardType string `json:"card_type"`
	Cost     int    `json:"cost"`
	Attack   int    `json:"attack"`
	Health   int    `json:"health"`
	Tribe    string `json:"tribe"`
	Text     string `json:"text"`
}

// CardInput is the create payload. Attack, health, tribe and text are optional;
// Cost is a pointer so a missing or null cost can be rejected.
type CardInput struct {
	Name     string `json:"name"`
	CardType string `json:"card_type"`
	Cost     *int   `json:"cost"`
	Attack   int    `json:"attack"`
	Health   int    `json:"health"`
	Tribe    string `json:"tribe"`
	Text     string `json:"text"`
}

// CardView is a card decorated for clients: image path plus price and
// quantity from its stock record, or generated when it has none.
type CardView struct {
	Card
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// CardWithStock is a card joined with its stock record, if any.
type CardWithStock struct {
	Card  Card
	Stock *StockRecord
}
