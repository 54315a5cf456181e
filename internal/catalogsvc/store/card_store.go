package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avvvet/card-catalog/internal/catalogsvc/models"
)

// null-safe column list; legacy rows may hold NULLs
const cardColumns = `
	c.id,
	COALESCE(c.name, ''),
	COALESCE(c.card_type, ''),
	COALESCE(c.cost, 0),
	COALESCE(c.attack, 0),
	COALESCE(c.health, 0),
	COALESCE(c.tribe, ''),
	COALESCE(c.text, ''),
	s.card_id,
	s.quantity,
	s.price`

type CardStore struct {
	db *sql.DB
}

func NewCardStore(db *sql.DB) *CardStore {
	return &CardStore{db: db}
}

// DB exposes the pool so services can open transactions over the same handle.
func (s *CardStore) DB() *sql.DB {
	return s.db
}

// List returns cards joined with their stock, ordered by name then id. A
// non-empty query keeps rows whose name, card_type or tribe contains it,
// ignoring case.
func (s *CardStore) List(ctx context.Context, q DBTX, search string) ([]models.CardWithStock, error) {
	q = orDB(s.db, q)

	query := `SELECT` + cardColumns + `
		FROM cards c
		LEFT JOIN card_stock s ON s.card_id = c.id`

	var args []any
	if search != "" {
		needle := strings.ToLower(search)
		query += `
		WHERE instr(lower(COALESCE(c.name, '')), ?) > 0
		   OR instr(lower(COALESCE(c.card_type, '')), ?) > 0
		   OR instr(lower(COALESCE(c.tribe, '')), ?) > 0`
		args = append(args, needle, needle, needle)
	}
	query += `
		ORDER BY c.name ASC, c.id ASC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	cards := []models.CardWithStock{}
	for rows.Next() {
		cw, err := scanCardWithStock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, *cw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	return cards, nil
}

// GetByID returns nil, nil when the card does not exist.
func (s *CardStore) GetByID(ctx context.Context, q DBTX, id int64) (*models.CardWithStock, error) {
	q = orDB(s.db, q)

	query := `SELECT` + cardColumns + `
		FROM cards c
		LEFT JOIN card_stock s ON s.card_id = c.id
		WHERE c.id = ?`

	cw, err := scanCardWithStock(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get card by id: %w", err)
	}

	return cw, nil
}

// FindByName matches the stored name exactly under NOCASE collation, the
// same notion the unique index enforces. Returns nil, nil when absent.
func (s *CardStore) FindByName(ctx context.Context, q DBTX, name string) (*models.Card, error) {
	q = orDB(s.db, q)

	query := `
		SELECT id
		FROM cards
		WHERE name = ? COLLATE NOCASE
		ORDER BY id
		LIMIT 1`

	var id int64
	if err := q.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find card by name: %w", err)
	}

	cw, err := s.GetByID(ctx, q, id)
	if err != nil || cw == nil {
		return nil, err
	}
	return &cw.Card, nil
}

// Insert stores a new card and returns its id.
func (s *CardStore) Insert(ctx context.Context, q DBTX, c models.Card) (int64, error) {
	q = orDB(s.db, q)

	query := `
		INSERT INTO cards (name, card_type, cost, attack, health, tribe, text)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	res, err := q.ExecContext(ctx, query, c.Name, c.CardType, c.Cost, c.Attack, c.Health, c.Tribe, c.Text)
	if err != nil {
		return 0, fmt.Errorf("could not create card: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("could not read new card id: %w", err)
	}
	return id, nil
}

// Names returns id and raw name of every card, ordered by id.
func (s *CardStore) Names(ctx context.Context, q DBTX) ([]models.Card, error) {
	q = orDB(s.db, q)

	rows, err := q.QueryContext(ctx, `SELECT id, COALESCE(name, '') FROM cards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load card names: %w", err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// WithoutStock returns id and name of every card lacking a stock row.
func (s *CardStore) WithoutStock(ctx context.Context, q DBTX) ([]models.Card, error) {
	q = orDB(s.db, q)

	query := `
		SELECT c.id, COALESCE(c.name, '')
		FROM cards c
		LEFT JOIN card_stock s ON s.card_id = c.id
		WHERE s.card_id IS NULL
		ORDER BY c.id`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find cards without stock: %w", err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// Delete removes cards by id. Their stock rows go with them through the
// ON DELETE CASCADE foreign key.
func (s *CardStore) Delete(ctx context.Context, q DBTX, ids ...int64) (int64, error) {
	q = orDB(s.db, q)

	var deleted int64
	for _, id := range ids {
		res, err := q.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
		if err != nil {
			return deleted, fmt.Errorf("failed to delete card %d: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return deleted, err
		}
		deleted += n
	}
	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCardWithStock(row rowScanner) (*models.CardWithStock, error) {
	var (
		cw       models.CardWithStock
		stockID  sql.NullInt64
		quantity sql.NullInt64
		price    sql.NullFloat64
	)

	err := row.Scan(
		&cw.Card.ID,
		&cw.Card.Name,
		&cw.Card.CardType,
		&cw.Card.Cost,
		&cw.Card.Attack,
		&cw.Card.Health,
		&cw.Card.Tribe,
		&cw.Card.Text,
		&stockID,
		&quantity,
		&price,
	)
	if err != nil {
		return nil, err
	}

	if stockID.Valid {
		cw.Stock = &models.StockRecord{
			CardID:   stockID.Int64,
			Quantity: int(quantity.Int64),
			Price:    price.Float64,
		}
	}
	return &cw, nil
}
