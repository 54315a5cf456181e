package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/avvvet/card-catalog/internal/catalogsvc/catalog"
	"github.com/avvvet/card-catalog/internal/catalogsvc/db"
	"github.com/avvvet/card-catalog/internal/catalogsvc/store"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Connect(filepath.Join(t.TempDir(), "cards.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.EnsureSchema(context.Background(), conn))
	return conn
}

// seedCard inserts a card row directly, bypassing the unique index checks of Create.
func seedCard(t *testing.T, conn *sql.DB, id int64, name string) {
	t.Helper()
	_, err := conn.Exec(
		`INSERT INTO cards (id, name, card_type, cost, attack, health, tribe, text) VALUES (?, ?, 'Minion', 1, 1, 1, '', '')`,
		id, name,
	)
	require.NoError(t, err)
}

func seedStock(t *testing.T, conn *sql.DB, id int64, qty int, price float64) {
	t.Helper()
	_, err := conn.Exec(`INSERT INTO card_stock (card_id, quantity, price) VALUES (?, ?, ?)`, id, qty, price)
	require.NoError(t, err)
}

func stockOf(t *testing.T, conn *sql.DB, id int64) (qty int, price float64, ok bool) {
	t.Helper()
	err := conn.QueryRow(`SELECT quantity, price FROM card_stock WHERE card_id = ?`, id).Scan(&qty, &price)
	if err == sql.ErrNoRows {
		return 0, 0, false
	}
	require.NoError(t, err)
	return qty, price, true
}

func countRows(t *testing.T, conn *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(query, args...).Scan(&n))
	return n
}

func newReconciler(conn *sql.DB) *Reconciler {
	return NewReconciler(store.NewCardStore(conn), store.NewStockStore(conn))
}

func newCatalog(conn *sql.DB, images *catalog.ImageResolver) *CatalogService {
	return NewCatalogService(store.NewCardStore(conn), store.NewStockStore(conn), images)
}

func intPtr(v int) *int { return &v }
