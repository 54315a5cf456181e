package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/avvvet/card-catalog/internal/catalogsvc/catalog"
	"github.com/avvvet/card-catalog/internal/catalogsvc/db"
	"github.com/avvvet/card-catalog/internal/catalogsvc/models"
	"github.com/avvvet/card-catalog/internal/catalogsvc/store"
	log "github.com/sirupsen/logrus"
)

// DedupeReport summarises one dedupe pass.
type DedupeReport struct {
	Groups       int   // duplicate groups merged
	Deleted      int64 // card rows removed
	QuantityMove int   // units added to masters
}

// InitReport summarises the startup sequence.
type InitReport struct {
	Dedupe     DedupeReport
	Backfilled int
}

// Reconciler merges duplicate cards and backfills missing stock rows.
type Reconciler struct {
	db         *sql.DB
	cardStore  *store.CardStore
	stockStore *store.StockStore
}

func NewReconciler(cardStore *store.CardStore, stockStore *store.StockStore) *Reconciler {
	return &Reconciler{
		db:         cardStore.DB(),
		cardStore:  cardStore,
		stockStore: stockStore,
	}
}

// Dedupe folds cards sharing a canonical key into the one with the smallest
// id. The master keeps at least the group's total quantity; the others are
// deleted along with their stock. The whole pass is one transaction.
func (r *Reconciler) Dedupe(ctx context.Context) (DedupeReport, error) {
	var report DedupeReport

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return report, fmt.Errorf("begin dedupe tx: %w", err)
	}
	defer tx.Rollback()

	cards, err := r.cardStore.Names(ctx, tx)
	if err != nil {
		return report, err
	}
	stock, err := r.stockStore.All(ctx, tx)
	if err != nil {
		return report, err
	}

	groups := make(map[string][]int64)
	var keys []string
	for _, c := range cards {
		key := catalog.CanonicalKey(c.Name)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], c.ID)
	}

	for _, key := range keys {
		ids := groups[key]
		if len(ids) < 2 {
			continue
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		master, others := ids[0], ids[1:]

		total := 0
		for _, id := range ids {
			total += stock[id].Quantity
		}

		masterStock, hasStock := stock[master]
		delta := total - masterStock.Quantity
		if delta < 0 {
			delta = 0
		}

		if hasStock {
			err = r.stockStore.AddQuantity(ctx, tx, master, delta)
		} else {
			err = r.stockStore.Insert(ctx, tx, models.StockRecord{
				CardID:   master,
				Quantity: delta,
				Price:    models.DefaultStockPrice,
			})
		}
		if err != nil {
			return report, err
		}

		var deleted int64
		deleted, err = r.cardStore.Delete(ctx, tx, others...)
		if err != nil {
			return report, err
		}

		log.WithFields(log.Fields{
			"key":     key,
			"master":  master,
			"removed": others,
			"moved":   delta,
		}).Info("merged duplicate cards")

		report.Groups++
		report.Deleted += deleted
		report.QuantityMove += delta
	}

	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("commit dedupe tx: %w", err)
	}
	return report, nil
}

// Backfill gives every card without a stock row one derived from its name and id.
func (r *Reconciler) Backfill(ctx context.Context) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin backfill tx: %w", err)
	}
	defer tx.Rollback()

	missing, err := r.cardStore.WithoutStock(ctx, tx)
	if err != nil {
		return 0, err
	}

	for _, c := range missing {
		price, qty := catalog.DeriveAttributes(c.Name, c.ID)
		err := r.stockStore.Insert(ctx, tx, models.StockRecord{
			CardID:   c.ID,
			Quantity: qty,
			Price:    price,
		})
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit backfill tx: %w", err)
	}
	return len(missing), nil
}

// Initialize prepares the store before traffic is served: schema, dedupe,
// stock backfill, then the unique name index. Safe to run repeatedly; must
// not run alongside live writes.
func Initialize(ctx context.Context, conn *sql.DB) (InitReport, error) {
	var report InitReport

	if err := db.EnsureSchema(ctx, conn); err != nil {
		return report, err
	}

	r := NewReconciler(store.NewCardStore(conn), store.NewStockStore(conn))

	dedupe, err := r.Dedupe(ctx)
	if err != nil {
		return report, fmt.Errorf("dedupe: %w", err)
	}
	report.Dedupe = dedupe

	n, err := r.Backfill(ctx)
	if err != nil {
		return report, fmt.Errorf("backfill stock: %w", err)
	}
	report.Backfilled = n

	if err := db.EnsureUniqueNameIndex(ctx, conn); err != nil {
		return report, err
	}

	log.WithFields(log.Fields{
		"groups":     report.Dedupe.Groups,
		"deleted":    report.Dedupe.Deleted,
		"moved":      report.Dedupe.QuantityMove,
		"backfilled": report.Backfilled,
	}).Info("catalog reconciled")

	return report, nil
}
