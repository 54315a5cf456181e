package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/avvvet/card-catalog/internal/catalogsvc/catalog"
	"github.com/avvvet/card-catalog/internal/catalogsvc/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	created   []models.CardView
	restocked []models.CardView
}

func (p *recordingPublisher) PublishCardCreated(card models.CardView) {
	p.created = append(p.created, card)
}

func (p *recordingPublisher) PublishCardRestocked(card models.CardView) {
	p.restocked = append(p.restocked, card)
}

func initializedCatalog(t *testing.T) (*CatalogService, func(query string, args ...any) int) {
	t.Helper()
	conn := openTestDB(t)
	_, err := Initialize(context.Background(), conn)
	require.NoError(t, err)

	svc := newCatalog(conn, catalog.NewImageResolver(filepath.Join(t.TempDir(), "none"), "assets/cards"))
	return svc, func(query string, args ...any) int { return countRows(t, conn, query, args...) }
}

func TestCreateThenRestockByName(t *testing.T) {
	svc, count := initializedCatalog(t)
	pub := &recordingPublisher{}
	svc.SetPublisher(pub)
	ctx := context.Background()

	first, created, err := svc.Create(ctx, models.CardInput{Name: " Fireball ", CardType: "Spell", Cost: intPtr(4), Tribe: "Fire", Text: "Deal 6."})
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, "Fireball", first.Name)
	assert.Equal(t, 1, first.Quantity)
	wantPrice, _ := catalog.DeriveAttributes("Fireball", first.ID)
	assert.Equal(t, wantPrice, first.Price)

	second, created, err := svc.Create(ctx, models.CardInput{Name: "fireball", CardType: "Minion", Cost: intPtr(9), Attack: 3, Health: 3})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Quantity)
	assert.Equal(t, first.Price, second.Price)
	assert.Equal(t, "Spell", second.CardType, "restock leaves card attributes untouched")
	assert.Equal(t, 4, second.Cost)

	assert.Equal(t, 1, count(`SELECT COUNT(*) FROM cards`))
	require.Len(t, pub.created, 1)
	require.Len(t, pub.restocked, 1)
	assert.Equal(t, 2, pub.restocked[0].Quantity)
}

func TestCreateSpellZeroesStats(t *testing.T) {
	svc, _ := initializedCatalog(t)
	ctx := context.Background()

	card, created, err := svc.Create(ctx, models.CardInput{Name: "Heal", CardType: "Spell", Cost: intPtr(1), Attack: 5, Health: 5})
	require.NoError(t, err)
	require.True(t, created)
	assert.Zero(t, card.Attack)
	assert.Zero(t, card.Health)

	stored, err := svc.Get(ctx, card.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Attack)
	assert.Zero(t, stored.Health)

	card, _, err = svc.Create(ctx, models.CardInput{Name: "Smite", CardType: "  sPeLL ", Cost: intPtr(0), Attack: 2, Health: 1})
	require.NoError(t, err)
	assert.Equal(t, "sPeLL", card.CardType)
	assert.Zero(t, card.Attack)

	card, _, err = svc.Create(ctx, models.CardInput{Name: "Knight", CardType: "Minion", Cost: intPtr(3), Attack: 2, Health: 4})
	require.NoError(t, err)
	assert.Equal(t, 2, card.Attack)
	assert.Equal(t, 4, card.Health)
}

func TestCreateValidation(t *testing.T) {
	svc, count := initializedCatalog(t)

	cases := []struct {
		in    models.CardInput
		field string
	}{
		{models.CardInput{Name: "   ", CardType: "Minion", Cost: intPtr(0)}, "name"},
		{models.CardInput{Name: "Imp", CardType: "", Cost: intPtr(0)}, "card_type"},
		{models.CardInput{Name: "Imp", CardType: "Minion"}, "cost"},
		{models.CardInput{Name: "Imp", CardType: "Minion", Cost: intPtr(-1)}, "cost"},
		{models.CardInput{Name: "Imp", CardType: "Minion", Cost: intPtr(0), Attack: -1}, "attack"},
		{models.CardInput{Name: "Imp", CardType: "Minion", Cost: intPtr(0), Health: -2}, "health"},
	}

	for _, c := range cases {
		_, _, err := svc.Create(context.Background(), c.in)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, c.field, verr.Field)
	}
	assert.Zero(t, count(`SELECT COUNT(*) FROM cards`))
}

func TestWhitespaceVariantsCoexistUntilDedupe(t *testing.T) {
	conn := openTestDB(t)
	_, err := Initialize(context.Background(), conn)
	require.NoError(t, err)
	svc := newCatalog(conn, nil)
	ctx := context.Background()

	a, created, err := svc.Create(ctx, models.CardInput{Name: "Fire Ball", CardType: "Spell", Cost: intPtr(0)})
	require.NoError(t, err)
	require.True(t, created)
	_, created, err = svc.Create(ctx, models.CardInput{Name: "Fire  Ball", CardType: "Spell", Cost: intPtr(0)})
	require.NoError(t, err)
	require.True(t, created, "create-by-name does not collapse whitespace")

	report, err := newReconciler(conn).Dedupe(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Groups)

	master, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, master.Quantity)
}

func TestListOrderAndSearch(t *testing.T) {
	svc, _ := initializedCatalog(t)
	ctx := context.Background()

	for _, in := range []models.CardInput{
		{Name: "Zombie", CardType: "Minion", Cost: intPtr(0), Tribe: "Undead"},
		{Name: "apple", CardType: "Spell", Cost: intPtr(0)},
		{Name: "Bat", CardType: "Minion", Cost: intPtr(0), Tribe: "Beast"},
	} {
		_, _, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bat", "Zombie", "apple"}, names(all))

	undead, err := svc.List(ctx, "UNDEAD")
	require.NoError(t, err)
	assert.Equal(t, []string{"Zombie"}, names(undead))

	minions, err := svc.List(ctx, "minion")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bat", "Zombie"}, names(minions))

	byName, err := svc.List(ctx, "PPL")
	require.NoError(t, err)
	assert.Equal(t, []string{"apple"}, names(byName))

	none, err := svc.List(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func TestGetNotFound(t *testing.T) {
	svc, _ := initializedCatalog(t)

	_, err := svc.Get(context.Background(), 4242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadFallbackDoesNotPersist(t *testing.T) {
	conn := openTestDB(t)
	seedCard(t, conn, 9, "Orphan")
	svc := newCatalog(conn, nil)

	card, err := svc.Get(context.Background(), 9)
	require.NoError(t, err)

	price, qty := catalog.DeriveAttributes("Orphan", 9)
	assert.Equal(t, price, card.Price)
	assert.Equal(t, qty, card.Quantity)

	_, _, ok := stockOf(t, conn, 9)
	assert.False(t, ok)
}

func TestRestockCreatesMissingStockRow(t *testing.T) {
	conn := openTestDB(t)
	seedCard(t, conn, 3, "Orphan")
	svc := newCatalog(conn, nil)
	ctx := context.Background()

	card, created, err := svc.Create(ctx, models.CardInput{Name: "ORPHAN", CardType: "Minion", Cost: intPtr(0)})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(3), card.ID)
	assert.Equal(t, 1, card.Quantity)

	price, _ := catalog.DeriveAttributes("Orphan", 3)
	assert.Equal(t, price, card.Price)

	card, _, err = svc.Create(ctx, models.CardInput{Name: "orphan", CardType: "Minion", Cost: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 2, card.Quantity)
}

func TestDecorateResolvesImage(t *testing.T) {
	conn := openTestDB(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Fire_Drake.png"), []byte("png"), 0644))
	svc := newCatalog(conn, catalog.NewImageResolver(dir, "assets/cards"))
	ctx := context.Background()

	drake, _, err := svc.Create(ctx, models.CardInput{Name: "Fire Drake", CardType: "Minion", Cost: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, "assets/cards/Fire_Drake.png", drake.Image)

	other, _, err := svc.Create(ctx, models.CardInput{Name: "Nobody", CardType: "Minion", Cost: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, "assets/cards/placeholder.png", other.Image)
}

func names(views []models.CardView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Name)
	}
	return out
}
