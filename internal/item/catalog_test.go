package item

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethelgard/game-backend/internal/domain"
)

// fakeRepository counts reads so cache behavior is observable.
type fakeRepository struct {
	mu    sync.Mutex
	defs  map[string]*domain.ItemDefinition
	reads int
}

func newFakeRepository(defs ...*domain.ItemDefinition) *fakeRepository {
	m := make(map[string]*domain.ItemDefinition, len(defs))
	for _, d := range defs {
		m[d.ID] = d
	}
	return &fakeRepository{defs: m}
}

func (f *fakeRepository) GetByID(ctx context.Context, itemID string) (*domain.ItemDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	d, ok := f.defs[itemID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return d, nil
}

func (f *fakeRepository) Upsert(ctx context.Context, def *domain.ItemDefinition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.defs[def.ID] = def
	return nil
}

func (f *fakeRepository) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func swordDef() *domain.ItemDefinition {
	return &domain.ItemDefinition{
		ID:        "ITEM_IRON_SWORD",
		Name:      "Iron Sword",
		Type:      domain.ItemTypeWeapon,
		Rarity:    domain.RarityCommon,
		Stackable: false,
		MaxStack:  1,
	}
}

func TestCatalogGetDefinition(t *testing.T) {
	ctx := context.Background()

	t.Run("serves repeated lookups from cache", func(t *testing.T) {
		repo := newFakeRepository(swordDef())
		catalog := NewCatalog(repo)

		for i := 0; i < 3; i++ {
			def, err := catalog.GetDefinition(ctx, "ITEM_IRON_SWORD")
			require.NoError(t, err)
			assert.Equal(t, "Iron Sword", def.Name)
		}

		assert.Equal(t, 1, repo.readCount())
	})

	t.Run("unknown id is not found and not cached", func(t *testing.T) {
		repo := newFakeRepository()
		catalog := NewCatalog(repo)

		_, err := catalog.GetDefinition(ctx, "ITEM_MISSING")
		assert.ErrorIs(t, err, domain.ErrItemNotFound)

		_, err = catalog.GetDefinition(ctx, "ITEM_MISSING")
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
		assert.Equal(t, 2, repo.readCount())
	})

	t.Run("upsert refreshes cached entry", func(t *testing.T) {
		repo := newFakeRepository(swordDef())
		catalog := NewCatalog(repo)

		_, err := catalog.GetDefinition(ctx, "ITEM_IRON_SWORD")
		require.NoError(t, err)

		updated := swordDef()
		updated.Name = "Tempered Iron Sword"
		require.NoError(t, catalog.Upsert(ctx, updated))

		def, err := catalog.GetDefinition(ctx, "ITEM_IRON_SWORD")
		require.NoError(t, err)
		assert.Equal(t, "Tempered Iron Sword", def.Name)
	})
}
