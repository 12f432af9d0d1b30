package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modiv-eventcraft/models"
)

func TestSnapshotByID(t *testing.T) {
	snapshot := testSnapshot()

	item, ok := snapshot.ByID("led-screen")
	require.True(t, ok)
	assert.Equal(t, "LED Screen 4x3m", item.Name)
	assert.Equal(t, int64(8000000), item.Price)

	_, ok = snapshot.ByID("no-such-item")
	assert.False(t, ok)
}

func TestSnapshotPreservesCatalogOrder(t *testing.T) {
	snapshot := testSnapshot()

	ids := make([]string, 0, snapshot.Len())
	for _, item := range snapshot.All() {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"sound-5000", "led-screen", "genset-60"}, ids)
}

func TestSnapshotCopiesInput(t *testing.T) {
	items := []models.CatalogItem{{ID: "a", Name: "Stage Riser", Price: 750000}}
	snapshot := NewSnapshot(items)

	items[0].Price = 1

	got, ok := snapshot.ByID("a")
	require.True(t, ok)
	assert.Equal(t, int64(750000), got.Price)
}

func TestEmptySnapshot(t *testing.T) {
	snapshot := NewSnapshot(nil)
	assert.Equal(t, 0, snapshot.Len())
	assert.Empty(t, snapshot.All())

	// A store over an empty snapshot degrades every mutation to a no-op
	store := NewStore(snapshot)
	store.ToggleItem("anything")
	assert.Equal(t, int64(0), store.Total())
}
