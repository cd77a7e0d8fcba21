package rpg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "rpg"), 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "rpg", name), []byte(content), 0o644))
	}
	return dir
}

func testCatalogs(t *testing.T) *Catalogs {
	t.Helper()
	dir := writeCatalogs(t, map[string]string{
		"items.yaml": `
1:
  name: rusty sword
  kind: weapon
  damage: 1d6
2:
  name: leather helmet
  kind: armor
  slot: helmet
  modifiers:
    protection: 1
3:
  name: healing potion
  kind: consumable
  effect: restore health
`,
		"races.yaml": `
1:
  name: human
  start_location: 1
`,
		"classes.yaml": `
1:
  name: warrior
  stats:
    strength: 2
`,
		"locations.yaml": `
1:
  name: riverside village
`,
	})

	catalogs, err := Load(dir)
	require.NoError(t, err)
	return catalogs
}

func TestCatalogLookups(t *testing.T) {
	catalogs := testCatalogs(t)

	item, err := catalogs.ItemByID(1)
	require.NoError(t, err)
	assert.Equal(t, "rusty sword", item.Name)
	assert.Equal(t, 1, item.ID)
	assert.Equal(t, ItemWeapon, item.Kind)

	// name lookups are case-insensitive and accept dashes for spaces
	item, err = catalogs.ItemByName("Rusty Sword")
	require.NoError(t, err)
	assert.Equal(t, 1, item.ID)

	_, err = catalogs.ItemByID(99)
	assert.ErrorIs(t, err, ErrUnknownObject)
	_, err = catalogs.ItemByName("excalibur")
	assert.ErrorIs(t, err, ErrUnknownObject)

	race, err := catalogs.RaceByName("human")
	require.NoError(t, err)
	assert.Equal(t, 1, race.StartLocation)

	class, err := catalogs.ClassByName("warrior")
	require.NoError(t, err)
	assert.Equal(t, 2, class.Stats["strength"])

	location, err := catalogs.LocationByID(1)
	require.NoError(t, err)
	assert.Equal(t, "riverside village", location.Name)
}

func TestItemsSorted(t *testing.T) {
	catalogs := testCatalogs(t)

	items := catalogs.Items()
	require.Len(t, items, 3)
	for i := 1; i < len(items); i++ {
		assert.Less(t, items[i-1].ID, items[i].ID)
	}
}

func TestEquippable(t *testing.T) {
	catalogs := testCatalogs(t)

	sword, _ := catalogs.ItemByID(1)
	assert.True(t, sword.Equippable())
	assert.Equal(t, SlotWeapon, sword.SlotName())

	helmet, _ := catalogs.ItemByID(2)
	assert.True(t, helmet.Equippable())
	assert.Equal(t, "helmet", helmet.SlotName())

	potion, _ := catalogs.ItemByID(3)
	assert.False(t, potion.Equippable())
}

func TestMissingCatalogFileIsEmpty(t *testing.T) {
	dir := writeCatalogs(t, map[string]string{
		"races.yaml": "1:\n  name: human\n  start_location: 1\n",
	})

	catalogs, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, catalogs.Items())
	assert.Len(t, catalogs.Races(), 1)
}

func TestReloadAllSwapsContent(t *testing.T) {
	dir := writeCatalogs(t, map[string]string{
		"items.yaml": "1:\n  name: rusty sword\n  kind: weapon\n  damage: 1d6\n",
	})

	catalogs, err := Load(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "rpg", "items.yaml"),
		[]byte("1:\n  name: shiny sword\n  kind: weapon\n  damage: 2d6\n"), 0o644))
	require.NoError(t, catalogs.ReloadAll())

	item, err := catalogs.ItemByID(1)
	require.NoError(t, err)
	assert.Equal(t, "shiny sword", item.Name)
	_, err = catalogs.ItemByName("rusty sword")
	assert.ErrorIs(t, err, ErrUnknownObject)
}
