package player

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarakania/rpg-bot/internal/rpg"
)

const itemsYAML = `
1:
  name: rusty sword
  kind: weapon
  damage: 1d6
  modifiers:
    strength: 1
2:
  name: steel sword
  kind: weapon
  damage: 2d6
3:
  name: leather helmet
  kind: armor
  slot: helmet
  modifiers:
    protection: 1
4:
  name: healing potion
  kind: consumable
  effect: restore health
`

func testCatalogs(t *testing.T) *rpg.Catalogs {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "rpg"), 0o755))
	files := map[string]string{
		"items.yaml":     itemsYAML,
		"races.yaml":     "1:\n  name: human\n  start_location: 1\n",
		"classes.yaml":   "1:\n  name: warrior\n",
		"locations.yaml": "1:\n  name: riverside village\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "rpg", name), []byte(content), 0o644))
	}
	catalogs, err := rpg.Load(dir)
	require.NoError(t, err)
	return catalogs
}

func testStore(t *testing.T) (*Store, *rpg.Catalogs) {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "players.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, testCatalogs(t)
}

func createPlayer(t *testing.T, store *Store, catalogs *rpg.Catalogs, discordID, nick string) *Player {
	t.Helper()
	race, err := catalogs.RaceByID(1)
	require.NoError(t, err)
	class, err := catalogs.ClassByID(1)
	require.NoError(t, err)

	p, err := store.Create(context.Background(), discordID, nick, race, class, race.StartLocation)
	require.NoError(t, err)
	return p
}

func TestCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	store, catalogs := testStore(t)

	created := createPlayer(t, store, catalogs, "user1", "Bob")
	assert.Equal(t, "Bob", created.Nick)
	assert.Equal(t, 0, created.XP)
	assert.Empty(t, created.Inventory)

	byID, err := store.ByID(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, created.Nick, byID.Nick)

	byNick, err := store.ByNick(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, "user1", byNick.DiscordID)

	_, err = store.ByID(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
	_, err = store.ByNick(ctx, "Nobody")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestCreateRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store, catalogs := testStore(t)
	createPlayer(t, store, catalogs, "user1", "Bob")

	race, _ := catalogs.RaceByID(1)
	class, _ := catalogs.ClassByID(1)

	// same discord id
	_, err := store.Create(ctx, "user1", "Other", race, class, 1)
	assert.ErrorIs(t, err, ErrNickOrIDUsed)

	// same nick
	_, err = store.Create(ctx, "user2", "Bob", race, class, 1)
	assert.ErrorIs(t, err, ErrNickOrIDUsed)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store, catalogs := testStore(t)
	createPlayer(t, store, catalogs, "user1", "Bob")

	require.NoError(t, store.Delete(ctx, "user1"))
	_, err := store.ByID(ctx, "user1")
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	assert.ErrorIs(t, store.Delete(ctx, "user1"), ErrUnknownPlayer)
}

func TestInventory(t *testing.T) {
	ctx := context.Background()
	store, catalogs := testStore(t)
	p := createPlayer(t, store, catalogs, "user1", "Bob")

	sword, _ := catalogs.ItemByID(1)
	require.NoError(t, store.AddItem(ctx, p, sword))
	assert.True(t, p.HasItem(sword.ID))

	// persisted
	reloaded, err := store.ByID(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, reloaded.Inventory)

	require.NoError(t, store.RemoveItem(ctx, p, sword))
	assert.False(t, p.HasItem(sword.ID))

	assert.ErrorIs(t, store.RemoveItem(ctx, p, sword), ErrItemNotFound)
}

func TestEquipMovesItemsBetweenInventoryAndSlots(t *testing.T) {
	ctx := context.Background()
	store, catalogs := testStore(t)
	p := createPlayer(t, store, catalogs, "user1", "Bob")

	rusty, _ := catalogs.ItemByID(1)
	steel, _ := catalogs.ItemByID(2)
	potion, _ := catalogs.ItemByID(4)

	require.NoError(t, store.AddItem(ctx, p, rusty))
	require.NoError(t, store.AddItem(ctx, p, steel))

	assert.ErrorIs(t, func() error { _, err := store.Equip(ctx, p, potion, catalogs); return err }(),
		ErrItemUnequippable)

	replaced, err := store.Equip(ctx, p, rusty, catalogs)
	require.NoError(t, err)
	assert.Nil(t, replaced)
	assert.False(t, p.HasItem(rusty.ID), "equipped item leaves the inventory")

	eq, err := store.EquipmentByID(ctx, "user1")
	require.NoError(t, err)
	require.NotNil(t, eq.Weapon)
	assert.Equal(t, rusty.ID, *eq.Weapon)

	// equipping another weapon swaps them
	replaced, err = store.Equip(ctx, p, steel, catalogs)
	require.NoError(t, err)
	require.NotNil(t, replaced)
	assert.Equal(t, rusty.ID, replaced.ID)
	assert.True(t, p.HasItem(rusty.ID), "replaced item returns to the inventory")

	_, err = store.Equip(ctx, p, steel, catalogs)
	assert.ErrorIs(t, err, ErrItemNotFound, "the equipped item is no longer in the inventory")

	require.NoError(t, store.Unequip(ctx, p, steel))
	assert.True(t, p.HasItem(steel.ID))
	assert.ErrorIs(t, store.Unequip(ctx, p, steel), ErrItemNotEquipped)
}

func TestEquipRunsAgainstStoredInventory(t *testing.T) {
	ctx := context.Background()
	store, catalogs := testStore(t)
	p := createPlayer(t, store, catalogs, "user1", "Bob")

	rusty, _ := catalogs.ItemByID(1)
	require.NoError(t, store.AddItem(ctx, p, rusty))

	// another handle to the same player drains the inventory out from
	// under the first one
	other, err := store.ByID(ctx, "user1")
	require.NoError(t, err)
	require.NoError(t, store.RemoveItem(ctx, other, rusty))

	_, err = store.Equip(ctx, p, rusty, catalogs)
	assert.ErrorIs(t, err, ErrItemNotFound, "equip rechecks the stored row, not the stale copy")

	// nothing was half-applied
	eq, err := store.EquipmentByID(ctx, "user1")
	require.NoError(t, err)
	assert.Nil(t, eq.Weapon)
	reloaded, err := store.ByID(ctx, "user1")
	require.NoError(t, err)
	assert.Empty(t, reloaded.Inventory)
}

func TestEquipRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	store, catalogs := testStore(t)
	p := createPlayer(t, store, catalogs, "user1", "Bob")

	sword, _ := catalogs.ItemByID(1)
	_, err := store.Equip(ctx, p, sword, catalogs)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestProgression(t *testing.T) {
	ctx := context.Background()
	store, catalogs := testStore(t)
	p := createPlayer(t, store, catalogs, "user1", "Bob")

	require.NoError(t, store.AddXP(ctx, p, 60))
	require.NoError(t, store.AddMoney(ctx, p, 100))

	reloaded, err := store.ByID(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 60, reloaded.XP)
	assert.Equal(t, 1, reloaded.Level())
	assert.Equal(t, 100, reloaded.Money)
}

func TestComputeStats(t *testing.T) {
	ctx := context.Background()
	store, catalogs := testStore(t)
	p := createPlayer(t, store, catalogs, "user1", "Bob")

	rusty, _ := catalogs.ItemByID(1)
	require.NoError(t, store.AddItem(ctx, p, rusty))
	_, err := store.Equip(ctx, p, rusty, catalogs)
	require.NoError(t, err)

	eq, err := store.EquipmentByID(ctx, "user1")
	require.NoError(t, err)

	stats, err := ComputeStats(p, eq, catalogs)
	require.NoError(t, err)
	// base 10 everywhere, +1 strength from the equipped sword
	assert.Equal(t, 11, stats.Values["strength"])
	assert.Equal(t, 10, stats.Values["agility"])
	assert.Equal(t, 200, stats.Health)
	assert.Equal(t, 5, stats.ActionPoints)
}
