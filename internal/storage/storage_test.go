package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixRoundTrip(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	defer store.Close()

	all, err := store.All()
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, store.Set("guild1", ">"))
	require.NoError(t, store.Set("guild2", "rpg!"))

	all, err = store.All()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"guild1": ">", "guild2": "rpg!"}, all)

	require.NoError(t, store.Delete("guild1"))
	all, err = store.All()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"guild2": "rpg!"}, all)
}

func TestPrefixesPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datastore.json")

	store, err := New(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("guild1", ">"))
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.All()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"guild1": ">"}, all)
}
