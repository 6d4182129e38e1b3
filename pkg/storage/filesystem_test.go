package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveLoad(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, found, err := store.Load("planner:state")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save("planner:state", []byte(`{"v":1}`)))
	require.NoError(t, store.Save("planner:state", []byte(`{"v":2}`)))

	data, found, err := store.Load("planner:state")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"v":2}`, string(data))
	assert.Equal(t, "planner_state.json", filepath.Base(store.Path("planner:state")))

	entries, err := os.ReadDir(filepath.Dir(store.Path("planner:state")))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestLocalStorageDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("k", []byte("x")))
	require.NoError(t, store.Delete("k"))
	require.NoError(t, store.Delete("k"))

	_, found, err := store.Load("k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLocalStorageList(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"backup_20250724T090000", "backup_20250723T080000", "planner:state"} {
		require.NoError(t, store.Save(name, []byte("{}")))
	}

	names, err := store.List("backup_")
	require.NoError(t, err)
	assert.Equal(t, []string{"backup_20250723T080000", "backup_20250724T090000"}, names)

	all, err := store.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Contains(t, all, "planner_state")
}
