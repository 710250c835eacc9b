package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	dir := t.TempDir()

	file, err := NewFileStore(filepath.Join(dir, "local_storage.yaml"))
	require.NoError(t, err)

	db, err := NewSQLiteStore(filepath.Join(dir, "local_storage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]Store{
		BackendMemory: NewMemoryStore(),
		BackendFile:   file,
		BackendSQLite: db,
	}
}

func TestStoreSemantics(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, found := s.Get("AutoSell-Plates")
			assert.False(t, found)
			assert.False(t, Enabled(s, "AutoSell-Plates"))

			require.NoError(t, s.SetDefault("AutoSell-Plates", True))
			assert.True(t, Enabled(s, "AutoSell-Plates"))

			require.NoError(t, SetBool(s, "AutoSell-Plates", false))
			require.NoError(t, s.SetDefault("AutoSell-Plates", True))

			v, found := s.Get("AutoSell-Plates")
			assert.True(t, found)
			assert.Equal(t, False, v)
			assert.False(t, Enabled(s, "AutoSell-Plates"))
		})
	}
}

func TestEnabledRequiresExactTrue(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set("k", "TRUE"))
	assert.False(t, Enabled(s, "k"))

	require.NoError(t, s.Set("k", "1"))
	assert.False(t, Enabled(s, "k"))

	require.NoError(t, s.Set("k", "true"))
	assert.True(t, Enabled(s, "k"))
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "local_storage.yaml")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("AutoSeller-Enabled", False))
	require.NoError(t, s.SetDefault("AutoSell-Treasures", True))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	assert.False(t, Enabled(reopened, "AutoSeller-Enabled"))
	assert.True(t, Enabled(reopened, "AutoSell-Treasures"))
}

func TestSQLiteStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local_storage.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("AutoSell-Plates", True))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })
	assert.True(t, Enabled(reopened, "AutoSell-Plates"))
}

func TestOpen(t *testing.T) {
	s, err := Open("", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open("redis", "somewhere")
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open(BackendFile, "")
	assert.Error(t, err)
}
