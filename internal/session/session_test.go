package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sicoil-cli/internal/session"
)

func markerPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func TestStore_SetPersistsAcrossRestarts(t *testing.T) {
	path := markerPath(t)

	store := session.NewStore(path)
	assert.False(t, store.Authenticated())

	require.NoError(t, store.Set(session.Usuario{ID: 7, Usuario: "admin"}))
	require.True(t, store.Authenticated())

	// A fresh store over the same path picks the marker up.
	reopened := session.NewStore(path)
	u := reopened.Current()
	require.NotNil(t, u)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "admin", u.Usuario)
}

func TestStore_ClearRemovesMarker(t *testing.T) {
	path := markerPath(t)
	store := session.NewStore(path)
	require.NoError(t, store.Set(session.Usuario{ID: 1, Usuario: "admin"}))

	store.Clear()

	assert.False(t, store.Authenticated())
	assert.Nil(t, store.Current())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is harmless.
	store.Clear()
}

func TestStore_MalformedMarkerIsDiscarded(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"broken json", `{"id":`},
		{"zero id", `{"id":0,"usuario":"admin"}`},
		{"empty username", `{"id":3,"usuario":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := markerPath(t)
			require.NoError(t, os.WriteFile(path, []byte(tt.raw), 0o600))

			store := session.NewStore(path)

			assert.False(t, store.Authenticated())
			_, err := os.Stat(path)
			assert.True(t, os.IsNotExist(err), "a bad marker file is removed")
		})
	}
}

func TestStore_CurrentReturnsCopy(t *testing.T) {
	store := session.NewStore(markerPath(t))
	require.NoError(t, store.Set(session.Usuario{ID: 5, Usuario: "vendedor"}))

	u := store.Current()
	u.Usuario = "otro"
	assert.Equal(t, "vendedor", store.Current().Usuario)
}

func TestStore_SubscribeSeesChanges(t *testing.T) {
	store := session.NewStore(markerPath(t))
	ch := store.Subscribe()

	require.NoError(t, store.Set(session.Usuario{ID: 2, Usuario: "admin"}))
	got := <-ch
	require.NotNil(t, got)
	assert.Equal(t, "admin", got.Usuario)

	store.Clear()
	assert.Nil(t, <-ch)
}

func TestStore_SubscribeKeepsLatestOnly(t *testing.T) {
	store := session.NewStore(markerPath(t))
	ch := store.Subscribe()

	require.NoError(t, store.Set(session.Usuario{ID: 1, Usuario: "primero"}))
	require.NoError(t, store.Set(session.Usuario{ID: 2, Usuario: "segundo"}))

	got := <-ch
	require.NotNil(t, got)
	assert.Equal(t, "segundo", got.Usuario, "an unconsumed value is replaced, not queued")
}
