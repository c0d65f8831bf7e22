package sessionstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"smart-attendance/internal/domain"
)

func TestFileStore_RoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "auth.json"))

	session := domain.StoredSession{
		User:   domain.User{ID: "admin-001", Name: "أحمد المدير", Role: domain.RoleAdmin},
		Expiry: time.Now().Add(time.Hour).UnixMilli(),
	}
	require.NoError(t, store.Save(session))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, session, got)
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "auth.json"))

	_, err := store.Load()
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFileStore_ClearIsIdempotent(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "auth.json"))

	require.NoError(t, store.Clear())

	require.NoError(t, store.Save(domain.StoredSession{
		User:   domain.User{ID: "admin-001"},
		Expiry: time.Now().Add(time.Hour).UnixMilli(),
	}))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, err := store.Load()
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
