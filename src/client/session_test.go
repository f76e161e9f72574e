package client

import (
	"path/filepath"
	"scb/src/models"
	"scb/src/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newFileSession(t *testing.T) (*SessionStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	return NewSessionStore(&FileStorage{Path: path}), path
}

func TestSessionRoundTrip(t *testing.T) {
	store, path := newFileSession(t)
	assert.Nil(t, store.Load())
	assert.Nil(t, store.Current())

	user := models.User{ID: 7, Name: "Rahim", Email: "rahim@example.com", Role: types.ROLE_MEMBER}
	assert.Nil(t, store.SetSession(user, "token-abc"))

	// A second store over the same file sees the identity a restart would.
	restored := NewSessionStore(&FileStorage{Path: path})
	assert.False(t, restored.Resolved())
	assert.Nil(t, restored.Load())
	assert.True(t, restored.Resolved())

	current := restored.Current()
	if assert.NotNil(t, current) {
		assert.Equal(t, uint(7), current.ID)
		assert.Equal(t, types.ROLE_MEMBER, current.Role)
	}
	assert.Equal(t, "token-abc", restored.Token())
}

func TestSessionLoadDiscardsCorruptData(t *testing.T) {
	store, path := newFileSession(t)
	storage := &FileStorage{Path: path}
	assert.Nil(t, storage.Save([]byte("{not json")))

	assert.Nil(t, store.Load())
	assert.True(t, store.Resolved())
	assert.Nil(t, store.Current())

	// The corrupt file is gone for good.
	data, err := storage.Load()
	assert.Nil(t, err)
	assert.Empty(t, data)
}

func TestSessionClear(t *testing.T) {
	store, path := newFileSession(t)
	assert.Nil(t, store.SetSession(models.User{ID: 1, Role: types.ROLE_USER}, "tok"))
	assert.Nil(t, store.Clear())

	assert.Nil(t, store.Current())
	assert.Equal(t, "", store.Token())

	restored := NewSessionStore(&FileStorage{Path: path})
	assert.Nil(t, restored.Load())
	assert.Nil(t, restored.Current())
}

func TestSessionUpdateProfile(t *testing.T) {
	store, _ := newFileSession(t)
	assert.Nil(t, store.SetSession(models.User{ID: 3, Name: "Old", Role: types.ROLE_USER}, "tok"))

	// A promotion arriving with a profile refresh reaches Role().
	assert.Nil(t, store.UpdateProfile(models.User{ID: 3, Name: "New", Role: types.ROLE_MEMBER}))
	role, ok := store.Role()
	assert.True(t, ok)
	assert.Equal(t, types.ROLE_MEMBER, role)

	assert.NotNil(t, store.UpdateProfile(models.User{ID: 99, Name: "Stranger"}))
}

func TestSessionCurrentReturnsCopy(t *testing.T) {
	store, _ := newFileSession(t)
	assert.Nil(t, store.SetSession(models.User{ID: 4, Name: "Kamal", Role: types.ROLE_USER}, "tok"))

	current := store.Current()
	current.Role = types.ROLE_ADMIN
	role, _ := store.Role()
	assert.Equal(t, types.ROLE_USER, role)
}
