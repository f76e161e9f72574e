package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"scb/src/models"
	"scb/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newAuthFixture(t *testing.T, handler http.HandlerFunc) (*Auth, *SessionStore, *Cache) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	session := NewSessionStore(&FileStorage{Path: filepath.Join(t.TempDir(), "session.json")})
	assert.Nil(t, session.Load())
	gw := NewGateway(srv.URL, session)
	gw.RetryDelay = time.Millisecond
	cache := NewCache(time.Minute)
	return NewAuth(gw, session, cache), session, cache
}

func TestLoginInstallsSession(t *testing.T) {
	auth, session, _ := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"Login successful","user":{"id":5,"name":"Salma","email":"salma@example.com","role":"member"},"token":"jwt-xyz"}`))
	})

	user, err := auth.Login(context.Background(), "salma@example.com", "secret")
	assert.Nil(t, err)
	assert.Equal(t, uint(5), user.ID)

	role, ok := session.Role()
	assert.True(t, ok)
	assert.Equal(t, types.ROLE_MEMBER, role)
	assert.Equal(t, "jwt-xyz", session.Token())
}

func TestLoginValidatesInput(t *testing.T) {
	auth, _, _ := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})
	_, err := auth.Login(context.Background(), "", "secret")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = auth.Login(context.Background(), "a@b.c", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogoutClearsSessionAndCache(t *testing.T) {
	auth, session, cache := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	assert.Nil(t, session.SetSession(models.User{ID: 1, Role: types.ROLE_ADMIN}, "tok"))
	_, _ = cache.Get(context.Background(), Key{Resource: ResourceAdminStats}, func(ctx context.Context) (any, error) {
		return "stats", nil
	})

	assert.Nil(t, auth.Logout())
	assert.Nil(t, session.Current())
	assert.Equal(t, 0, cache.Len(), "no role-scoped data survives sign-out")
}

func TestFetchProfileFoldsPromotionIntoSession(t *testing.T) {
	auth, session, _ := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"ok","data":{"id":8,"name":"Nadia","role":"member","memberSince":"2025-06-01T00:00:00Z"}}`))
	})
	assert.Nil(t, session.SetSession(models.User{ID: 8, Name: "Nadia", Role: types.ROLE_USER}, "tok"))

	user, err := auth.FetchProfile(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, types.ROLE_MEMBER, user.Role)

	role, _ := session.Role()
	assert.Equal(t, types.ROLE_MEMBER, role, "the promotion reaches every gate check")
}

func TestUpdateProfileRefreshesSession(t *testing.T) {
	auth, session, cache := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"Profile updated","data":{"id":8,"name":"Nadia K","role":"user"}}`))
	})
	assert.Nil(t, session.SetSession(models.User{ID: 8, Name: "Nadia", Role: types.ROLE_USER}, "tok"))
	_, _ = cache.Get(context.Background(), Key{Resource: ResourceUserProfile}, func(ctx context.Context) (any, error) {
		return "stale-profile", nil
	})

	user, err := auth.UpdateProfile(context.Background(), "Nadia K", "")
	assert.Nil(t, err)
	assert.Equal(t, "Nadia K", user.Name)
	assert.Equal(t, 0, cache.Len())

	current := session.Current()
	assert.Equal(t, "Nadia K", current.Name)
}
