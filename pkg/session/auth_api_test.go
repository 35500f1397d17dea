package session

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/finview/finview/internal/eventbus"
	"github.com/finview/finview/internal/storage"
	"github.com/finview/finview/internal/testutil"
	"github.com/finview/finview/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthAPITest(t *testing.T) (*AuthAPIImpl, *api.Client, *testutil.FakeFinanceServer, *eventbus.Bus) {
	server := testutil.NewFakeFinanceServer()
	t.Cleanup(server.Close)

	bus := eventbus.New()
	creds := storage.NewCredentialsStore(filepath.Join(t.TempDir(), "credentials.json"))
	client := api.NewClient(server.URL, 5*time.Second, creds, bus)
	return NewAuthAPI(client), client, server, bus
}

func TestAuthAPIImpl_Login(t *testing.T) {
	authAPI, _, server, _ := setupAuthAPITest(t)
	server.HandleOpen(http.MethodPost, "/auth/login/", http.StatusOK, map[string]any{
		"token": "tok-login",
		"user":  map[string]any{"id": "u1", "email": "jo@example.com", "name": "Jo"},
	})

	resp, err := authAPI.Login(context.Background(), "jo@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-login", resp.Token)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, 1, server.Calls(http.MethodPost, "/auth/login/"))
}

func TestAuthAPIImpl_LoginRejected(t *testing.T) {
	authAPI, _, server, _ := setupAuthAPITest(t)
	server.HandleOpen(http.MethodPost, "/auth/login/", http.StatusBadRequest, map[string]string{
		"error": "Invalid credentials.",
	})

	_, err := authAPI.Login(context.Background(), "jo@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorContains(t, err, "Invalid credentials.")
}

// Exercises the whole chain: sign in through the store, call a protected
// endpoint, have the service revoke the token, and observe a single expiry.
func TestSessionExpiryEndToEnd(t *testing.T) {
	authAPI, client, server, bus := setupAuthAPITest(t)
	expiries := testutil.RecordExpiries(bus)
	store := NewStore(authAPI, client, bus, "http://0.0.0.0:8000")

	server.HandleOpen(http.MethodPost, "/auth/login/", http.StatusOK, map[string]any{
		"token": "tok-e2e",
		"user":  map[string]any{"id": "u1", "email": "jo@example.com", "name": "Jo"},
	})
	server.Handle(http.MethodGet, "/auth/user/", http.StatusOK, map[string]any{
		"id": "u1", "email": "jo@example.com", "name": "Jo",
	})
	server.SetValidToken("tok-e2e")

	require.NoError(t, store.Login(context.Background(), "jo@example.com", "secret"))
	require.True(t, store.IsAuthenticated())
	assert.True(t, client.HasToken())

	_, err := authAPI.GetUser(context.Background())
	require.NoError(t, err)

	// The service revokes the token out from under the client.
	server.SetValidToken("rotated")

	_, err = authAPI.GetUser(context.Background())
	require.ErrorIs(t, err, api.ErrSessionExpired)
	assert.False(t, client.HasToken())
	assert.Equal(t, 1, expiries.Count())

	// Further calls fail the same way without notifying again.
	_, err = authAPI.GetUser(context.Background())
	require.ErrorIs(t, err, api.ErrSessionExpired)
	assert.Equal(t, 1, expiries.Count())
}
