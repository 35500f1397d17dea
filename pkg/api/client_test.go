package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/finview/finview/internal/eventbus"
	"github.com/finview/finview/internal/storage"
	"github.com/finview/finview/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func setupClientTest(t *testing.T) (*Client, *testutil.FakeFinanceServer, *eventbus.Bus) {
	server := testutil.NewFakeFinanceServer()
	t.Cleanup(server.Close)

	bus := eventbus.New()
	creds := storage.NewCredentialsStore(filepath.Join(t.TempDir(), "credentials.json"))
	client := NewClient(server.URL, 5*time.Second, creds, bus)
	return client, server, bus
}

func TestBearerTokenIsAttached(t *testing.T) {
	client, server, _ := setupClientTest(t)
	server.SetValidToken("tok-1")
	server.Handle(http.MethodGet, "/auth/user/", http.StatusOK, map[string]string{"id": "u1"})

	require.NoError(t, client.SetToken(&oauth2.Token{AccessToken: "tok-1"}))

	var out map[string]string
	require.NoError(t, client.Get(context.Background(), "/auth/user/", nil, &out))
	assert.Equal(t, "u1", out["id"])
}

func TestRequestsWithoutTokenCarryNoHeader(t *testing.T) {
	client, server, _ := setupClientTest(t)
	server.HandleOpen(http.MethodPost, "/auth/login/", http.StatusOK, map[string]string{"token": "tok-2"})

	var out map[string]string
	require.NoError(t, client.Post(context.Background(), "/auth/login/", map[string]string{"email": "a@x.com"}, &out))
	assert.Equal(t, "tok-2", out["token"])
}

func TestTokenRejection(t *testing.T) {
	t.Run("a 401 clears the token and notifies the observer once", func(t *testing.T) {
		client, server, bus := setupClientTest(t)
		expiries := testutil.RecordExpiries(bus)
		server.SetValidToken("current")
		server.Handle(http.MethodGet, "/transactions/", http.StatusOK, []string{})
		server.Handle(http.MethodGet, "/budgets/", http.StatusOK, []string{})

		require.NoError(t, client.SetToken(&oauth2.Token{AccessToken: "revoked"}))

		var out []string
		err := client.Get(context.Background(), "/transactions/", nil, &out)
		require.ErrorIs(t, err, ErrSessionExpired)
		assert.False(t, client.HasToken())
		assert.Equal(t, 1, expiries.Count())

		// A second rejected call reports the error again but does not
		// re-notify the observer.
		err = client.Get(context.Background(), "/budgets/", nil, &out)
		require.ErrorIs(t, err, ErrSessionExpired)
		assert.Equal(t, 1, expiries.Count())

		all := expiries.All()
		assert.Equal(t, "/transactions/", all[0].Endpoint)
	})

	t.Run("storing a new token re-arms the observer", func(t *testing.T) {
		client, server, bus := setupClientTest(t)
		expiries := testutil.RecordExpiries(bus)
		server.SetValidToken("good")
		server.Handle(http.MethodGet, "/transactions/", http.StatusOK, []string{})

		require.NoError(t, client.SetToken(&oauth2.Token{AccessToken: "bad"}))
		var out []string
		require.ErrorIs(t, client.Get(context.Background(), "/transactions/", nil, &out), ErrSessionExpired)
		require.Equal(t, 1, expiries.Count())

		require.NoError(t, client.SetToken(&oauth2.Token{AccessToken: "bad-again"}))
		require.ErrorIs(t, client.Get(context.Background(), "/transactions/", nil, &out), ErrSessionExpired)
		assert.Equal(t, 2, expiries.Count())
	})
}

func TestErrorBodies(t *testing.T) {
	client, server, _ := setupClientTest(t)
	server.HandleOpen(http.MethodPost, "/auth/register/", http.StatusBadRequest,
		map[string][]string{"email": {"user with this email already exists."}})

	err := client.Post(context.Background(), "/auth/register/", map[string]string{}, nil)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "email")
	assert.Contains(t, apiErr.Message, "already exists")
}

func TestDownload(t *testing.T) {
	client, server, _ := setupClientTest(t)
	server.SetValidToken("tok")
	server.HandleRaw(http.MethodGet, "/reports/export/spending/csv/", http.StatusOK, []byte("a,b\n1,2\n"))
	require.NoError(t, client.SetToken(&oauth2.Token{AccessToken: "tok"}))

	var buf bytes.Buffer
	require.NoError(t, client.Download(context.Background(), "/reports/export/spending/csv/", nil, &buf))
	assert.Equal(t, "a,b\n1,2\n", buf.String())
}

func TestNetworkErrorIsWrapped(t *testing.T) {
	bus := eventbus.New()
	creds := storage.NewCredentialsStore(filepath.Join(t.TempDir(), "credentials.json"))
	client := NewClient("http://127.0.0.1:1/api", 200*time.Millisecond, creds, bus)

	err := client.Get(context.Background(), "/transactions/", nil, nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "/transactions/"))
	assert.NotErrorIs(t, err, ErrSessionExpired)
}
