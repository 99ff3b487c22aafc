package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ubounty/ubounty-cli/internal/auth"
	"github.com/ubounty/ubounty-cli/internal/config"
)

func newTestClient(t *testing.T, serverURL string, loggedIn bool) *Client {
	t.Helper()
	store := auth.NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	if loggedIn {
		require.NoError(t, store.Write(auth.Credential{
			Token: "gho_backend",
			User:  auth.UserProfile{Login: "octocat"},
		}))
	}
	return NewClient(&config.Config{APIURL: serverURL}, store)
}

func TestGetUserSettings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/me/settings", r.URL.Path)
		assert.Equal(t, "Bearer gho_backend", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"github_username": "octocat",
			"name":            "The Octocat",
			"wallet": map[string]any{
				"status":   "bound",
				"network":  "ethereum",
				"chain_id": 1,
				"address":  "0x1111111111111111111111111111111111111111",
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, true)
	settings, err := client.GetUserSettings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "octocat", settings.GitHubUsername)
	assert.True(t, settings.Wallet.Bound())
	assert.Equal(t, "ethereum", settings.Wallet.Network)
	assert.Equal(t, 1, settings.Wallet.ChainID)
}

func TestGetUserSettings_NotLoggedIn(t *testing.T) {
	client := newTestClient(t, "http://unused.invalid", false)

	assert.False(t, client.IsAuthenticated())
	_, err := client.GetUserSettings(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestGetUserSettings_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid_token"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, true)
	_, err := client.GetUserSettings(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUpdateWallet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "0x2222222222222222222222222222222222222222", payload["wallet_address"])
		json.NewEncoder(w).Encode(map[string]any{
			"wallet": map[string]any{
				"status":  "bound",
				"network": "ethereum",
				"address": payload["wallet_address"],
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, true)
	wallet, err := client.UpdateWallet(context.Background(), "0x2222222222222222222222222222222222222222")
	require.NoError(t, err)
	assert.True(t, wallet.Bound())
	assert.Equal(t, "0x2222222222222222222222222222222222222222", wallet.Address)
}

func TestUpdateWallet_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid address checksum"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, true)
	_, err := client.UpdateWallet(context.Background(), "0xbad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid address checksum")
}
