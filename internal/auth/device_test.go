package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestCode_DefaultsIntervalWhenAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/login/device/code", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		json.NewEncoder(w).Encode(map[string]any{
			"device_code":      "dev_abc",
			"user_code":        "ABCD-1234",
			"verification_uri": "https://github.com/login/device",
		})
	}))
	defer server.Close()

	flow := NewDeviceFlow("test_client_id", server.URL, server.URL)
	authz, err := flow.RequestCode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, authz.Interval)
	assert.Equal(t, "ABCD-1234", authz.UserCode)
}

func TestRequestCode_MissingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"user_code": "ABCD-1234"})
	}))
	defer server.Close()

	flow := NewDeviceFlow("test_client_id", server.URL, server.URL)
	_, err := flow.RequestCode(context.Background())
	assert.Error(t, err)
}

func TestPollOnce_OutcomeMapping(t *testing.T) {
	tests := []struct {
		name     string
		response map[string]string
		want     pollOutcome
	}{
		{"token granted", map[string]string{"access_token": "gho_x"}, pollToken},
		{"pending", map[string]string{"error": "authorization_pending"}, pollPending},
		{"slow down", map[string]string{"error": "slow_down"}, pollSlowDown},
		{"expired", map[string]string{"error": "expired_token"}, pollExpired},
		{"denied", map[string]string{"error": "access_denied"}, pollDenied},
		{"unrecognized", map[string]string{"error": "device_flow_disabled"}, pollUnknown},
		{"empty body", map[string]string{}, pollPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/login/oauth/access_token", r.URL.Path)
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "dev_abc", r.PostForm.Get("device_code"))
				assert.Equal(t, "urn:ietf:params:oauth:grant-type:device_code", r.PostForm.Get("grant_type"))
				json.NewEncoder(w).Encode(tt.response)
			}))
			defer server.Close()

			flow := NewDeviceFlow("test_client_id", server.URL, server.URL)
			res, err := flow.PollOnce(context.Background(), "dev_abc")
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.outcome)

			if tt.want == pollToken {
				assert.Equal(t, "gho_x", res.token)
			}
			if tt.want == pollUnknown {
				assert.Equal(t, "device_flow_disabled", res.message)
			}
		})
	}
}

func TestFetchProfile_SendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "Bearer gho_profile", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"login": "octocat", "name": "The Octocat"})
	}))
	defer server.Close()

	flow := NewDeviceFlow("test_client_id", server.URL, server.URL)
	profile, err := flow.FetchProfile(context.Background(), "gho_profile")
	require.NoError(t, err)
	assert.Equal(t, "octocat", profile.Login)
	assert.Equal(t, "The Octocat", profile.Name)
}

func TestFetchProfile_MissingLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"name": "Nobody"})
	}))
	defer server.Close()

	flow := NewDeviceFlow("test_client_id", server.URL, server.URL)
	_, err := flow.FetchProfile(context.Background(), "gho_profile")
	assert.Error(t, err)
}
