package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingReporter captures rendered messages so tests never touch
// process-wide output.
type recordingReporter struct {
	messages []string
}

func (r *recordingReporter) record(format string, args ...any) {
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Infof(format string, args ...any)    { r.record(format, args...) }
func (r *recordingReporter) Successf(format string, args ...any) { r.record(format, args...) }
func (r *recordingReporter) Warnf(format string, args ...any)    { r.record(format, args...) }
func (r *recordingReporter) Errorf(format string, args ...any)   { r.record(format, args...) }

type scriptedConfirmer struct {
	answer bool
	asked  int
}

func (c *scriptedConfirmer) Confirm(prompt string, defaultYes bool) bool {
	c.asked++
	return c.answer
}

// tokenExchange serves a scripted sequence of token endpoint responses,
// repeating the last one once the script runs out.
type tokenExchange struct {
	responses []map[string]string
	calls     int
}

func (e *tokenExchange) next() map[string]string {
	i := e.calls
	if i >= len(e.responses) {
		i = len(e.responses) - 1
	}
	e.calls++
	return e.responses[i]
}

func newFlowServer(t *testing.T, exchange *tokenExchange) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login/device/code", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"device_code":      "dev_abc",
			"user_code":        "ABCD-1234",
			"verification_uri": "https://github.com/login/device",
			"interval":         5,
		})
	})
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(exchange.next())
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"login":      "octocat",
			"name":       "The Octocat",
			"email":      "octocat@github.com",
			"avatar_url": "https://example.com/octocat.png",
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

type testAuthenticator struct {
	*Authenticator
	out     *recordingReporter
	confirm *scriptedConfirmer
	store   *Store
	sleeps  []time.Duration
}

func newTestAuthenticator(t *testing.T, serverURL string) *testAuthenticator {
	t.Helper()
	out := &recordingReporter{}
	confirm := &scriptedConfirmer{answer: true}
	store := NewStore(filepath.Join(t.TempDir(), "credentials.json"))

	ta := &testAuthenticator{out: out, confirm: confirm, store: store}
	ta.Authenticator = NewAuthenticator(
		NewDeviceFlow("test_client_id", serverURL, serverURL),
		store, out, confirm,
	)
	ta.Authenticator.sleep = func(d time.Duration) { ta.sleeps = append(ta.sleeps, d) }
	return ta
}

func TestLogin_Success(t *testing.T) {
	exchange := &tokenExchange{responses: []map[string]string{
		{"error": "authorization_pending"},
		{"access_token": "gho_real_token"},
	}}
	ta := newTestAuthenticator(t, newFlowServer(t, exchange).URL)

	require.True(t, ta.Login(context.Background()))

	token, ok := ta.Token()
	require.True(t, ok)
	assert.Equal(t, "gho_real_token", token)

	profile, ok := ta.UserInfo()
	require.True(t, ok)
	assert.Equal(t, "octocat", profile.Login)
	assert.True(t, ta.IsAuthenticated())
	assert.Contains(t, ta.out.messages, "Successfully logged in as @octocat!")
}

func TestLogin_SlowDownGrowsInterval(t *testing.T) {
	exchange := &tokenExchange{responses: []map[string]string{
		{"error": "authorization_pending"},
		{"error": "authorization_pending"},
		{"error": "slow_down"},
		{"access_token": "gho_slow"},
	}}
	ta := newTestAuthenticator(t, newFlowServer(t, exchange).URL)

	require.True(t, ta.Login(context.Background()))

	token, ok := ta.Token()
	require.True(t, ok)
	assert.Equal(t, "gho_slow", token)

	// Three waits at the server interval, then one bumped by +5s after the
	// slow_down response.
	require.Len(t, ta.sleeps, 4)
	assert.Equal(t, []time.Duration{
		5 * time.Second, 5 * time.Second, 5 * time.Second, 10 * time.Second,
	}, ta.sleeps)
}

func TestLogin_ExpiredToken(t *testing.T) {
	exchange := &tokenExchange{responses: []map[string]string{
		{"error": "expired_token"},
	}}
	ta := newTestAuthenticator(t, newFlowServer(t, exchange).URL)

	assert.False(t, ta.Login(context.Background()))
	assert.False(t, ta.store.Exists(), "no credential may be written on failure")
	assert.Contains(t, ta.out.messages, "Device code expired")
}

func TestLogin_AccessDenied(t *testing.T) {
	exchange := &tokenExchange{responses: []map[string]string{
		{"error": "access_denied"},
	}}
	ta := newTestAuthenticator(t, newFlowServer(t, exchange).URL)

	assert.False(t, ta.Login(context.Background()))
	assert.False(t, ta.IsAuthenticated())
}

func TestLogin_UnknownErrorSurfacedVerbatim(t *testing.T) {
	exchange := &tokenExchange{responses: []map[string]string{
		{"error": "incorrect_device_code"},
	}}
	ta := newTestAuthenticator(t, newFlowServer(t, exchange).URL)

	assert.False(t, ta.Login(context.Background()))
	assert.Contains(t, ta.out.messages, "Error: incorrect_device_code")
}

func TestLogin_UserDeclinesConfirmation(t *testing.T) {
	exchange := &tokenExchange{responses: []map[string]string{
		{"access_token": "gho_never_polled"},
	}}
	ta := newTestAuthenticator(t, newFlowServer(t, exchange).URL)
	ta.confirm.answer = false

	assert.False(t, ta.Login(context.Background()))
	assert.Zero(t, exchange.calls, "declining the prompt must skip polling entirely")
	assert.False(t, ta.store.Exists())
}

func TestLogin_TimesOutAfterMaxAttempts(t *testing.T) {
	exchange := &tokenExchange{responses: []map[string]string{
		{"error": "authorization_pending"},
	}}
	ta := newTestAuthenticator(t, newFlowServer(t, exchange).URL)

	assert.False(t, ta.Login(context.Background()))
	assert.Equal(t, maxPollAttempts, exchange.calls)
	assert.Contains(t, ta.out.messages, "Authentication timeout")
}

func TestLogin_DeviceCodeRequestFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`)) // no device_code, no user_code
	}))
	defer server.Close()

	ta := newTestAuthenticator(t, server.URL)
	assert.False(t, ta.Login(context.Background()))
	assert.False(t, ta.store.Exists())
}

func TestLogin_ProfileFetchFailureIsFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login/device/code", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"device_code": "dev_abc", "user_code": "ABCD-1234",
			"verification_uri": "https://github.com/login/device",
		})
	})
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "gho_token"})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	ta := newTestAuthenticator(t, server.URL)
	assert.False(t, ta.Login(context.Background()))
	assert.False(t, ta.store.Exists(), "token without profile must not be persisted")
}

func TestLogout_NothingSaved(t *testing.T) {
	ta := newTestAuthenticator(t, "http://unused.invalid")

	assert.False(t, ta.Logout())
	assert.Zero(t, ta.confirm.asked, "must not prompt when there is nothing to remove")
}

func TestLogout_Declined(t *testing.T) {
	ta := newTestAuthenticator(t, "http://unused.invalid")
	require.NoError(t, ta.store.Write(Credential{Token: "gho_keep", User: UserProfile{Login: "octocat"}}))
	ta.confirm.answer = false

	assert.False(t, ta.Logout())
	assert.True(t, ta.IsAuthenticated(), "declined logout must leave the credential intact")
}

func TestLogout_Confirmed(t *testing.T) {
	ta := newTestAuthenticator(t, "http://unused.invalid")
	require.NoError(t, ta.store.Write(Credential{Token: "gho_gone", User: UserProfile{Login: "octocat"}}))

	assert.True(t, ta.Logout())
	assert.False(t, ta.store.Exists())
	assert.False(t, ta.IsAuthenticated())
}

func TestIsAuthenticated_CorruptStore(t *testing.T) {
	ta := newTestAuthenticator(t, "http://unused.invalid")
	require.NoError(t, ta.store.Write(Credential{Token: "gho_ok", User: UserProfile{Login: "octocat"}}))
	require.True(t, ta.IsAuthenticated())

	// Corrupt the file in place; the authenticator must treat it as absent.
	require.NoError(t, os.WriteFile(ta.store.Path(), []byte(`{"token": truncated`), 0o600))
	assert.False(t, ta.IsAuthenticated())

	_, ok := ta.UserInfo()
	assert.False(t, ok)
}
