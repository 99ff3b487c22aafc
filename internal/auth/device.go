package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// githubClientID is the public OAuth App client ID used for device-flow
// logins from the CLI.
const githubClientID = "Iv1.b507a08c87ecfe98"

const (
	githubDefaultBaseURL    = "https://github.com"
	githubDefaultAPIBaseURL = "https://api.github.com"

	// deviceFlowScope is requested during the device code grant.
	deviceFlowScope = "repo workflow"

	// requestTimeout bounds every provider call; the deliberate sleep
	// between poll attempts is driven by the server interval instead.
	requestTimeout = 10 * time.Second

	defaultPollInterval = 5 // seconds, used when the provider omits one
)

// DeviceFlow performs the three HTTP calls of the OAuth 2.0 device
// authorization grant against GitHub: code issuance, token exchange, and
// profile lookup. It carries no state between calls; the polling loop
// lives in Authenticator.
type DeviceFlow struct {
	clientID   string
	baseURL    string // device code + token endpoints
	apiBaseURL string // user profile endpoint
	client     *http.Client
}

// NewDeviceFlow creates a DeviceFlow. Pass empty URLs to use the real
// GitHub endpoints; tests pass httptest server URLs.
func NewDeviceFlow(clientID, baseURL, apiBaseURL string) *DeviceFlow {
	if clientID == "" {
		clientID = githubClientID
	}
	if baseURL == "" {
		baseURL = githubDefaultBaseURL
	}
	if apiBaseURL == "" {
		apiBaseURL = githubDefaultAPIBaseURL
	}
	return &DeviceFlow{
		clientID:   clientID,
		baseURL:    baseURL,
		apiBaseURL: apiBaseURL,
		client:     &http.Client{Timeout: requestTimeout},
	}
}

// NewDefaultDeviceFlow creates a DeviceFlow against the real GitHub API
// using the embedded client ID.
func NewDefaultDeviceFlow() *DeviceFlow {
	return NewDeviceFlow("", "", "")
}

func (f *DeviceFlow) postForm(ctx context.Context, endpoint string, data url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.client.Do(req)
}

// RequestCode asks GitHub for a device/user code pair. The returned
// UserCode and VerificationURI must be shown to the user.
func (f *DeviceFlow) RequestCode(ctx context.Context) (DeviceAuthorization, error) {
	data := url.Values{}
	data.Set("client_id", f.clientID)
	data.Set("scope", deviceFlowScope)

	resp, err := f.postForm(ctx, f.baseURL+"/login/device/code", data)
	if err != nil {
		return DeviceAuthorization{}, fmt.Errorf("requesting device code: %w", err)
	}
	defer resp.Body.Close()

	var raw struct {
		DeviceCode      string `json:"device_code"`
		UserCode        string `json:"user_code"`
		VerificationURI string `json:"verification_uri"`
		Interval        int    `json:"interval"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return DeviceAuthorization{}, fmt.Errorf("decoding device code response: %w", err)
	}
	if raw.DeviceCode == "" || raw.UserCode == "" || raw.VerificationURI == "" {
		return DeviceAuthorization{}, fmt.Errorf("device code response missing required fields")
	}
	if raw.Interval < 1 {
		raw.Interval = defaultPollInterval
	}

	return DeviceAuthorization{
		DeviceCode:      raw.DeviceCode,
		UserCode:        raw.UserCode,
		VerificationURI: raw.VerificationURI,
		Interval:        raw.Interval,
	}, nil
}

// PollOnce performs a single token-exchange attempt and maps the provider
// response onto the closed pollOutcome set.
func (f *DeviceFlow) PollOnce(ctx context.Context, deviceCode string) (pollResult, error) {
	data := url.Values{}
	data.Set("client_id", f.clientID)
	data.Set("device_code", deviceCode)
	data.Set("grant_type", "urn:ietf:params:oauth:grant-type:device_code")

	resp, err := f.postForm(ctx, f.baseURL+"/login/oauth/access_token", data)
	if err != nil {
		return pollResult{}, fmt.Errorf("polling for token: %w", err)
	}
	defer resp.Body.Close()

	var raw struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return pollResult{}, fmt.Errorf("decoding token response: %w", err)
	}

	switch raw.Error {
	case "":
		if raw.AccessToken != "" {
			return pollResult{outcome: pollToken, token: raw.AccessToken}, nil
		}
		// Neither token nor error; treat as still pending.
		return pollResult{outcome: pollPending}, nil
	case "authorization_pending":
		return pollResult{outcome: pollPending}, nil
	case "slow_down":
		return pollResult{outcome: pollSlowDown}, nil
	case "expired_token":
		return pollResult{outcome: pollExpired}, nil
	case "access_denied":
		return pollResult{outcome: pollDenied}, nil
	default:
		return pollResult{outcome: pollUnknown, message: raw.Error}, nil
	}
}

// FetchProfile retrieves the authenticated user's profile. Not retried: a
// failure here fails the whole login.
func (f *DeviceFlow) FetchProfile(ctx context.Context, token string) (UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.apiBaseURL+"/user", nil)
	if err != nil {
		return UserProfile{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := f.client.Do(req)
	if err != nil {
		return UserProfile{}, fmt.Errorf("fetching user profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return UserProfile{}, fmt.Errorf("fetching user profile: HTTP %d", resp.StatusCode)
	}

	var profile UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return UserProfile{}, fmt.Errorf("decoding user profile: %w", err)
	}
	if profile.Login == "" {
		return UserProfile{}, fmt.Errorf("user profile response missing login")
	}
	return profile, nil
}
