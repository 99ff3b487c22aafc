// Package api is the client for the ubounty backend, which holds user
// settings and wallet bindings keyed by the GitHub identity.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ubounty/ubounty-cli/internal/auth"
	"github.com/ubounty/ubounty-cli/internal/config"
)

var (
	// ErrNotLoggedIn means no usable credential exists locally.
	ErrNotLoggedIn = errors.New("not logged in. Run 'ubounty login' first")

	// ErrUnauthenticated means the backend rejected the token.
	ErrUnauthenticated = errors.New("authentication failed")
)

// WalletStatusBound marks a wallet that has an address attached.
const WalletStatusBound = "bound"

// Wallet describes the user's payout wallet as known by the backend.
type Wallet struct {
	Status  string `json:"status"`
	Network string `json:"network,omitempty"`
	ChainID int    `json:"chain_id,omitempty"`
	Address string `json:"address,omitempty"`
	BoundAt string `json:"bound_at,omitempty"`
}

// Bound reports whether an address is attached.
func (w *Wallet) Bound() bool {
	return w != nil && w.Status == WalletStatusBound
}

// UserSettings is the backend's view of the authenticated user.
type UserSettings struct {
	GitHubUsername string  `json:"github_username"`
	Name           string  `json:"name,omitempty"`
	Email          string  `json:"email,omitempty"`
	Wallet         *Wallet `json:"wallet,omitempty"`
}

// Client calls the ubounty backend as the locally authenticated user.
type Client struct {
	baseURL string
	store   *auth.Store
	client  *http.Client
}

// NewClient creates a Client for the backend at cfg.APIURL, authenticating
// with the credential held by store.
func NewClient(cfg *config.Config, store *auth.Store) *Client {
	return &Client{
		baseURL: cfg.APIURL,
		store:   store,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// IsAuthenticated reports whether a usable local credential exists.
func (c *Client) IsAuthenticated() bool {
	_, ok := c.store.Read()
	return ok
}

// GetUserSettings fetches the user's settings including wallet state.
func (c *Client) GetUserSettings(ctx context.Context) (*UserSettings, error) {
	var settings UserSettings
	if err := c.do(ctx, http.MethodGet, "/api/users/me/settings", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateWallet binds a wallet address and returns the updated wallet.
func (c *Client) UpdateWallet(ctx context.Context, address string) (*Wallet, error) {
	payload := map[string]string{"wallet_address": address}
	var result struct {
		Wallet Wallet `json:"wallet"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/users/me/settings", payload, &result); err != nil {
		return nil, err
	}
	return &result.Wallet, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, target any) error {
	cred, ok := c.store.Read()
	if !ok {
		return ErrNotLoggedIn
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ubounty-cli/"+config.Version())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("API error: %s", apiErr.Error)
		}
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	if target == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
