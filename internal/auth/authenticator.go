package auth

import (
	"context"
	"time"

	"github.com/ubounty/ubounty-cli/internal/logger"
	"go.uber.org/zap"
)

// maxPollAttempts caps the polling loop. With the default 5 second interval
// this is roughly five minutes, though slow_down responses grow the
// interval and with it the real wall-clock ceiling.
const maxPollAttempts = 60

// slowDownIncrement is added to the polling interval on every slow_down
// response, per RFC 8628 section 3.5.
const slowDownIncrement = 5 // seconds

// Reporter is the output sink for login/logout status messages. Commands
// pass a pterm-backed implementation; tests pass a recorder.
type Reporter interface {
	Infof(format string, args ...any)
	Successf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Confirmer answers the yes/no prompts shown during login and logout.
type Confirmer interface {
	Confirm(prompt string, defaultYes bool) bool
}

// Authenticator drives the device authorization grant to completion and
// owns the credential store. All methods are synchronous and blocking;
// there is no way to abort an in-flight polling loop other than the loop's
// own attempt cap.
type Authenticator struct {
	flow    *DeviceFlow
	store   *Store
	out     Reporter
	confirm Confirmer
	sleep   func(time.Duration)
}

// NewAuthenticator wires an Authenticator from its collaborators.
func NewAuthenticator(flow *DeviceFlow, store *Store, out Reporter, confirm Confirmer) *Authenticator {
	return &Authenticator{
		flow:    flow,
		store:   store,
		out:     out,
		confirm: confirm,
		sleep:   time.Sleep,
	}
}

// Login runs the full device flow: request a code, show it, wait for the
// user, poll for the token, fetch the profile, persist the credential.
// It returns true only when a credential was written; every failure path
// has already rendered a message through the Reporter. No partial
// credential is ever persisted.
func (a *Authenticator) Login(ctx context.Context) bool {
	a.out.Infof("GitHub Login (device flow authentication)")

	authz, err := a.flow.RequestCode(ctx)
	if err != nil {
		logger.Error("device code request failed", zap.Error(err))
		a.out.Errorf("Network error: %v", err)
		return false
	}

	a.out.Infof("Step 1: Copy your code: %s", authz.UserCode)
	a.out.Infof("Step 2: Open this URL in your browser: %s", authz.VerificationURI)
	a.out.Infof("Step 3: Paste the code and authorize ubounty")

	if !a.confirm.Confirm("Ready to continue?", true) {
		a.out.Warnf("Login cancelled")
		return false
	}

	a.out.Infof("Waiting for authorization...")

	interval := authz.Interval
	for attempt := 0; attempt < maxPollAttempts; attempt++ {
		a.sleep(time.Duration(interval) * time.Second)

		res, err := a.flow.PollOnce(ctx, authz.DeviceCode)
		if err != nil {
			logger.Error("token poll failed", zap.Error(err))
			a.out.Errorf("Network error: %v", err)
			return false
		}

		switch res.outcome {
		case pollToken:
			return a.finishLogin(ctx, res.token)
		case pollPending:
			// keep polling
		case pollSlowDown:
			interval += slowDownIncrement
		case pollExpired:
			a.out.Errorf("Device code expired")
			return false
		case pollDenied:
			a.out.Warnf("Authorization denied")
			return false
		case pollUnknown:
			a.out.Errorf("Error: %s", res.message)
			return false
		}
	}

	a.out.Errorf("Authentication timeout")
	return false
}

func (a *Authenticator) finishLogin(ctx context.Context, token string) bool {
	profile, err := a.flow.FetchProfile(ctx, token)
	if err != nil {
		logger.Error("profile fetch failed", zap.Error(err))
		a.out.Errorf("Network error: %v", err)
		return false
	}

	if err := a.store.Write(Credential{Token: token, User: profile}); err != nil {
		logger.Error("credential write failed", zap.Error(err))
		a.out.Errorf("Failed to save credentials: %v", err)
		return false
	}

	a.out.Successf("Successfully logged in as @%s!", profile.Login)
	return true
}

// Logout deletes the saved credential after confirmation. Returns false
// when there is nothing to remove or the user declined.
func (a *Authenticator) Logout() bool {
	if !a.store.Exists() {
		a.out.Warnf("No saved credentials found")
		return false
	}

	if !a.confirm.Confirm("Are you sure you want to logout?", true) {
		return false
	}

	if err := a.store.Delete(); err != nil {
		a.out.Errorf("Failed to remove credentials: %v", err)
		return false
	}
	a.out.Successf("Logged out successfully")
	return true
}

// Token returns the saved bearer token. ok is false when no usable
// credential is stored.
func (a *Authenticator) Token() (string, bool) {
	cred, ok := a.store.Read()
	if !ok {
		return "", false
	}
	return cred.Token, true
}

// UserInfo returns the profile snapshot captured at login time.
func (a *Authenticator) UserInfo() (UserProfile, bool) {
	cred, ok := a.store.Read()
	if !ok {
		return UserProfile{}, false
	}
	return cred.User, true
}

// IsAuthenticated reports whether a non-empty token can be read from the
// store. A file with unparseable contents does not count.
func (a *Authenticator) IsAuthenticated() bool {
	_, ok := a.Token()
	return ok
}
