// Package auth implements GitHub device-flow authentication and the local
// credential store that the rest of the CLI reads tokens from.
package auth

// DeviceAuthorization holds the response to a device authorization request.
// DeviceCode and UserCode are a matched pair for a single authorization
// attempt and expire together; DeviceCode is never shown to the user.
type DeviceAuthorization struct {
	DeviceCode      string
	UserCode        string
	VerificationURI string
	Interval        int // minimum polling interval in seconds, always >= 1
}

// UserProfile is a snapshot of the authenticated GitHub user, captured at
// login time and never refreshed.
type UserProfile struct {
	Login     string `json:"login"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Credential is the persisted record of a completed login.
type Credential struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// pollOutcome is the closed set of token-exchange results. Provider error
// strings are mapped to it at the HTTP boundary so the polling loop never
// sees loosely-typed JSON.
type pollOutcome int

const (
	pollToken pollOutcome = iota
	pollPending
	pollSlowDown
	pollExpired
	pollDenied
	pollUnknown
)

type pollResult struct {
	outcome pollOutcome
	token   string // set when outcome == pollToken
	message string // provider error string when outcome == pollUnknown
}
