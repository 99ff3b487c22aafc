package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Store persists one Credential as a JSON file. Reads never return errors:
// a missing, unreadable, or malformed file is reported as "absent" so a
// corrupted credential file is indistinguishable from never having logged
// in. Callers that need the distinction don't exist; simplicity wins over
// diagnosability here.
type Store struct {
	path string
}

// NewStore creates a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the credential file location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the credential file is present on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Read loads the saved credential. The second return value is false when
// the file is missing, unparseable, or holds no token.
func (s *Store) Read() (Credential, bool) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return Credential{}, false
	}

	var cred Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return Credential{}, false
	}
	if cred.Token == "" {
		return Credential{}, false
	}
	return cred, true
}

// Write replaces the stored credential wholesale. The file is owner
// read/write only; tokens must never be group or world readable.
func (s *Store) Write(cred Credential) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return err
	}
	// WriteFile only applies the mode on creation; re-login over an existing
	// file must still end up at 0600.
	return os.Chmod(s.path, 0o600)
}

// Delete removes the credential file.
func (s *Store) Delete() error {
	return os.Remove(s.path)
}
