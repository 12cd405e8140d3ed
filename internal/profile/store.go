// Package profile persists the requester profile in local durable storage.
// The profile is captured once and gates access to task polling.
package profile

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"

	"account-research-report/internal/models"
)

// Store reads and writes the requester profile as a single JSON file
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStore places the profile under the user config directory
func DefaultStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return NewStore(filepath.Join(dir, "account-research", "profile.json")), nil
}

// Exists reports whether a profile has been captured
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Load reads the stored profile
func (s *Store) Load() (*models.RequesterProfile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p models.RequesterProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &p, nil
}

// Save validates and stores the profile
func (s *Store) Save(p *models.RequesterProfile) error {
	if err := Validate(p); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// Validate checks that a profile is complete enough to store
func Validate(p *models.RequesterProfile) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return fmt.Errorf("invalid email address: %s", p.Email)
	}
	if strings.TrimSpace(p.Designation) == "" {
		return fmt.Errorf("designation is required")
	}
	return nil
}
