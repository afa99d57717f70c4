// Package auth implements the credential store: registration, login, profile
// updates, and the password reset token lifecycle. Accounts persist as a
// single flat JSON file mapping username to record; every mutation rewrites
// the whole file.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/debray/finkeep/internal/model"
	"github.com/debray/finkeep/internal/notify"
)

// Store owns the account mapping and its persisted JSON file. It assumes
// single-threaded, sequential access; there is no locking against concurrent
// writers of the same file.
type Store struct {
	path     string
	notifier notify.Notifier
	accounts map[string]*model.Account
}

// NewStore opens the users file at path, creating the parent directory if
// needed. A missing file is an empty store, not an error.
func NewStore(path string, notifier notify.Notifier) (*Store, error) {
	if notifier == nil {
		notifier = notify.Noop{}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create users directory: %w", err)
	}

	s := &Store{
		path:     path,
		notifier: notifier,
		accounts: make(map[string]*model.Account),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read users file: %w", err)
	}

	records := make(map[string]*model.Account)
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse users file: %w", err)
	}
	for username, acct := range records {
		acct.Username = username
	}
	s.accounts = records
	return nil
}

// persist rewrites the whole users file. The write goes to a temp file first
// and replaces the old file by rename, so a crash mid-write never leaves a
// torn file behind.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.accounts, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write users file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace users file: %w", err)
	}
	return nil
}

// usernames returns all usernames in sorted order, so every scan over the
// account map is deterministic.
func (s *Store) usernames() []string {
	names := make([]string, 0, len(s.accounts))
	for name := range s.accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
