package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/debray/finkeep/internal/common"
	"github.com/debray/finkeep/internal/model"
)

const (
	minPasswordLen = 8
	tokenTTL       = time.Hour
	tokenBytes     = 32
)

// Register creates a new account with a bcrypt hash of password and persists
// the store. Usernames are case-sensitive exact-match keys.
func (s *Store) Register(username, email, password string) error {
	if username == "" || email == "" {
		return fmt.Errorf("username and email are required: %w", common.ErrMissingField)
	}
	if len(password) < minPasswordLen {
		return common.ErrWeakPassword
	}
	if _, exists := s.accounts[username]; exists {
		return common.ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.accounts[username] = &model.Account{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.persist(); err != nil {
		delete(s.accounts, username)
		return err
	}
	return nil
}

// Authenticate verifies the username and password, returning the account's
// display identity. The password hash never leaves the store.
func (s *Store) Authenticate(username, password string) (model.Identity, error) {
	acct, exists := s.accounts[username]
	if !exists {
		return model.Identity{}, common.ErrUnknownUser
	}
	if acct.PasswordHash == "" {
		return model.Identity{}, common.ErrCorruptRecord
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return model.Identity{}, common.ErrInvalidCredentials
	}
	return model.Identity{Username: acct.Username, Email: acct.Email}, nil
}

// RequestReset issues a reset token for the account matching usernameOrEmail
// and hands it to the notifier. An exact username match takes precedence;
// otherwise emails are scanned in sorted-username order, so a collision
// between one account's username and another's email resolves the same way
// every time. Delivery failure is logged and swallowed: the token is valid
// regardless.
func (s *Store) RequestReset(ctx context.Context, usernameOrEmail string) error {
	acct := s.accounts[usernameOrEmail]
	if acct == nil {
		for _, username := range s.usernames() {
			if s.accounts[username].Email == usernameOrEmail {
				acct = s.accounts[username]
				break
			}
		}
	}
	if acct == nil {
		return common.ErrNotFound
	}

	token, err := generateToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	expiry := time.Now().Add(tokenTTL).Format(time.RFC3339)

	prevToken, prevExpiry := acct.ResetToken, acct.TokenExpiry
	acct.ResetToken = &token
	acct.TokenExpiry = &expiry
	if err := s.persist(); err != nil {
		acct.ResetToken, acct.TokenExpiry = prevToken, prevExpiry
		return err
	}

	if err := s.notifier.SendResetToken(ctx, acct.Email, token); err != nil {
		common.LogError(err, "reset token email delivery failed", common.Fields{
			"username": acct.Username,
		})
	}
	return nil
}

// RedeemReset consumes a pending reset token: the matching account gets the
// new password and the token is cleared. A token matches only while the
// stored expiry is strictly in the future. Failure mutates nothing.
func (s *Store) RedeemReset(token, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return common.ErrWeakPassword
	}

	for _, username := range s.usernames() {
		acct := s.accounts[username]
		if acct.ResetToken == nil || acct.TokenExpiry == nil {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(*acct.ResetToken), []byte(token)) != 1 {
			continue
		}
		expiry, err := time.Parse(time.RFC3339, *acct.TokenExpiry)
		if err != nil || !expiry.After(time.Now()) {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		prevHash := acct.PasswordHash
		prevToken, prevExpiry := acct.ResetToken, acct.TokenExpiry
		acct.PasswordHash = string(hash)
		acct.ResetToken = nil
		acct.TokenExpiry = nil
		if err := s.persist(); err != nil {
			acct.PasswordHash = prevHash
			acct.ResetToken, acct.TokenExpiry = prevToken, prevExpiry
			return err
		}

		slog.Info("password reset completed", "username", username)
		return nil
	}
	return common.ErrInvalidToken
}

// UpdateProfile replaces the account's email and, when newPassword is
// non-empty, rehashes the password. No confirmation of the current password
// is required; the surrounding product treats a logged-in session as
// sufficient.
func (s *Store) UpdateProfile(username, newEmail, newPassword string) error {
	acct, exists := s.accounts[username]
	if !exists {
		return common.ErrUnknownUser
	}
	if newEmail == "" {
		return fmt.Errorf("email is required: %w", common.ErrMissingField)
	}
	if newPassword != "" && len(newPassword) < minPasswordLen {
		return common.ErrWeakPassword
	}

	prevEmail, prevHash := acct.Email, acct.PasswordHash
	acct.Email = newEmail
	if newPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		acct.PasswordHash = string(hash)
	}

	if err := s.persist(); err != nil {
		acct.Email, acct.PasswordHash = prevEmail, prevHash
		return err
	}
	return nil
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
