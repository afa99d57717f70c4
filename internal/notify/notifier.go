// Package notify delivers password reset tokens to account holders.
package notify

import (
	"context"
	"log/slog"
)

// Notifier delivers a reset token to an email address. Delivery is
// fire-and-forget from the credential store's point of view: a failure is
// logged by the caller and never invalidates the token.
type Notifier interface {
	SendResetToken(ctx context.Context, email, token string) error
}

// Noop is the notifier used when no mail host is configured. The token still
// exists and can be redeemed; it just is not delivered anywhere.
type Noop struct{}

// SendResetToken logs the undelivered token at debug level and succeeds.
func (Noop) SendResetToken(_ context.Context, email, token string) error {
	slog.Debug("email notifier disabled, reset token not delivered",
		"email", email, "token", token)
	return nil
}
