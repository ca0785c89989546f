// Package email provides outbound transactional email. The Sender
// interface is injected into the services that announce account events;
// when no API key is configured the disabled implementation is wired in
// and every send becomes a logged no-op.
package email

import (
	"context"

	"github.com/phrazzld/taskward/internal/config"
	"github.com/phrazzld/taskward/internal/platform/logger"
)

// Sender delivers the transactional emails tied to account lifecycle
// events. Failures are logged by callers and never surfaced to clients;
// email is strictly best-effort.
type Sender interface {
	// SendWelcome greets a newly signed-up user.
	SendWelcome(ctx context.Context, email, name string) error

	// SendCancellation says goodbye to a user who deleted their account.
	SendCancellation(ctx context.Context, email, name string) error
}

// NewSender returns the sender appropriate for the configuration: a
// SendGrid-backed sender when an API key is present, otherwise the
// disabled no-op. A missing key is not an error.
func NewSender(cfg config.EmailConfig) Sender {
	if cfg.SendGridAPIKey == "" {
		return &disabledSender{}
	}
	return NewSendGridSender(cfg)
}

// disabledSender drops every email, logging at debug so development
// environments can see what would have been sent.
type disabledSender struct{}

func (s *disabledSender) SendWelcome(ctx context.Context, email, name string) error {
	logger.FromContext(ctx).Debug("email disabled, skipping welcome email",
		"to", email)
	return nil
}

func (s *disabledSender) SendCancellation(ctx context.Context, email, name string) error {
	logger.FromContext(ctx).Debug("email disabled, skipping cancellation email",
		"to", email)
	return nil
}
