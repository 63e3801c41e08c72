package mailer

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Mailer sends transactional email. Payment paths treat send failures as
// non-fatal: they are logged and never roll back financial state.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// DevConsoleMailer writes outgoing mail to the log instead of an SMTP relay.
type DevConsoleMailer struct {
	enabled bool
}

func NewDevConsoleMailer(enabled bool) *DevConsoleMailer {
	return &DevConsoleMailer{enabled: enabled}
}

func (m *DevConsoleMailer) Send(_ context.Context, to, subject, body string) error {
	if m.enabled {
		log.Info().
			Str("to", to).
			Str("subject", subject).
			Str("body", body).
			Msg("dev email")
	}
	return nil
}
