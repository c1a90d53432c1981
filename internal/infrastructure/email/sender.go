// Package email contains the delivery side of the mail queue. The log
// sender stands in for a real provider integration; it renders the templated
// link and writes it to the structured log.
package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/chirpnet/social-api/internal/core/ports"
)

// LogSender writes outgoing emails to the log instead of delivering them.
type LogSender struct {
	baseURL string
	log     zerolog.Logger
}

// NewLogSender creates a LogSender. baseURL is the client-facing origin the
// verification and reset links point at.
func NewLogSender(baseURL string, log zerolog.Logger) *LogSender {
	return &LogSender{baseURL: baseURL, log: log}
}

// Send renders the link for the job's template and logs it.
func (s *LogSender) Send(_ context.Context, job ports.EmailJob) error {
	var link string
	switch job.Kind {
	case ports.EmailVerifyAccount:
		link = fmt.Sprintf("%s/verify-email?email_verify_token=%s", s.baseURL, job.Token)
	case ports.EmailResetPassword:
		link = fmt.Sprintf("%s/reset-password?forgot_password_token=%s", s.baseURL, job.Token)
	default:
		return fmt.Errorf("unknown email kind %q", job.Kind)
	}

	s.log.Info().
		Str("recipient", job.Recipient).
		Str("kind", string(job.Kind)).
		Str("link", link).
		Msg("email dispatched")
	return nil
}
