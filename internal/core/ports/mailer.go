package ports

import "context"

// EmailKind selects the template an outgoing email uses.
type EmailKind string

const (
	EmailVerifyAccount EmailKind = "verify_account"
	EmailResetPassword EmailKind = "reset_password"
)

// EmailJob is one queued delivery. Token is embedded into the templated link.
type EmailJob struct {
	Kind      EmailKind
	Recipient string
	Token     string
}

// EmailSender performs the actual delivery of one email.
type EmailSender interface {
	Send(ctx context.Context, job EmailJob) error
}

// MailQueue accepts jobs for asynchronous delivery. Enqueue never blocks the
// issuing request; delivery failures are logged, not surfaced.
type MailQueue interface {
	Enqueue(job EmailJob)
}
