package service

import "log"

// Mailer delivers transactional mail. Actual delivery (SMTP, Brevo) lives
// outside this core; the interface keeps it out of the ledger transaction
// boundary and lets tests capture messages.
type Mailer interface {
	SendPasswordReset(toEmail, toName, resetLink string) error
}

// LogMailer writes mail to the application log instead of sending it.
// Used in development and as the default when no provider is configured.
type LogMailer struct{}

// SendPasswordReset logs the reset link for the recipient.
func (LogMailer) SendPasswordReset(toEmail, toName, resetLink string) error {
	log.Printf("password reset for %s <%s>: %s", toName, toEmail, resetLink)
	return nil
}
