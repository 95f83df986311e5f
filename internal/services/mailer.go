package services

import (
	"context"
	"log"
)

// Mailer delivers the out-of-band email-verification notification sent after
// registration. Delivery is fire-and-forget: registration never fails because
// of the mailer.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, email string) error
}

// LogMailer is the stub delivery mechanism: it logs the verification reference
// instead of sending real email.
type LogMailer struct{}

func (LogMailer) SendVerificationEmail(_ context.Context, email string) error {
	log.Printf("verification email queued for %s: GET /verify-email?email=%s", email, email)
	return nil
}
