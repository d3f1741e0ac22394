// Package mailer sends lifecycle emails (verification links, reset codes)
// through an asynchronous dispatcher. Delivery is fire-and-forget: a failed
// or dropped send never rolls back the state change that triggered it.
package mailer

import "fmt"

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a single message synchronously.
type Mailer interface {
	Send(msg Message) error
}

// VerificationMessage builds the account-verification email carrying the
// tokenized link. The link expires with the token (24 hours).
func VerificationMessage(to, name, verifyURL string) Message {
	return Message{
		To:      to,
		Subject: "Verify your Research Hub account",
		Body: fmt.Sprintf(
			"Dear %s,\n\n"+
				"Thank you for registering at the Research Hub.\n"+
				"Please verify your email address by clicking the link below:\n%s\n\n"+
				"This link will expire in 24 hours.\n\n"+
				"If you did not register, please ignore this email.\n",
			name, verifyURL),
	}
}

// ResetMessage builds the password-reset email carrying the tokenized link.
func ResetMessage(to, name, resetURL string) Message {
	return Message{
		To:      to,
		Subject: "Research Hub password reset",
		Body: fmt.Sprintf(
			"Dear %s,\n\n"+
				"A password reset was requested for your account.\n"+
				"Use the link below to choose a new password:\n%s\n\n"+
				"This link will expire in 1 hour. If you did not request a reset,\n"+
				"please ignore this email.\n",
			name, resetURL),
	}
}
