package application

import "context"

// EmailClient is the port for the external email-sending infrastructure.
type EmailClient interface {
	Send(ctx context.Context, recipient, subject, htmlBody, textBody string) error
}
