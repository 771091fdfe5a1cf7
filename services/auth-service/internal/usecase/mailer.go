package usecase

import (
	"context"
)

// Mailer is the outbound email transport used by the account usecases.
// *mailer.Mailer satisfies it.
type Mailer interface {
	SendHTML(ctx context.Context, to []string, subject, htmlBody, textBody string) error
	Verify(ctx context.Context) error
}
