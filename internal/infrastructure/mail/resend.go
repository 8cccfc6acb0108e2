// Package mail delivers transactional email through the Resend API.
package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/coderbb/identity-api/internal/core/domain"
)

// ResendMailer sends email synchronously via Resend. Wrap it in the queue
// dispatcher for the fire-and-forget semantics the services expect.
type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey), from: from}
}

func (m *ResendMailer) Send(ctx context.Context, email domain.Email) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      email.To,
		Subject: email.Subject,
		Text:    email.Text,
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	return nil
}
