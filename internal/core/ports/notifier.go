package ports

import (
	"context"

	"github.com/coderbb/identity-api/internal/core/domain"
)

// Mailer delivers a single transactional email synchronously.
type Mailer interface {
	Send(ctx context.Context, email domain.Email) error
}

// Notifier schedules a transactional email for background delivery. Enqueue
// never blocks and never fails the caller; delivery errors are only observed
// through logs.
type Notifier interface {
	Enqueue(email domain.Email)
}
