package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/coderbb/identity-api/internal/api/metrics"
	"github.com/coderbb/identity-api/internal/core/domain"
	"github.com/coderbb/identity-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	sendTimeout    = 30 * time.Second
)

// MailDispatcher delivers transactional email in the background. Enqueue is
// non-blocking and never fails the caller: a full queue drops the message
// with a logged warning, and delivery errors are only observed through logs.
// There is no retry; delivery is best-effort.
type MailDispatcher struct {
	queue   chan domain.Email
	workers int
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewMailDispatcher creates a dispatcher with numWorkers delivery workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &MailDispatcher{
		queue:   make(chan domain.Email, channelBuffer),
		workers: numWorkers,
		mailer:  mailer,
		log:     log,
	}
}

// Start launches the delivery workers. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		go d.runWorker(ctx, i)
	}
}

// Enqueue schedules an email for delivery without blocking.
func (d *MailDispatcher) Enqueue(email domain.Email) {
	select {
	case d.queue <- email:
	default:
		metrics.EmailsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("subject", email.Subject).
			Msg("mail queue full, dropping message")
	}
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case email, ok := <-d.queue:
			if !ok {
				return
			}
			sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
			if err := d.mailer.Send(sendCtx, email); err != nil {
				metrics.EmailsTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Str("subject", email.Subject).
					Int("worker_id", id).
					Msg("email delivery failed")
			} else {
				metrics.EmailsTotal.WithLabelValues("sent").Inc()
			}
			cancel()
		}
	}
}
