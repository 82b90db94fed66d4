// Package notify dispatches owner notifications fire-and-forget.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ticketa/eventpay/internal/core/ports"
)

// Sender delivers a single notification. The real implementation is an
// external mail/push collaborator; failures are logged, never retried
// here, and never affect the payment outcome.
type Sender interface {
	Send(ctx context.Context, n ports.Notification) error
}

// Dispatcher fans notifications out on their own goroutines so slow
// delivery never delays a webhook acknowledgement.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func NewDispatcher(sender Sender, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		timeout: timeout,
		logger:  logger,
	}
}

var _ ports.Notifier = (*Dispatcher)(nil)

// Dispatch hands the notification off and returns immediately. The
// delivery runs detached from the caller's context: the reconciliation
// request finishing must not cancel it.
func (d *Dispatcher) Dispatch(_ context.Context, n ports.Notification) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.sender.Send(ctx, n); err != nil {
			d.logger.Error("notification delivery failed",
				"recipient_id", n.RecipientID,
				"subject", n.Subject,
				"error", err,
			)
		}
	}()
}

// Wait blocks until in-flight deliveries finish; used on shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// LogSender is the default collaborator stand-in: it records the
// notification in the service log.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(_ context.Context, n ports.Notification) error {
	s.Logger.Info("notification dispatched",
		"recipient_id", n.RecipientID,
		"recipient_email", n.RecipientEmail,
		"subject", n.Subject,
	)
	return nil
}
