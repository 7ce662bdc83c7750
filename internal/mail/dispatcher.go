package mail

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"moblind/internal/logging"
	"moblind/internal/metrics"
)

const defaultSendTimeout = 30 * time.Second

// Dispatcher sends messages in the background so a slow mail provider never
// delays the visitor's response. Close waits for in-flight sends.
type Dispatcher struct {
	sender  Sender
	logger  *zap.Logger
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher wraps sender.
func NewDispatcher(sender Sender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		logger:  logging.OrNop(logger),
		timeout: defaultSendTimeout,
	}
}

// Dispatch queues msg for delivery. It returns false once the dispatcher is
// closed.
func (d *Dispatcher) Dispatch(msg Message) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		err := d.sender.Send(ctx, msg)
		metrics.RecordMailDelivery(d.sender.Provider(), err)
		if err != nil {
			d.logger.Warn("failed to send notification email",
				zap.String("provider", d.sender.Provider()),
				zap.String("subject", msg.Subject),
				zap.Error(err))
			return
		}
		d.logger.Info("notification email sent", zap.String("provider", d.sender.Provider()), zap.String("subject", msg.Subject))
	}()
	return true
}

// Close stops accepting messages and waits for pending sends.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}
