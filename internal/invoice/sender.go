package invoice

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"projecttracker/internal/worker"
)

// Sender simulates delivery to an invoice provider. The payload is
// serialized and logged after a fixed delay on the worker pool; there is no
// real network contract yet. Callers block until the simulated delivery
// finishes or their context ends.
type Sender struct {
	pool  worker.Pool
	delay time.Duration
}

func NewSender(pool worker.Pool, delay time.Duration) *Sender {
	return &Sender{pool: pool, delay: delay}
}

// Send delivers a payload to the named provider. On context cancellation the
// queued or in-flight job still drains on the pool, but the caller returns
// with ctx.Err() immediately and must not treat the send as successful.
func (s *Sender) Send(ctx context.Context, provider string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	// Submit can block waiting for a free worker; run it off the calling
	// goroutine so cancellation is honored while the job is still queued.
	done := make(chan struct{})
	go s.pool.Submit(func() {
		time.Sleep(s.delay)
		log.Printf("sending invoice to %s: %s", provider, body)
		close(done)
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
