package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/metrics"
)

// RetryPolicy is an explicit attempt counter plus a deterministic backoff
// function, so in-flight retries can be aborted cleanly via context.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Factor      float64
	MaxDelay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Factor:      2,
		MaxDelay:    10 * time.Second,
	}
}

// Delay returns the backoff before attempt n (1-based); attempt 1 has no
// delay.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	d := p.BaseDelay
	for i := 2; i < attempt; i++ {
		d = time.Duration(float64(d) * p.Factor)
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

type Dispatcher struct {
	transport      domain.Transport
	policy         RetryPolicy
	attemptTimeout time.Duration
	bulkDelay      time.Duration
	bulkWorkers    int
	metrics        *metrics.OrderMetrics
}

type Option func(*Dispatcher)

func WithRetryPolicy(p RetryPolicy) Option {
	return func(d *Dispatcher) { d.policy = p }
}

func WithAttemptTimeout(t time.Duration) Option {
	return func(d *Dispatcher) { d.attemptTimeout = t }
}

func WithBulkDelay(t time.Duration) Option {
	return func(d *Dispatcher) { d.bulkDelay = t }
}

func WithBulkWorkers(n int) Option {
	return func(d *Dispatcher) { d.bulkWorkers = n }
}

func WithMetrics(m *metrics.OrderMetrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func NewDispatcher(transport domain.Transport, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		transport:      transport,
		policy:         DefaultRetryPolicy(),
		attemptTimeout: 5 * time.Second,
		bulkDelay:      100 * time.Millisecond,
		bulkWorkers:    4,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Notify delivers one status-change message, retrying transient failures
// per the policy. Permanent failures (invalid channel) are not retried.
// Exhausted retries are recorded as a permanent delivery failure; the
// already-committed status change is never rolled back.
func (d *Dispatcher) Notify(ctx context.Context, channelID string, template domain.NotificationTemplate, octx domain.OrderContext) domain.DeliveryResult {
	job := &domain.NotificationJob{
		ChannelID: channelID,
		Template:  template,
		Order:     octx,
	}
	message := RenderMessage(template, octx)

	var lastErr error
	for job.Attempts < d.policy.MaxAttempts {
		if delay := d.policy.Delay(job.Attempts + 1); delay > 0 {
			job.NextRetryAt = time.Now().Add(delay)
			if err := sleepCtx(ctx, delay); err != nil {
				lastErr = err
				break
			}
		}
		job.Attempts++
		if d.metrics != nil {
			d.metrics.NotificationAttemptsTotal.Inc()
		}

		lastErr = d.attempt(ctx, channelID, message)
		if lastErr == nil {
			job.Done = true
			d.metrics.RecordNotification(template, true, job.Attempts)
			return domain.DeliveryResult{ChannelID: channelID, Delivered: true, Attempts: job.Attempts}
		}
		if errors.Is(lastErr, domain.ErrInvalidChannel) {
			break
		}
	}

	job.Failed = true
	d.metrics.RecordNotification(template, false, job.Attempts)
	slog.Error("notification delivery failed permanently",
		"channel_id", channelID,
		"template", string(template),
		"order_id", octx.OrderID,
		"attempts", job.Attempts,
		"error", lastErr.Error(),
	)
	return domain.DeliveryResult{
		ChannelID: channelID,
		Delivered: false,
		Attempts:  job.Attempts,
		Error:     lastErr.Error(),
	}
}

func (d *Dispatcher) attempt(ctx context.Context, channelID, message string) error {
	ctx, cancel := context.WithTimeout(ctx, d.attemptTimeout)
	defer cancel()
	return d.transport.Send(ctx, channelID, message)
}

// NotifyBulk fans a message out to many recipients through a bounded worker
// pool fed by a rate-limiting ticker, so outbound throughput limits are
// respected. One recipient's failure never aborts the remaining sends.
func (d *Dispatcher) NotifyBulk(ctx context.Context, channelIDs []string, template domain.NotificationTemplate, octx domain.OrderContext) domain.BulkDeliveryResult {
	if len(channelIDs) == 0 {
		return domain.BulkDeliveryResult{}
	}

	jobs := make(chan string)
	results := make([]domain.DeliveryResult, 0, len(channelIDs))
	var mu sync.Mutex
	var wg sync.WaitGroup

	workers := d.bulkWorkers
	if workers > len(channelIDs) {
		workers = len(channelIDs)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for channelID := range jobs {
				res := d.Notify(ctx, channelID, template, octx)
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
			}
		}()
	}

feed:
	for i, channelID := range channelIDs {
		if i > 0 && d.bulkDelay > 0 {
			if err := sleepCtx(ctx, d.bulkDelay); err != nil {
				break feed
			}
		}
		select {
		case jobs <- channelID:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	out := domain.BulkDeliveryResult{Results: results}
	for _, r := range results {
		if r.Delivered {
			out.Success++
		} else {
			out.Failed++
		}
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("delivery aborted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
