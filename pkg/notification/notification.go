// Package notification delivers notifications over the channels each one
// asks for.
//
//	type SellerVerified struct{ Email string }
//	func (n SellerVerified) Via() []string { return []string{"log", "webhook"} }
//	func (n SellerVerified) ToLog() notification.LogData { ... }
//	func (n SellerVerified) ToWebhook() notification.WebhookData { ... }
//
//	sender.SendAsync(ctx, "seller@example.com", SellerVerified{...})
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eburutu/mart/pkg/http"
	"github.com/eburutu/mart/pkg/logger"
	"github.com/eburutu/mart/pkg/workerpool"
)

// LogData is what the log channel writes.
type LogData struct {
	Message string
	Attrs   []any
}

// WebhookData is a JSON payload POSTed to URL (or the sender's default).
type WebhookData struct {
	URL     string
	Payload any
	Headers map[string]string
}

// Notification lists the channels it should go out on: "log", "webhook".
type Notification interface {
	Via() []string
}

type Loggable interface {
	ToLog() LogData
}

type Webhookable interface {
	ToWebhook() WebhookData
}

// ErrNoWebhookURL is returned by the webhook channel when no URL is set.
var ErrNoWebhookURL = errors.New("notification: webhook URL not configured")

// Sender dispatches notifications. With a pool, SendAsync runs deliveries in
// the background; without one it sends inline.
type Sender struct {
	pool       *workerpool.Pool
	webhookURL string
	attempts   int
	retryWait  time.Duration
}

// NewSender builds a Sender. webhookURL may be empty, in which case webhook
// deliveries without their own URL are skipped.
func NewSender(pool *workerpool.Pool, webhookURL string) *Sender {
	return &Sender{
		pool:       pool,
		webhookURL: webhookURL,
		attempts:   3,
		retryWait:  250 * time.Millisecond,
	}
}

// WithRetry sets how many times a webhook is attempted and the first backoff.
func (s *Sender) WithRetry(attempts int, wait time.Duration) *Sender {
	s.attempts = attempts
	s.retryWait = wait
	return s
}

// Send delivers n on each of its channels and returns the failures.
func (s *Sender) Send(ctx context.Context, to string, n Notification) []error {
	var errs []error
	for _, channel := range n.Via() {
		if err := s.dispatch(ctx, to, channel, n); err != nil {
			if errors.Is(err, ErrNoWebhookURL) {
				continue
			}
			logger.WithCtx(ctx).Error("notification: channel failed", "channel", channel, "error", err)
			errs = append(errs, err)
		}
	}
	return errs
}

// SendAsync queues the delivery on the pool. A full pool drops the
// notification with a warning.
func (s *Sender) SendAsync(ctx context.Context, to string, n Notification) {
	if s.pool == nil {
		s.Send(ctx, to, n)
		return
	}
	err := s.pool.Submit(ctx, func(ctx context.Context) { s.Send(ctx, to, n) })
	if err != nil {
		logger.WithCtx(ctx).Warn("notification: dropped", "to", to, "error", err)
	}
}

func (s *Sender) dispatch(ctx context.Context, to, channel string, n Notification) error {
	switch channel {
	case "log":
		l, ok := n.(Loggable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Loggable", n)
		}
		d := l.ToLog()
		logger.WithCtx(ctx).Info(d.Message, append([]any{"to", to}, d.Attrs...)...)
		return nil

	case "webhook":
		wh, ok := n.(Webhookable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Webhookable", n)
		}
		return s.sendWebhook(ctx, wh.ToWebhook())

	default:
		return fmt.Errorf("notification: unknown channel %q", channel)
	}
}

func (s *Sender) sendWebhook(ctx context.Context, d WebhookData) error {
	url := d.URL
	if url == "" {
		url = s.webhookURL
	}
	if url == "" {
		return ErrNoWebhookURL
	}

	resp, err := http.Post(url).
		WithContext(ctx).
		Headers(d.Headers).
		Body(d.Payload).
		Timeout(10*time.Second).
		Retry(s.attempts, s.retryWait).
		Send()
	if err != nil {
		return fmt.Errorf("notification: webhook send: %w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("notification: webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
