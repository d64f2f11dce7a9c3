// Package webhook delivers pipeline events to a configured HTTP endpoint.
// Delivery is fire-and-forget with a bounded timeout; a dead endpoint
// never backs up the pipeline.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docmill/internal/core/domain"
	"github.com/custodia-labs/docmill/internal/core/ports/driven"
	"github.com/custodia-labs/docmill/internal/logger"
)

// defaultTimeout bounds a single delivery attempt.
const defaultTimeout = 10 * time.Second

// Notifier posts events as JSON to a webhook URL. A token bucket keeps
// bursts of events (a folder full of pre-existing files on startup) from
// hammering the receiver.
type Notifier struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
}

// Ensure Notifier implements the interface.
var _ driven.Notifier = (*Notifier)(nil)

// Option configures the notifier.
type Option func(*Notifier)

// WithTimeout overrides the per-delivery timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(n *Notifier) {
		n.client.Timeout = timeout
	}
}

// WithRateLimit overrides the sustained delivery rate and burst size.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(n *Notifier) {
		n.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// New creates a notifier posting to url.
func New(url string, opts ...Option) (*Notifier, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: webhook URL is empty", domain.ErrInvalidInput)
	}

	n := &Notifier{
		url:     url,
		client:  &http.Client{Timeout: defaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(5.0), 10),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// webhookPayload is the wire format the receiver sees.
type webhookPayload struct {
	EventType string         `json:"event_type"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// Notify delivers one event. Non-2xx responses are errors so the caller
// can log them; they are never retried here.
func (n *Notifier) Notify(ctx context.Context, event domain.Event) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}

	body, err := json.Marshal(webhookPayload{
		EventType: string(event.Type),
		Timestamp: event.Timestamp,
		Data:      event.Data,
	})
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivering %s event: %w", event.Type, err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // Drain for connection reuse
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %d for %s event", resp.StatusCode, event.Type)
	}

	logger.Debug("delivered %s event to webhook", event.Type)
	return nil
}
