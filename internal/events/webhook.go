// internal/events/webhook.go
package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

const (
	webhookTimeout    = 10 * time.Second
	webhookMaxTries   = 3
	webhookRetryDelay = 500 * time.Millisecond
)

// WebhookNotifier POSTs lifecycle events as JSON to an external sink.
// Delivery is best-effort with a short retry budget; a final failure is
// logged and forgotten.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewWebhookNotifier creates a notifier for the given endpoint.
func NewWebhookNotifier(url string, logger *zap.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: webhookTimeout},
		logger: logger.Named("webhook"),
	}
}

// Register subscribes the notifier to every lifecycle event type.
func (n *WebhookNotifier) Register(bus *Bus) []Subscription {
	subs := make([]Subscription, 0, len(AllTypes))
	for _, t := range AllTypes {
		subs = append(subs, bus.Subscribe(t, n))
	}
	return subs
}

// Handle implements Handler.
func (n *WebhookNotifier) Handle(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type(), err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = webhookRetryDelay

	notify := func(err error, duration time.Duration) {
		n.logger.Debug("Retrying webhook delivery",
			zap.String("event_type", string(event.Type())),
			zap.Duration("backoff", duration),
			zap.Error(err))
	}

	operation := func() (struct{}, error) {
		return struct{}{}, n.post(ctx, payload)
	}

	if _, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(webhookMaxTries),
		backoff.WithNotify(notify)); err != nil {
		n.logger.Warn("Webhook delivery failed",
			zap.String("event_type", string(event.Type())),
			zap.Error(err))
		return err
	}
	return nil
}

func (n *WebhookNotifier) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
