package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Raman-Agnihotri/Green-cart/internal/domain"
	"github.com/Raman-Agnihotri/Green-cart/pkg/httpclient"
)

// HTTPWebhookSender posts notifications as JSON to a fixed endpoint through a
// circuit breaker, so a dead receiver cannot slow down notification writes.
type HTTPWebhookSender struct {
	client *httpclient.CircuitBreakerClient
	url    string
}

// NewHTTPWebhookSender creates a webhook sender for the given endpoint.
func NewHTTPWebhookSender(client *httpclient.CircuitBreakerClient, url string) *HTTPWebhookSender {
	return &HTTPWebhookSender{client: client, url: url}
}

// Send posts the notification. Any non-2xx answer is an error; the breaker
// has already consumed 5xx responses as failures.
func (s *HTTPWebhookSender) Send(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	resp, err := s.client.Post(ctx, s.url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook answered %d", resp.StatusCode)
	}
	return nil
}
