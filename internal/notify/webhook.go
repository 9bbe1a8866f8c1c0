// internal/notify/webhook.go
// Fire-and-forget text notifications to a chat webhook. Batch
// progress reporting only; never part of the correctness path.

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Notifier delivers plain text messages to an operations channel.
type Notifier interface {
	Send(ctx context.Context, text string)
}

// WebhookNotifier posts messages to a chat webhook URL.
type WebhookNotifier struct {
	url  string
	http *http.Client
	log  *zap.SugaredLogger
}

func NewWebhookNotifier(url string, log *zap.SugaredLogger) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		http: &http.Client{
			Timeout: 5 * time.Second,
		},
		log: log,
	}
}

// Send posts the message. Delivery failures are logged and swallowed;
// a dead webhook must never affect matching.
func (n *WebhookNotifier) Send(ctx context.Context, text string) {
	if n.url == "" {
		n.log.Debugw("webhook not configured, dropping message", "text", text)
		return
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		n.log.Warnw("failed to encode webhook payload", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		n.log.Warnw("failed to build webhook request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		n.log.Warnw("webhook delivery failed", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.log.Warnw("webhook rejected message", "status", resp.StatusCode)
	}
}

// NopNotifier discards all messages. Used in tests and when no
// webhook is configured.
type NopNotifier struct{}

func (NopNotifier) Send(ctx context.Context, text string) {}
