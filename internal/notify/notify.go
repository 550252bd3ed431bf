// Package notify delivers outbound notices: verification and reset links and access-request
// decisions. Notices are posted to a webhook, or written to the log when no webhook is set.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"govdocs/internal/config"
	"govdocs/internal/logging"
)

// Notice kinds.
const (
	KindVerifyEmail    = "verify_email"
	KindPasswordReset  = "password_reset"
	KindAccessReviewed = "access_reviewed"
)

// Notice is a message for one recipient.
type Notice struct {
	Kind    string         `json:"kind"`
	To      string         `json:"to"`
	Subject string         `json:"subject"`
	Body    string         `json:"body"`
	Data    map[string]any `json:"data,omitempty"`
}

// Notifier delivers notices.
type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

// New returns a webhook notifier when a URL is configured and a log notifier otherwise.
func New(cfg config.NotifyConfig, logger *logging.Logger) Notifier {
	if cfg.WebhookURL == "" {
		return &LogNotifier{logger: logger.With("notify")}
	}
	return NewWebhook(cfg.WebhookURL, cfg.Timeout)
}

// Webhook posts notices as JSON.
type Webhook struct {
	client *resty.Client
	url    string
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "govdocs-notify")
	return &Webhook{client: client, url: url}
}

func (w *Webhook) Notify(ctx context.Context, n Notice) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(n).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("notify %s: %w", n.Kind, err)
	}
	if resp.IsError() {
		return fmt.Errorf("notify %s: webhook returned %s", n.Kind, resp.Status())
	}
	return nil
}

// LogNotifier writes notices to the structured log.
type LogNotifier struct {
	logger *logging.Logger
}

func NewLog(logger *logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("notify")}
}

func (l *LogNotifier) Notify(_ context.Context, n Notice) error {
	l.logger.Info("notice", map[string]any{
		"kind":    n.Kind,
		"to":      n.To,
		"subject": n.Subject,
		"body":    n.Body,
		"data":    n.Data,
	})
	return nil
}
