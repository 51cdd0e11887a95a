package settlement

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Notification is the analytics payload sent once per food consumption,
// independent of the ledger call's outcome.
type Notification struct {
	SessionID string `json:"sessionId"`
	Player    string `json:"player"`
	Food      string `json:"food"`
	Amount    int    `json:"amount"`
}

// Notifier is a best-effort analytics sink. Delivery failures are
// logged by the bridge and otherwise ignored.
type Notifier interface {
	Notify(n Notification) error
}

// WebhookNotifier posts notifications to a fixed webhook URL.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a notifier with a bounded request timeout.
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Notify posts the notification as JSON.
func (n *WebhookNotifier) Notify(notif Notification) error {
	body, err := json.Marshal(notif)
	if err != nil {
		return err
	}

	resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: status %d", resp.StatusCode)
	}
	return nil
}

// NoopNotifier discards notifications. Used when no webhook is configured.
type NoopNotifier struct{}

// Notify does nothing.
func (NoopNotifier) Notify(Notification) error { return nil }
