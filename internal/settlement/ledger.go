// Package settlement bridges local consumption events to the external
// share ledger and analytics webhook. Everything here runs off the game
// loop's critical path: calls are dispatched on their own goroutines and
// their failures are logged, never surfaced to gameplay.
package settlement

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Ledger is the persistent per-wallet share-accounting service.
//
// TransferShare moves the loser's entire share to the winner atomically;
// a zero-share loser is rejected with an error. RedistributeForFood adds
// amount to the eater's share and scales everyone else's down
// proportionally; it is rejected when amount exceeds the others' total.
type Ledger interface {
	TransferShare(from, to string) error
	RedistributeForFood(amount int64, eater string) error
}

// HTTPLedger talks to a remote ledger service over JSON/HTTP.
type HTTPLedger struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPLedger creates a ledger client with a bounded request timeout.
// The timeout is the only retry/cancellation policy in this layer; the
// game core never retries a settlement call.
func NewHTTPLedger(baseURL, apiKey string, timeout time.Duration) *HTTPLedger {
	return &HTTPLedger{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// TransferShare posts a full-share transfer from loser to winner.
func (l *HTTPLedger) TransferShare(from, to string) error {
	return l.post("/transfer", map[string]string{
		"from": from,
		"to":   to,
	})
}

// RedistributeForFood posts a proportional redistribution in the
// eater's favor.
func (l *HTTPLedger) RedistributeForFood(amount int64, eater string) error {
	return l.post("/redistribute", map[string]any{
		"amount": amount,
		"eater":  eater,
	})
}

func (l *HTTPLedger) post(path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, l.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if l.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+l.apiKey)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Keep a short body snippet for the log line; ledger errors are
		// operational signals, not gameplay input.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("ledger %s: status %d: %s", path, resp.StatusCode, snippet)
	}
	return nil
}
