package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Notifier delivers a human-readable message to one channel. Failures
// are logged by callers and never bubble into request handling.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// ChatWebhook posts messages to a chat webhook (Google Chat style
// {"text": ...} payload).
type ChatWebhook struct {
	URL    string
	Client *http.Client
}

func NewChatWebhook(url string) *ChatWebhook {
	return &ChatWebhook{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *ChatWebhook) Notify(ctx context.Context, message string) error {
	body, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("chat webhook returned %d", resp.StatusCode)
	}
	return nil
}

// LogNotifier writes messages to the process log. Used as the mail
// stand-in until a real SMTP integration lands.
type LogNotifier struct {
	Prefix string
}

func (n *LogNotifier) Notify(_ context.Context, message string) error {
	log.Printf("[%s] %s", n.Prefix, message)
	return nil
}
