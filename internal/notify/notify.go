package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Discord posts messages to a Discord webhook. A zero URL makes Send a no-op.
type Discord struct {
	URL    string
	Client *http.Client
}

func NewDiscord(url string) *Discord {
	return &Discord{
		URL:    url,
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Send posts msg and waits for the webhook to answer.
func (d *Discord) Send(ctx context.Context, msg string) error {
	if d == nil || d.URL == "" {
		return nil
	}

	payload := map[string]string{
		"content": fmt.Sprintf("📊 **Dispatch**: %s", msg),
	}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook returned status: %d", resp.StatusCode)
	}
	return nil
}
