package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIBase = "https://discord.com/api/v10"

// WebhookEdit is the payload for editing a previously-deferred reply.
type WebhookEdit struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Client edits deferred replies via the webhook callback URL.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: defaultAPIBase,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithBase creates a client against a non-default API base.
func NewClientWithBase(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// EditOriginal PATCHes the original deferred message. Callers treat a
// returned error as log-only: there is no further delivery channel, and
// escalating would only trigger redelivery of already-attempted work.
func (c *Client) EditOriginal(ctx context.Context, applicationID, token string, edit WebhookEdit) error {
	body, err := json.Marshal(edit)
	if err != nil {
		return fmt.Errorf("discord: failed to marshal edit: %w", err)
	}

	url := fmt.Sprintf("%s/webhooks/%s/%s/messages/@original", c.baseURL, applicationID, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("discord: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("discord: edit original failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("discord: edit original status %d: %s", resp.StatusCode, b)
	}
	return nil
}
