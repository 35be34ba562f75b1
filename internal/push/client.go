// Package push delivers mobile push notifications through the hosted
// gateway the mobile client registers against. Delivery is best-effort
// everywhere in this codebase: callers log failures and move on.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Notification is one push message addressed by subscriber id (the
// platform user id the device registered under).
type Notification struct {
	SubID string `json:"subID"`
	AppID int    `json:"appId"`
	Token string `json:"appToken"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Sender sends a push notification to one subscriber.
type Sender interface {
	Send(ctx context.Context, title, body, subID string) error
}

// Client talks to the gateway's REST endpoint.
type Client struct {
	baseURL  string
	appID    int
	appToken string
	http     *http.Client
}

func NewClient(baseURL string, appID int, appToken string) *Client {
	return &Client{
		baseURL:  baseURL,
		appID:    appID,
		appToken: appToken,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

var _ Sender = (*Client)(nil)

func (c *Client) Send(ctx context.Context, title, body, subID string) error {
	n := Notification{
		SubID: subID,
		AppID: c.appID,
		Token: c.appToken,
		Title: title,
		Body:  body,
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/notification", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push gateway returned %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
