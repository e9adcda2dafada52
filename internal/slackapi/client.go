// Package slackapi wraps the two outbound surfaces the notifier talks to:
// per-channel incoming webhooks, and the Web API methods needed to open a
// direct-message conversation and post into it.
package slackapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vibeflow/notifier/internal/blockkit"
)

// DefaultBaseURL is the production Web API root.
const DefaultBaseURL = "https://slack.com/api"

// ErrEmptyConversation is returned when conversations.open succeeds but
// carries no conversation id.
var ErrEmptyConversation = errors.New("slackapi: conversations.open returned no channel id")

// Client calls the messaging platform. The bearer token authenticates Web
// API calls; webhook posts carry their credential in the URL itself.
type Client struct {
	http *resty.Client
}

// New builds a client against baseURL (DefaultBaseURL in production,
// an httptest server in tests) using the given bot token.
func New(baseURL, botToken string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(botToken).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json; charset=utf-8")
	return &Client{http: c}
}

// apiResponse is the envelope every Web API method returns.
type apiResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Channel struct {
		ID string `json:"id"`
	} `json:"channel"`
}

// PostWebhook submits a message to an incoming-webhook URL. Webhooks answer
// plain "ok" on success; anything non-2xx is a dispatch failure carrying the
// response body.
func (c *Client) PostWebhook(ctx context.Context, webhookURL string, msg blockkit.Message) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(msg).
		Post(webhookURL)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("post webhook: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// OpenConversation opens (or resolves) a direct-message conversation with
// the given user id and returns the conversation id.
func (c *Client) OpenConversation(ctx context.Context, userID string) (string, error) {
	var out apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"users": userID}).
		SetResult(&out).
		Post("/conversations.open")
	if err != nil {
		return "", fmt.Errorf("conversations.open: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("conversations.open: status %d", resp.StatusCode())
	}
	if !out.OK {
		return "", fmt.Errorf("conversations.open: %s", out.Error)
	}
	if out.Channel.ID == "" {
		return "", ErrEmptyConversation
	}
	return out.Channel.ID, nil
}

// PostMessage posts a message into a channel or conversation via
// chat.postMessage. The Web API reports failures with 200 and ok=false, so
// the envelope is checked as well as the HTTP status.
func (c *Client) PostMessage(ctx context.Context, channelID string, msg blockkit.Message) error {
	body := map[string]any{
		"channel": channelID,
		"text":    msg.Fallback,
		"blocks":  msg.Blocks,
	}
	var out apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/chat.postMessage")
	if err != nil {
		return fmt.Errorf("chat.postMessage: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("chat.postMessage: status %d", resp.StatusCode())
	}
	if !out.OK {
		return fmt.Errorf("chat.postMessage: %s", out.Error)
	}
	return nil
}
