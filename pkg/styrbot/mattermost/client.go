// Package mattermost implements the Mattermost transport for styrbot using
// the REST API v4 directly via HTTP plus the event websocket — no external
// client dependency.
//
// The surface is deliberately narrow: fetch the bot identity, fetch a user,
// create a post, keep the bot status online, and stream "posted" events.
package mattermost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// User is a Mattermost user, trimmed to the fields the bot reads.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// DisplayName returns the first name when set, otherwise the username.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// Post is a Mattermost post, trimmed to the fields the bot reads and writes.
type Post struct {
	ID        string `json:"id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	ChannelID string `json:"channel_id"`
	RootID    string `json:"root_id,omitempty"`
	Message   string `json:"message"`
	CreateAt  int64  `json:"create_at,omitempty"`
}

// Client talks to a Mattermost server with a bot token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a Mattermost client for the given server and token.
func NewClient(serverURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// GetMe returns the bot's own user record.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/v4/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUser fetches a user by ID.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/v4/users/"+userID, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreatePost posts a message. The returned post carries the server-assigned ID.
func (c *Client) CreatePost(ctx context.Context, post *Post) (*Post, error) {
	var created Post
	if err := c.do(ctx, http.MethodPost, "/api/v4/posts", post, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateStatus sets the bot's presence status ("online", "away", ...).
func (c *Client) UpdateStatus(ctx context.Context, userID, status string) error {
	body := map[string]string{"user_id": userID, "status": status}
	return c.do(ctx, http.MethodPut, "/api/v4/users/"+userID+"/status", body, nil)
}

// do performs an authenticated JSON request against the REST API.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mattermost %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mattermost %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}
	return nil
}
