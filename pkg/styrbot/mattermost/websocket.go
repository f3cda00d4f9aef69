// Package mattermost – websocket.go streams events from the Mattermost
// websocket. Events are delivered serially to the handler in arrival order;
// on connection loss the listener reconnects after a fixed delay. Events
// posted during a disconnect window are not replayed.
package mattermost

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// reconnectDelay is how long to wait before dialing again after a
// connection drop.
const reconnectDelay = 5 * time.Second

// EventPosted is the websocket event type for new posts.
const EventPosted = "posted"

// Event is a websocket event envelope.
type Event struct {
	Event string    `json:"event"`
	Data  EventData `json:"data"`
	Seq   int64     `json:"seq"`
}

// EventData carries the payload of a "posted" event. The post itself is
// JSON-encoded inside the envelope, as the server sends it.
type EventData struct {
	Post        string `json:"post"`
	ChannelType string `json:"channel_type"`
}

// IsDirect reports whether the event happened in a direct-message channel.
func (e *Event) IsDirect() bool {
	return e.Data.ChannelType == "D"
}

// DecodePost unpacks the embedded post of a "posted" event.
func (e *Event) DecodePost() (*Post, error) {
	var p Post
	if err := json.Unmarshal([]byte(e.Data.Post), &p); err != nil {
		return nil, fmt.Errorf("decoding embedded post: %w", err)
	}
	return &p, nil
}

// EventHandler receives decoded websocket events, one at a time.
type EventHandler func(ev *Event)

// authChallenge is the first frame sent after connecting.
type authChallenge struct {
	Seq    int            `json:"seq"`
	Action string         `json:"action"`
	Data   map[string]any `json:"data"`
}

// WebSocketURL derives the websocket endpoint from the REST base URL.
func (c *Client) WebSocketURL() string {
	url := c.baseURL
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url + "/api/v4/websocket"
}

// ListenEvents connects to the event websocket and delivers events to the
// handler until ctx is cancelled. Reconnects after reconnectDelay on any
// connection failure.
func (c *Client) ListenEvents(ctx context.Context, handler EventHandler) {
	wsURL := c.WebSocketURL()

	for {
		if ctx.Err() != nil {
			return
		}

		if err := c.listenOnce(ctx, wsURL, handler); err != nil {
			c.logger.Warn("websocket connection lost", "error", err, "retry_in", reconnectDelay.String())
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

// listenOnce dials, authenticates, and reads events until the connection
// fails or ctx is cancelled.
func (c *Client) listenOnce(ctx context.Context, wsURL string, handler EventHandler) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", wsURL, err)
	}
	defer conn.Close()

	// Unblock ReadMessage when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	challenge := authChallenge{
		Seq:    1,
		Action: "authentication_challenge",
		Data:   map[string]any{"token": c.token},
	}
	if err := conn.WriteJSON(challenge); err != nil {
		return fmt.Errorf("sending authentication challenge: %w", err)
	}
	c.logger.Info("websocket connected", "url", wsURL)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading event: %w", err)
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			c.logger.Debug("skipping undecodable frame", "error", err)
			continue
		}
		if ev.Event == "" {
			// Auth responses and pings carry no event type.
			continue
		}
		handler(&ev)
	}
}
