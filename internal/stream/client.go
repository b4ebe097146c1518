// Package stream receives live device-state events from the backend over
// a WebSocket feed, so changes made by other sessions reach this console
// without polling. The feed is push-only: the client authenticates, then
// just reads.
package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"home-console/internal/api"
	"home-console/internal/entity"
)

// Handler receives one confirmed device-state change.
type Handler func(deviceID int64, state entity.Document)

// Message is the feed's wire frame.
type Message struct {
	Type        string       `json:"type"`
	AccessToken string       `json:"accessToken,omitempty"`
	Event       *DeviceEvent `json:"event,omitempty"`
}

// DeviceEvent carries the changed device's new state document.
type DeviceEvent struct {
	DeviceID int64           `json:"deviceId"`
	State    entity.Document `json:"state"`
}

// Client maintains the event feed connection, reconnecting with backoff
// when it drops.
type Client struct {
	url     string
	tokens  api.TokenSource
	handler Handler
	logger  *zap.Logger

	connMu    sync.RWMutex
	conn      *websocket.Conn
	connected bool
	reconnect bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewClient creates a feed client. handler runs on the read goroutine, so
// it must not block.
func NewClient(url string, tokens api.TokenSource, handler Handler, logger *zap.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		url:       url,
		tokens:    tokens,
		handler:   handler,
		logger:    logger,
		reconnect: true,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Connect dials the feed, authenticates with the session token, and
// starts the background reader.
func (c *Client) Connect() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.connected {
		return fmt.Errorf("already connected")
	}

	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("dialing event feed: %w", err)
	}

	var hello Message
	if err := conn.ReadJSON(&hello); err != nil {
		conn.Close()
		return fmt.Errorf("reading feed greeting: %w", err)
	}
	if hello.Type != "auth_required" {
		conn.Close()
		return fmt.Errorf("expected auth_required, got %s", hello.Type)
	}

	if err := conn.WriteJSON(Message{Type: "auth", AccessToken: c.tokens.Token()}); err != nil {
		conn.Close()
		return fmt.Errorf("sending feed auth: %w", err)
	}

	var reply Message
	if err := conn.ReadJSON(&reply); err != nil {
		conn.Close()
		return fmt.Errorf("reading feed auth reply: %w", err)
	}
	if reply.Type != "auth_ok" {
		conn.Close()
		return fmt.Errorf("event feed rejected credentials: %s", reply.Type)
	}

	c.conn = conn
	c.connected = true
	c.reconnect = true
	c.logger.Info("Connected to event feed", zap.String("url", c.url))

	go c.readLoop(conn)
	return nil
}

// Disconnect closes the feed and stops reconnection attempts.
func (c *Client) Disconnect() {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	c.reconnect = false
	c.cancel()
	if !c.connected {
		return
	}
	c.connected = false
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
	c.conn = nil
	c.logger.Info("Disconnected from event feed")
}

// IsConnected reports whether the feed is up.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			c.logger.Warn("Event feed read failed", zap.Error(err))
			c.handleDisconnect()
			return
		}

		if msg.Type != "device_state" || msg.Event == nil {
			continue
		}
		c.handler(msg.Event.DeviceID, msg.Event.State)
	}
}

func (c *Client) handleDisconnect() {
	c.connMu.Lock()
	c.connected = false
	c.conn = nil
	retry := c.reconnect
	c.connMu.Unlock()

	if retry {
		go c.attemptReconnect()
	}
}

func (c *Client) attemptReconnect() {
	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-time.After(backoff):
		}

		c.logger.Info("Reconnecting to event feed...")
		if err := c.Connect(); err != nil {
			c.logger.Warn("Event feed reconnect failed", zap.Error(err))
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		return
	}
}
