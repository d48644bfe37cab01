// Package websocket provides a channel backed by a WebSocket bridge.
//
// The bridge sends frames of the form
//
//	{"type":"message","id":"...","from":"...","from_name":"...","chat":"...","content":"..."}
//
// and receives replies as
//
//	{"type":"message","to":"<chat>","content":"...","reply_to":"<id>"}
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"nekocmd/pkg/chat"
	"nekocmd/pkg/commands"
	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
)

const reconnectDelay = 2 * time.Second

// Frame is a bridge protocol message.
type Frame struct {
	Type     string `json:"type"`
	ID       string `json:"id,omitempty"`
	From     string `json:"from,omitempty"`
	FromName string `json:"from_name,omitempty"`
	Chat     string `json:"chat,omitempty"`
	To       string `json:"to,omitempty"`
	Content  string `json:"content"`
	ReplyTo  string `json:"reply_to,omitempty"`
}

// Channel connects to the bridge and reconnects when the connection drops.
type Channel struct {
	log    *logger.Logger
	config config.WebSocketConfig
	dialer *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewChannel creates a new bridge channel.
func NewChannel(log *logger.Logger, cfg config.WebSocketConfig) (*Channel, error) {
	if cfg.BridgeURL == "" {
		return nil, fmt.Errorf("websocket bridge_url is required")
	}

	return &Channel{
		log:    log,
		config: cfg,
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
	}, nil
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return "websocket"
}

// Context returns the chat context.
func (c *Channel) Context() commands.Key {
	return chat.Context
}

// Events connects to the bridge. The first dial must succeed.
func (c *Channel) Events(ctx context.Context) (<-chan *chat.Message, error) {
	if err := c.connect(ctx); err != nil {
		return nil, fmt.Errorf("connecting to bridge: %w", err)
	}

	go func() {
		<-ctx.Done()
		c.closeConn()
	}()

	events := make(chan *chat.Message)
	go func() {
		defer close(events)
		c.listen(ctx, events)
	}()

	return events, nil
}

func (c *Channel) connect(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.config.BridgeURL, nil)
	if err != nil {
		return fmt.Errorf("dialing bridge: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ctx.Err() != nil {
		_ = conn.Close()
		return ctx.Err()
	}
	c.conn = conn

	c.log.Info("Connected to bridge", zap.String("bridge_url", c.config.BridgeURL))
	return nil
}

func (c *Channel) closeConn() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.log.Warn("Error closing bridge connection", zap.Error(err))
		}
		c.conn = nil
	}
}

func (c *Channel) listen(ctx context.Context, events chan<- *chat.Message) {
	for ctx.Err() == nil {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()

		if conn == nil {
			c.log.Warn("Bridge connection lost, reconnecting")
			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectDelay):
			}
			if err := c.connect(ctx); err != nil && ctx.Err() == nil {
				c.log.Error("Failed to reconnect", zap.Error(err))
			}
			continue
		}

		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() != nil {
				return
			}
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				c.log.Warn("Failed to unmarshal frame", zap.Error(err))
				continue
			}
			c.log.Error("Bridge read error", zap.Error(err))
			c.closeConn()
			continue
		}

		if frame.Type != "message" || frame.From == "" {
			continue
		}
		msg := c.toMessage(frame)
		if msg == nil {
			continue
		}
		if !chat.Deliver(ctx, events, msg) {
			return
		}
	}
}

func (c *Channel) toMessage(frame Frame) *chat.Message {
	chatID := frame.Chat
	if chatID == "" {
		chatID = frame.From
	}
	username := frame.FromName
	if username == "" {
		username = frame.From
	}

	msg := &chat.Message{
		ID:        frame.ID,
		Platform:  "websocket",
		ChatID:    chatID,
		UserID:    frame.From,
		Username:  username,
		Text:      frame.Content,
		Timestamp: time.Now(),
	}

	if !chat.Allowed(c.config.AllowFrom, msg) {
		c.log.Warn("Unauthorized user", zap.String("user_id", frame.From))
		return nil
	}

	replyTo := frame.ID
	msg.Responder = chat.ResponderFunc(func(_ context.Context, text string) error {
		return c.send(Frame{Type: "message", To: chatID, Content: text, ReplyTo: replyTo})
	})
	return msg
}

func (c *Channel) send(frame Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("bridge connection not established")
	}
	if err := c.conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("sending message: %w", err)
	}

	c.log.Debug("Sent bridge message",
		zap.String("chat_id", frame.To),
		zap.Int("length", len(frame.Content)))
	return nil
}
