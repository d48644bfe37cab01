package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
)

func newBridge(t *testing.T, frames []string, replies chan<- Frame) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		for {
			var reply Frame
			if err := conn.ReadJSON(&reply); err != nil {
				return
			}
			replies <- reply
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestBridgeRoundTrip(t *testing.T) {
	replies := make(chan Frame, 1)
	server := newBridge(t, []string{
		`{"type":"status","content":"ready"}`,
		`not json`,
		`{"type":"message","id":"m1","from":"stranger","content":"!ping"}`,
		`{"type":"message","id":"m2","from":"alice","from_name":"Alice","chat":"room","content":"!ping"}`,
	}, replies)

	c, err := NewChannel(logger.NewNop(), config.WebSocketConfig{
		BridgeURL: "ws" + strings.TrimPrefix(server.URL, "http"),
		AllowFrom: []string{"alice"},
	})
	if err != nil {
		t.Fatalf("NewChannel failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := c.Events(ctx)
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}

	msg := <-events
	if msg == nil {
		t.Fatal("events closed before a message arrived")
	}
	if msg.ID != "m2" || msg.ChatID != "room" || msg.Username != "Alice" || msg.Text != "!ping" {
		t.Fatalf("unexpected message: %+v", msg)
	}

	if err := msg.Respond(ctx, "pong"); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	select {
	case reply := <-replies:
		if reply.To != "room" || reply.Content != "pong" || reply.ReplyTo != "m2" {
			t.Fatalf("unexpected reply: %+v", reply)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reply")
	}

	cancel()
	for range events {
	}
}

func TestBridgeDialFailure(t *testing.T) {
	c, err := NewChannel(logger.NewNop(), config.WebSocketConfig{BridgeURL: "ws://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("NewChannel failed: %v", err)
	}
	if _, err := c.Events(context.Background()); err == nil {
		t.Fatal("expected dial error")
	}
}
