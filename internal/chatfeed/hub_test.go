package chatfeed

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestPublishDropsForFullSubscribers(t *testing.T) {
	t.Parallel()

	h := NewHub()
	id, ch := h.Subscribe()
	for i := 0; i < sendBuffer+10; i++ {
		h.Publish("chat.message", i)
	}
	if len(ch) != sendBuffer {
		t.Errorf("expected %d buffered events got %d", sendBuffer, len(ch))
	}

	h.Unsubscribe(id)
	if h.Len() != 0 {
		t.Errorf("expected no subscribers got %d", h.Len())
	}
	// unsubscribing twice is harmless
	h.Unsubscribe(id)
}

func TestServeWS(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub()
	srv := httptest.NewServer(h.ServeWS(ctx))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for h.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	h.Publish("chat.deleted", map[string]string{"id": "42"})

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var e struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	if err := conn.ReadJSON(&e); err != nil {
		t.Fatal(err)
	}
	if e.Type != "chat.deleted" || e.Payload["id"] != "42" {
		t.Errorf("unexpected event %+v", e)
	}
}
