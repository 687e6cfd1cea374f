// Package chatfeed pushes chat events to websocket subscribers.
package chatfeed

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/docbreaker-games/docbreaker/internal/logging"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]chan Event),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Hub fans events out to every connected subscriber. Slow subscribers
// miss events instead of blocking publishers.
type Hub struct {
	mtx         sync.RWMutex
	subscribers map[uuid.UUID]chan Event
	upgrader    websocket.Upgrader
}

func (h *Hub) Subscribe() (uuid.UUID, <-chan Event) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	id := uuid.New()
	ch := make(chan Event, sendBuffer)
	h.subscribers[id] = ch
	return id, ch
}

func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if ch, ok := h.subscribers[id]; ok {
		close(ch)
		delete(h.subscribers, id)
	}
}

func (h *Hub) Publish(kind string, payload interface{}) {
	h.mtx.RLock()
	defer h.mtx.RUnlock()

	e := Event{Type: kind, Payload: payload}
	for _, ch := range h.subscribers {
		select {
		case ch <- e:
		default:
		}
	}
}

func (h *Hub) Len() int {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	return len(h.subscribers)
}

// Close drops every subscriber, which ends their connections.
func (h *Hub) Close() {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	for id, ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, id)
	}
}

// Run closes the hub once ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	<-ctx.Done()
	h.Close()
	return nil
}

// ServeWS upgrades the request and streams events until either side leaves.
func (h *Hub) ServeWS(ctx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(ctx).Named("chatfeed.ServeWS")

		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Debugf("upgrade: %v", err)
			return
		}

		id, events := h.Subscribe()
		c := &client{conn: conn, events: events}
		go c.writePump(ctx)
		c.readPump(ctx)
		h.Unsubscribe(id)
	}
}

type client struct {
	conn   *websocket.Conn
	events <-chan Event
}

// readPump only services control frames; the feed is one-way.
func (c *client) readPump(ctx context.Context) {
	logger := logging.FromContext(ctx).Named("chatfeed.readPump")
	defer func() {
		if err := c.conn.Close(); err != nil {
			logger.Debugf("close: %v", err)
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debugf("read: %v", err)
			}
			return
		}
	}
}

func (c *client) writePump(ctx context.Context) {
	logger := logging.FromContext(ctx).Named("chatfeed.writePump")
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case e, ok := <-c.events:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(e); err != nil {
				logger.Debugf("write json: %v", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
