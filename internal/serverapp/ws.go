package serverapp

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Vader773/daily-grimoire-sub000/internal/game"
	"github.com/Vader773/daily-grimoire-sub000/internal/logger"
	"github.com/Vader773/daily-grimoire-sub000/internal/model"
)

const (
	wsWriteWait    = 10 * time.Second
	wsReadLimit    = 1024
	wsMessageState = "state"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type stateMessage struct {
	Type     string        `json:"type"`
	State    *model.State  `json:"state"`
	Overview game.Overview `json:"overview"`
}

// Hub fans engine changes out to websocket clients. Notifications coalesce:
// a slow client only ever receives the latest snapshot.
type Hub struct {
	eng *game.Engine
	log *logger.Logger

	mu          sync.Mutex
	clients     map[*wsClient]struct{}
	unsubscribe func()
}

type wsClient struct {
	conn   *websocket.Conn
	notify chan struct{}
	done   chan struct{}
}

func NewHub(eng *game.Engine, log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	h := &Hub{
		eng:     eng,
		log:     log.With("component", "ws"),
		clients: map[*wsClient]struct{}{},
	}
	// The callback runs under the engine lock, so it only flags clients.
	h.unsubscribe = eng.OnChange(func(*model.State) {
		h.mu.Lock()
		defer h.mu.Unlock()
		for c := range h.clients {
			c.poke()
		}
	})
	return h
}

func (c *wsClient) poke() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &wsClient{
		conn:   conn,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Debug("websocket client connected", "remote", r.RemoteAddr)

	c.poke()
	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) readLoop(c *wsClient) {
	defer h.drop(c)
	c.conn.SetReadLimit(wsReadLimit)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *wsClient) {
	for {
		select {
		case <-c.done:
			return
		case <-c.notify:
			msg := stateMessage{Type: wsMessageState, State: h.eng.Snapshot(), Overview: h.eng.Overview()}
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				h.log.Debug("websocket write failed", "error", err)
				_ = c.conn.Close()
				return
			}
		}
	}
}

func (h *Hub) drop(c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if !ok {
		return
	}
	close(c.done)
	_ = c.conn.Close()
}

// Close detaches from the engine and disconnects every client.
func (h *Hub) Close() {
	h.unsubscribe()
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		h.drop(c)
	}
}
