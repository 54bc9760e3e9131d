package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans JSON messages out to connected WebSocket peers. A peer whose
// buffer is full misses the message rather than stalling the sender.
type Hub struct {
	log zerolog.Logger

	mu      sync.Mutex
	clients map[*wsClient]struct{}
	closed  bool
}

type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{log: log, clients: map[*wsClient]struct{}{}}
}

// Broadcast marshals v once and queues it on every peer.
func (h *Hub) Broadcast(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		h.log.Error().Err(err).Msg("marshal broadcast")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- msg:
		default:
			h.log.Warn().Str("remote", cl.conn.RemoteAddr().String()).Msg("ws client lagging, message dropped")
		}
	}
}

// Len returns the number of connected peers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Serve upgrades the request and registers the peer. initial, when
// non-nil, is the first message the peer receives.
func (h *Hub) Serve(c *gin.Context, initial any) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.log.Warn().Err(err).Msg("ws upgrade")
		return
	}
	cl := &wsClient{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	if initial != nil {
		if msg, err := json.Marshal(initial); err == nil {
			cl.send <- msg
		}
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[cl] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.log.Debug().Int("clients", count).Msg("ws client connected")

	go cl.writePump()
	go cl.readPump()
}

// Close disconnects every peer and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for cl := range h.clients {
		delete(h.clients, cl)
		close(cl.send)
	}
}

func (h *Hub) remove(cl *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; !ok {
		return
	}
	delete(h.clients, cl)
	close(cl.send)
	h.log.Debug().Int("clients", len(h.clients)).Msg("ws client disconnected")
}

func (cl *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only services control frames; peers do not send commands
// over the stream.
func (cl *wsClient) readPump() {
	defer func() {
		cl.hub.remove(cl)
		cl.conn.Close()
	}()

	cl.conn.SetReadLimit(512)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		cl.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}
