package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// SearchProgress is streamed to analysis clients while the engine thinks.
type SearchProgress struct {
	FEN       string `json:"fen,omitempty"`
	Depth     int    `json:"depth,omitempty"`
	Score     int    `json:"score,omitempty"`
	BestMove  string `json:"best_move,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms,omitempty"`
	Started   bool   `json:"started,omitempty"`
	Done      bool   `json:"done,omitempty"`
}

type ProgressClient struct {
	hub  *ProgressHub
	conn *websocket.Conn
	send chan []byte
}

type ProgressHub struct {
	mu        sync.Mutex
	clients   map[*ProgressClient]struct{}
	broadcast chan SearchProgress
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{
		clients:   make(map[*ProgressClient]struct{}),
		broadcast: make(chan SearchProgress, 32),
	}
}

func (h *ProgressHub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcast:
			h.mu.Lock()
			if len(h.clients) == 0 {
				h.mu.Unlock()
				continue
			}
			for client := range h.clients {
				client.sendJSON(wsMessage{Type: "progress", Payload: mustMarshal(payload)})
			}
			h.mu.Unlock()
		}
	}
}

func (h *ProgressHub) Register(c *ProgressClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *ProgressHub) Unregister(c *ProgressClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *ProgressHub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

// Publish drops the snapshot if the channel is full; progress is advisory.
func (h *ProgressHub) Publish(payload SearchProgress) {
	select {
	case h.broadcast <- payload:
	default:
	}
}

func (c *ProgressClient) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func serveProgressWS(hub *ProgressHub, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &ProgressClient{hub: hub, conn: conn, send: make(chan []byte, 16)}
	hub.Register(client)

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			return
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			hub.Unregister(client)
			return
		}
	}
}
