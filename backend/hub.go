package main

import (
	"encoding/json"
	"sync"
)

// Hub fans game updates out to connected board clients. Each payload kind has
// its own buffered channel so a slow consumer never blocks the engine.
type Hub struct {
	mu              sync.Mutex
	clients         map[*Client]struct{}
	broadcastStatus chan StatusResponse
	broadcastMove   chan movePayload
	broadcastResult chan searchPayload
	broadcastConfig chan configPayload
}

type Client struct {
	hub  *Hub
	send chan []byte
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type movePayload struct {
	Move    moveDTO `json:"move"`
	FEN     string  `json:"fen"`
	InCheck bool    `json:"in_check"`
	Status  string  `json:"status"`
}

type searchPayload struct {
	BestMove  string `json:"best_move"`
	Score     int    `json:"score"`
	Depth     int    `json:"depth"`
	Nodes     int64  `json:"nodes"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

type configPayload struct {
	Config Config `json:"config"`
}

func NewHub() *Hub {
	return &Hub{
		clients:         make(map[*Client]struct{}),
		broadcastStatus: make(chan StatusResponse, 32),
		broadcastMove:   make(chan movePayload, 32),
		broadcastResult: make(chan searchPayload, 16),
		broadcastConfig: make(chan configPayload, 8),
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcastStatus:
			h.sendToAll(wsMessage{Type: "status", Payload: mustMarshal(payload)})
		case payload := <-h.broadcastMove:
			h.sendToAll(wsMessage{Type: "move", Payload: mustMarshal(payload)})
		case payload := <-h.broadcastResult:
			h.sendToAll(wsMessage{Type: "search_result", Payload: mustMarshal(payload)})
		case payload := <-h.broadcastConfig:
			h.sendToAll(wsMessage{Type: "config", Payload: mustMarshal(payload)})
		}
	}
}

func (h *Hub) sendToAll(msg wsMessage) {
	h.mu.Lock()
	for client := range h.clients {
		client.sendJSON(msg)
	}
	h.mu.Unlock()
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
