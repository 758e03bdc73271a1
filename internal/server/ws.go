package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type WSClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

type WSHub struct {
	mu      sync.RWMutex
	clients map[*WSClient]struct{}
}

func NewWSHub() *WSHub {
	return &WSHub{clients: make(map[*WSClient]struct{})}
}

func (h *WSHub) Add(conn *websocket.Conn) *WSClient {
	c := &WSClient{conn: conn}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *WSHub) Remove(c *WSClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.conn.Close()
}

func (h *WSHub) Broadcast(msg WSMessage) {
	// Marshal once for consistency across clients
	b, _ := json.Marshal(msg)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.mu.Lock()
		_ = c.conn.WriteMessage(websocket.TextMessage, b)
		c.mu.Unlock()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// local bench tool; allow all
		return true
	},
}

func (s *Server) handleWSLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := s.hub.Add(conn)

	// Keep reading until the client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.hub.Remove(client)
			return
		}
	}
}
