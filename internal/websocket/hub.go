package websocket

import (
	"encoding/json"
	"sync"

	"github.com/PeterSayer/CottageChooser/internal/app/service"
	"github.com/PeterSayer/CottageChooser/pkg/logger"
)

// Hub fans the current vote standings out to every connected client.
// It implements service.ResultNotifier so the vote service can push a
// fresh snapshot whenever a vote is cast or retracted.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	// last snapshot, replayed to clients as they connect
	mu       sync.RWMutex
	lastSent []byte
}

type resultsMessage struct {
	Type    string              `json:"type"`
	Results []service.ResultRow `json:"results"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
	}
}

// Run owns the client set. Call it once from a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			logger.Info("Results client connected", map[string]interface{}{
				"user_name": client.userName,
				"clients":   len(h.clients),
			})

			h.mu.RLock()
			snapshot := h.lastSent
			h.mu.RUnlock()
			if snapshot != nil {
				select {
				case client.send <- snapshot:
				default:
				}
			}

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				logger.Info("Results client disconnected", map[string]interface{}{
					"user_name": client.userName,
					"clients":   len(h.clients),
				})
			}

		case message := <-h.broadcast:
			h.mu.Lock()
			h.lastSent = message
			h.mu.Unlock()

			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// slow consumer, drop the connection
					delete(h.clients, client)
					close(client.send)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"user_name": client.userName,
					})
				}
			}
		}
	}
}

// BroadcastResults pushes a standings snapshot to all clients.
// Snapshots are droppable: a newer one always follows.
func (h *Hub) BroadcastResults(rows []service.ResultRow) {
	data, err := json.Marshal(resultsMessage{
		Type:    "results",
		Results: rows,
	})
	if err != nil {
		logger.Error("Failed to marshal results snapshot", err, nil)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, snapshot dropped", nil)
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
