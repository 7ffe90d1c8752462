package ws

import (
	"sync"

	"agelink_backend/internal/logger"
	"agelink_backend/internal/services"
)

// Manager tracks connected clients and fans messages out to the parties of a
// dialog. One client per user: a pairing has at most two participants plus
// the occasional admin, so a flat map is enough.
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	chatService services.ChatService
}

func NewManager(chatService services.ChatService) *Manager {
	return &Manager{
		clients:     make(map[string]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		chatService: chatService,
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			if old, ok := m.clients[client.UserID]; ok {
				close(old.Send)
			}
			m.clients[client.UserID] = client
			total := len(m.clients)
			m.mu.Unlock()
			logger.Info("ws client registered", "user_id", client.UserID, "total", total)

		case client := <-m.unregister:
			m.mu.Lock()
			if current, ok := m.clients[client.UserID]; ok && current == client {
				close(client.Send)
				delete(m.clients, client.UserID)
			}
			total := len(m.clients)
			m.mu.Unlock()
			logger.Info("ws client unregistered", "user_id", client.UserID, "total", total)
		}
	}
}

// BroadcastToDialog pushes an event to every connected participant of a
// dialog. Disconnected participants are skipped; they catch up over HTTP.
func (m *Manager) BroadcastToDialog(dialogID string, event any) {
	participants, err := m.chatService.ListParticipantIDs(dialogID)
	if err != nil {
		logger.WithError(err).Warn("ws broadcast: failed to list participants", "dialog_id", dialogID)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, userID := range participants {
		client, ok := m.clients[userID]
		if !ok {
			continue
		}
		select {
		case client.Send <- event:
		default:
			// Slow consumer, drop the connection.
			go func(c *Client) { m.unregister <- c }(client)
		}
	}
}

// BroadcastToUser pushes an event to a single user if connected.
func (m *Manager) BroadcastToUser(userID string, event any) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if client, ok := m.clients[userID]; ok {
		select {
		case client.Send <- event:
		default:
			go func(c *Client) { m.unregister <- c }(client)
		}
	}
}

func (m *Manager) IsConnected(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.clients[userID]
	return ok
}
