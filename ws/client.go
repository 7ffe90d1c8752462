package ws

import (
	"encoding/json"

	"agelink_backend/internal/logger"
	"agelink_backend/internal/services"
	"agelink_backend/internal/services/dto"

	"github.com/gorilla/websocket"
)

// IncomingEvent is the client-to-server frame.
type IncomingEvent struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// OutgoingEvent is the server-to-client frame.
type OutgoingEvent struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan any

	manager     *Manager
	chatService services.ChatService
}

func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithError(err).Warn("ws read error", "user_id", c.UserID)
			}
			return
		}

		var event IncomingEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			c.sendError("invalid frame")
			continue
		}

		c.handleEvent(event)
	}
}

func (c *Client) writePump() {
	for msg := range c.Send {
		if err := c.Conn.WriteJSON(msg); err != nil {
			logger.WithError(err).Warn("ws write error", "user_id", c.UserID)
			return
		}
	}
	// Send channel closed by the manager.
	_ = c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// handleEvent dispatches one incoming frame. Authorization and writability
// are enforced by ChatService; the socket only transports.
func (c *Client) handleEvent(event IncomingEvent) {
	switch event.Action {
	case "send_message":
		var payload struct {
			DialogID string `json:"dialog_id"`
			Text     string `json:"text"`
		}
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			c.sendError("invalid send_message payload")
			return
		}

		message, err := c.chatService.SendMessage(c.UserID, payload.DialogID, &dto.SendMessageRequest{Text: payload.Text})
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.manager.BroadcastToDialog(payload.DialogID, OutgoingEvent{Event: "new_message", Payload: message})

	case "mark_as_read":
		var payload struct {
			DialogID string `json:"dialog_id"`
		}
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			c.sendError("invalid mark_as_read payload")
			return
		}

		if err := c.chatService.MarkRead(c.UserID, payload.DialogID); err != nil {
			c.sendError(err.Error())
			return
		}
		c.manager.BroadcastToDialog(payload.DialogID, OutgoingEvent{
			Event:   "read",
			Payload: map[string]string{"dialog_id": payload.DialogID, "user_id": c.UserID},
		})

	default:
		c.sendError("unknown action: " + event.Action)
	}
}

func (c *Client) sendError(message string) {
	select {
	case c.Send <- OutgoingEvent{Event: "error", Payload: map[string]string{"message": message}}:
	default:
	}
}
