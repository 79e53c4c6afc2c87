// internal/realtime/websocket.go
package realtime

import (
	"log"

	"github.com/gofiber/websocket/v2"
)

// WebSocketConn wraps websocket.Conn so the hub does not depend on the transport.
type WebSocketConn struct {
	Conn *websocket.Conn
}

func NewWebSocketConn(c *websocket.Conn) *WebSocketConn {
	return &WebSocketConn{Conn: c}
}

// Serve pumps hub events to the connection until either side closes. It blocks
// for the lifetime of the connection.
func (h *Hub) Serve(client *Client) {
	h.RegisterClient(client)
	defer h.UnregisterClient(client)

	go func() {
		for msg := range client.Send {
			if err := client.Conn.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[ws] write error for user %s: %v", client.UserID, err)
				return
			}
		}
		_ = client.Conn.Conn.WriteMessage(websocket.CloseMessage, []byte{})
	}()

	// Reads only keep the connection alive; clients send pings.
	for {
		var payload map[string]interface{}
		if err := client.Conn.Conn.ReadJSON(&payload); err != nil {
			log.Printf("[ws] user %s disconnected: %v", client.UserID, err)
			return
		}
	}
}
