// internal/realtime/hub.go
package realtime

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const channelPrefix = "notifications:"

type Client struct {
	ID     string
	UserID uuid.UUID
	Conn   *WebSocketConn
	Send   chan []byte
}

func NewClient(userID uuid.UUID, conn *WebSocketConn) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}
}

// Hub tracks the live websocket clients of this instance. With a redis client
// configured, events go through redis pub/sub so every instance delivers them.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex

	rdb *redis.Client
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rdb:        rdb,
	}
}

func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish implements notify.Publisher.
func (h *Hub) Publish(ctx context.Context, userID uuid.UUID, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if h.rdb != nil {
		return h.rdb.Publish(ctx, channelPrefix+userID.String(), payload).Err()
	}
	h.deliver(userID, payload)
	return nil
}

// SendToUser sends to this instance's clients of userID only.
func (h *Hub) SendToUser(userID uuid.UUID, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("[hub] marshal message: %v", err)
		return
	}
	h.deliver(userID, payload)
}

func (h *Hub) deliver(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.UserID == userID {
			select {
			case client.Send <- payload:
			default:
				// slow consumer, drop
			}
		}
	}
}

// Connected reports how many clients userID has on this instance.
func (h *Hub) Connected(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, c := range h.clients {
		if c.UserID == userID {
			n++
		}
	}
	return n
}

// Run owns client registration until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("[hub] client registered: %s (user %s)", client.ID, client.UserID)

		case client := <-h.unregister:
			h.mu.Lock()
			if old, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(old.Send)
				log.Printf("[hub] client unregistered: %s", client.ID)
			}
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Subscribe relays redis notifications to local clients until ctx is cancelled.
// It is a no-op without redis.
func (h *Hub) Subscribe(ctx context.Context) {
	if h.rdb == nil {
		return
	}
	sub := h.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			userID, err := uuid.Parse(strings.TrimPrefix(msg.Channel, channelPrefix))
			if err != nil {
				log.Printf("[hub] ignoring channel %q", msg.Channel)
				continue
			}
			h.deliver(userID, []byte(msg.Payload))
		}
	}
}
