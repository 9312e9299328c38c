package websocket

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/scythe504/charades-backend/internal"
)

// Hub tracks the live connections by player id and fans room snapshots out
// to them. It implements game.Notifier.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*Client),
		log:     log.Named("hub"),
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, id)
}

func (h *Hub) client(id string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[id]
	return c, ok
}

// Len is the number of open connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomChanged queues a room-state frame for every member with an open
// connection. It never blocks: a client whose queue is full loses the frame
// and catches up with the next snapshot.
func (h *Hub) RoomChanged(code string, snapshots map[string]internal.Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for playerID, snap := range snapshots {
		c, ok := h.clients[playerID]
		if !ok {
			continue
		}
		data, err := json.Marshal(internal.Message[internal.Snapshot]{
			Type: internal.MsgRoomState,
			Data: snap,
		})
		if err != nil {
			h.log.Error("encode room state", zap.String("room", code), zap.Error(err))
			continue
		}
		c.enqueue(data)
	}
}

// SendTo queues a single frame for playerID if they are connected.
func (h *Hub) SendTo(playerID, msgType string, data any) {
	if c, ok := h.client(playerID); ok {
		c.sendMessage(msgType, data)
	}
}
