package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

const (
	EntityHousehold    = "household"
	EntityFamilyMember = "family_member"
	EntityBeneficiary  = "beneficiary"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Message tells the pages of one village that a register changed.
type Message struct {
	Type   string `json:"type"`
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     int64  `json:"id,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(entity, action string, id int64) Message {
	return Message{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		Entity: entity,
		Action: action,
		ID:     id,
	}
}

// Hub keeps the connected clients grouped by village.
type Hub struct {
	mu       sync.RWMutex
	villages map[string]map[*Client]struct{}
	logger   *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		villages: make(map[string]map[*Client]struct{}),
		logger:   logger,
	}
}

// Register adds a client to its village.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.villages[c.village]
	if !ok {
		set = make(map[*Client]struct{})
		h.villages[c.village] = set
	}
	set[c] = struct{}{}
}

// Unregister removes a client and closes its send channel. Unregistering
// twice is a no-op.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.villages[c.village]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.villages, c.village)
	}
}

// Broadcast sends msg to every client of village. A client whose buffer is
// full misses the message.
func (h *Hub) Broadcast(village string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for c := range h.villages[village] {
		select {
		case c.send <- data:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Debug("broadcast dropped", "village", village, "type", msg.Type, "clients", dropped)
	}
}

// ClientCount returns the number of connected clients across all villages.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.villages {
		n += len(set)
	}
	return n
}

// VillageCount returns the number of clients connected for one village.
func (h *Hub) VillageCount(village string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.villages[village])
}
