package ws

import (
	"encoding/json"
	"sync"

	"tempo/internal/logger"
)

// Hub tracks every open connection per user so task mutations made in one
// browser tab can be pushed to the owner's other tabs.
type Hub struct {
	mu    sync.RWMutex
	conns map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[int64]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.conns[c.UserID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[c.UserID]
	if !ok {
		return
	}
	if _, present := set[c]; !present {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.conns, c.UserID)
	}
	close(c.Send)
}

// ConnCount reports open connections for a user.
func (h *Hub) ConnCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

type tasksChangedEvent struct {
	Type string `json:"type"`
	Date string `json:"date"`
}

// NotifyTasksChanged tells all of the owner's connections that the task set
// for a date changed. Slow consumers are skipped rather than blocked on.
func (h *Hub) NotifyTasksChanged(userID int64, date string) {
	msg, err := json.Marshal(tasksChangedEvent{Type: "tasks_changed", Date: date})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.conns[userID] {
		select {
		case c.Send <- msg:
		default:
			logger.Warn("ws send buffer full, dropping event", "user_id", userID)
		}
	}
}
