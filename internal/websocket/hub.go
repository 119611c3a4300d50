package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/guildroster/guild-roster/internal/roster"
	"github.com/guildroster/guild-roster/internal/shared/logging"
	"github.com/pkg/errors"
)

// writeWait bounds every write so a stalled subscriber cannot hold mu.
var writeWait = 10 * time.Second

// Hub tracks feed subscribers and the last published report. Writes happen
// under mu so a connection never sees concurrent writers.
type Hub struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	latest []byte
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]struct{})}
}

// Add registers c and replays the latest report to it.
func (h *Hub) Add(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
	if h.latest == nil {
		return
	}
	if err := writeMessage(c, h.latest); err != nil {
		logging.L().Warn("feed replay failed", "remote", c.RemoteAddr().String(), "error", err)
		h.dropLocked(c)
	}
}

func (h *Hub) Remove(c *websocket.Conn) {
	h.mu.Lock()
	h.dropLocked(c)
	h.mu.Unlock()
}

func (h *Hub) dropLocked(c *websocket.Conn) {
	delete(h.conns, c)
	_ = c.Close()
}

func (h *Hub) Publish(r roster.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "encode report")
	}
	h.Broadcast(data)
	return nil
}

func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = msg
	for c := range h.conns {
		if err := writeMessage(c, msg); err != nil {
			logging.L().Warn("feed broadcast failed", "remote", c.RemoteAddr().String(), "error", err)
			h.dropLocked(c)
		}
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// CloseAll disconnects every subscriber.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		h.dropLocked(c)
	}
}

func writeMessage(c *websocket.Conn, msg []byte) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, msg)
}
