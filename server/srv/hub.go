// server/srv/hub.go
package srv

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"quietquadrant/internal/demo"
	"quietquadrant/server/metrics"
	"quietquadrant/shared/protocol"
)

const (
	sendBuffer = 64
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
)

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	session string
}

// Hub runs the event source at a fixed tick rate and fans every tick out to
// all connected viewers. A viewer that cannot keep up is disconnected rather
// than slowing the others down.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	src      demo.Source
	srcName  string
	tickRate int
	tick     int64
}

func NewHub(src demo.Source, srcName string, tickRate int) *Hub {
	if tickRate <= 0 {
		tickRate = protocol.TickRate
	}
	return &Hub{
		clients:  make(map[*client]struct{}),
		src:      src,
		srcName:  srcName,
		tickRate: tickRate,
	}
}

// Run ticks until ctx is done, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(h.tickRate))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			h.Step()
		}
	}
}

// Step pulls one tick from the source and broadcasts it. Empty ticks are
// still sent so viewers can follow the clock.
func (h *Hub) Step() {
	h.mu.Lock()
	tick := h.tick
	h.tick++
	h.mu.Unlock()

	events := h.src.Next(int(tick))
	frame, err := protocol.Encode(protocol.TypeEvents, protocol.Events{Tick: tick, Events: events})
	if err != nil {
		log.Printf("HUB: tick %d: %v", tick, err)
		return
	}
	metrics.TicksSent.Inc()
	metrics.EventsSent.Add(int64(len(events)))
	h.broadcast(frame)
}

func (h *Hub) broadcast(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			log.Printf("HUB: dropping slow viewer %s", c.session)
			metrics.ClientsDropped.Inc()
			h.removeLocked(c)
		}
	}
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	metrics.Clients.Set(int64(len(h.clients)))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// Clients is the number of connected viewers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	metrics.Clients.Set(int64(len(h.clients)))
	h.mu.Unlock()
}

// HandleWS serves one upgraded connection until the viewer leaves or is
// dropped.
func (h *Hub) HandleWS(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer), session: uuid.NewString()}
	hello, _ := protocol.Encode(protocol.TypeHello, protocol.Hello{
		Session:  c.session,
		TickRate: h.tickRate,
		Source:   h.srcName,
	})
	c.send <- hello
	h.register(c)
	log.Printf("HUB: viewer %s connected from %s", c.session, conn.RemoteAddr())

	go c.writer()
	c.reader(h)
}

// reader discards inbound frames; it exists to notice the viewer leaving.
func (c *client) reader(h *Hub) {
	defer func() {
		h.mu.Lock()
		h.removeLocked(c)
		h.mu.Unlock()
		c.conn.Close()
		log.Printf("HUB: viewer %s left", c.session)
	}()
	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (c *client) writer() {
	ping := time.NewTicker(pongWait * 9 / 10)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
