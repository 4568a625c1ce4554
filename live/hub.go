package live

import (
	"context"
	"log/slog"
)

// hub maintains the set of connected clients and broadcasts messages to them.
type hub struct {
	clients map[*client]bool

	broadcast chan []byte

	// direct carries messages for a single client.
	direct chan envelope

	register chan *client

	unregister chan *client

	// done is closed when run returns.
	done chan struct{}

	logger *slog.Logger
}

func newHub(logger *slog.Logger) *hub {
	return &hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte),
		direct:     make(chan envelope),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *hub) run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.logger.Debug("client registered", slog.String("client", c.id), slog.Int("clients", len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Debug("client unregistered", slog.String("client", c.id), slog.Int("clients", len(h.clients)))
			}
		case message := <-h.broadcast:
			for c := range h.clients {
				h.deliver(c, message)
			}
		case e := <-h.direct:
			if h.clients[e.c] {
				h.deliver(e.c, e.message)
			}
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return
		}
	}
}

// deliver queues a message for c. Only run calls it.
func (h *hub) deliver(c *client, message []byte) {
	select {
	case c.send <- message:
	default:
		// Too slow to keep up. Drop it.
		close(c.send)
		delete(h.clients, c)
		h.logger.Warn("dropped slow client", slog.String("client", c.id))
	}
}

// envelope is a message addressed to one client.
type envelope struct {
	c       *client
	message []byte
}

// join registers c. It reports false if the hub has stopped.
func (h *hub) join(c *client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave unregisters c, if the hub is still running.
func (h *hub) leave(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// send broadcasts a message to every client, if the hub is still running.
func (h *hub) send(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// to sends a message to one client, if the hub is still running.
func (h *hub) to(c *client, message []byte) {
	select {
	case h.direct <- envelope{c, message}:
	case <-h.done:
	}
}
