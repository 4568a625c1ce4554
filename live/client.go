package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zephyrtronium/cellcalc"
	"github.com/zephyrtronium/cellcalc/internal/ctxlog"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 << 10
)

// client is a middleman between the websocket connection and the hub.
type client struct {
	id string

	srv *Server

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages. Only the hub sends on or closes
	// it.
	send chan []byte
}

// readPump handles requests from the connection until it closes.
func (c *client) readPump(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	defer func() {
		c.srv.hub.leave(c)
		c.conn.Close()
		logger.Info("client disconnected")
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("read failed", slog.Any("err", err))
			}
			return
		}
		var req Request
		if err := json.Unmarshal(message, &req); err != nil {
			c.reply(ctx, errorMessage(fmt.Errorf("bad request: %w", err)))
			continue
		}
		c.handle(ctx, req)
	}
}

// handle performs one request.
func (c *client) handle(ctx context.Context, req Request) {
	logger := ctxlog.FromContext(ctx)
	switch req.Op {
	case OpSet:
		ref, ok := cellcalc.ParseRef(req.Cell)
		if !ok {
			c.reply(ctx, errorMessage(fmt.Errorf("invalid cell name %q", req.Cell)))
			return
		}
		if err := c.srv.sheet.Set(ref, req.Formula); err != nil {
			c.reply(ctx, errorMessage(err))
			return
		}
		logger.Info("set cell", slog.String("cell", ref.String()), slog.String("formula", req.Formula))
		c.srv.broadcast(ctx)
	case OpRecalculate:
		c.srv.sheet.Recalculate()
		logger.Info("recalculated")
		c.srv.broadcast(ctx)
	case OpSnapshot:
		c.reply(ctx, snapshot(c.srv.sheet))
	default:
		c.reply(ctx, errorMessage(fmt.Errorf("unknown op %q", req.Op)))
	}
}

// reply sends a message to this client only.
func (c *client) reply(ctx context.Context, m Message) {
	b, err := json.Marshal(m)
	if err != nil {
		ctxlog.FromContext(ctx).Error("failed to encode message", slog.Any("err", err))
		return
	}
	c.srv.hub.to(c, b)
}

// writePump writes queued messages and pings to the connection until the hub
// closes the send channel.
func (c *client) writePump(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Debug("write failed", slog.Any("err", err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Debug("ping failed", slog.Any("err", err))
				return
			}
		}
	}
}
