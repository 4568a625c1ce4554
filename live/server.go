// Package live serves a sheet to websocket clients.
//
// Every client sees the same sheet. Clients send JSON requests to set cells
// or recalculate, and after every change the server sends every client the
// state of each populated cell. A plain HTTP endpoint serves the same state.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/websocket"
	"github.com/twinj/uuid"

	"github.com/zephyrtronium/cellcalc/internal/ctxlog"
	"github.com/zephyrtronium/cellcalc/sheet"
)

// Server hosts one sheet for any number of clients.
type Server struct {
	sheet    *sheet.Sheet
	hub      *hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a server for s. A nil logger uses slog.Default.
func NewServer(s *sheet.Sheet, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		sheet:  s,
		hub:    newHub(logger),
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run delivers messages to clients until ctx is done, then disconnects every
// client. Connections made after Run returns are closed immediately.
func (s *Server) Run(ctx context.Context) {
	s.logger.Info("live server running")
	s.hub.run(ctx)
	s.logger.Info("live server stopped")
}

// Handler returns the server's HTTP handler. It serves websocket connections
// at /ws and the sheet's cells as JSON at /sheet.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	mux.Handle("/sheet", gziphandler.GzipHandler(http.HandlerFunc(s.serveSheet)))
	return mux
}

func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewV4().String()
	logger := s.logger.With(slog.String("client", id))
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", slog.Any("err", err))
		return
	}
	c := &client{id: id, srv: s, conn: conn, send: make(chan []byte, 256)}
	if !s.hub.join(c) {
		conn.Close()
		return
	}
	logger.Info("client connected", slog.String("remote", r.RemoteAddr))

	// The request context ends when this handler returns.
	ctx := ctxlog.WithLogger(context.WithoutCancel(r.Context()), logger)
	go c.writePump(ctx)
	go c.readPump(ctx)
}

func (s *Server) serveSheet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot(s.sheet)); err != nil {
		s.logger.Warn("failed to write sheet", slog.Any("err", err))
	}
}

// broadcast sends the state of the sheet to every client.
func (s *Server) broadcast(ctx context.Context) {
	b, err := json.Marshal(snapshot(s.sheet))
	if err != nil {
		ctxlog.FromContext(ctx).Error("failed to encode message", slog.Any("err", err))
		return
	}
	s.hub.send(b)
}
