package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/guildroster/guild-roster/internal/shared/logging"
	"github.com/pkg/errors"
)

// Server exposes the roster feed at /roster. It is read-only: anything a
// client sends is discarded.
type Server struct {
	hub  *Hub
	http *http.Server
}

func NewServer(addr string, hub *Hub) *Server {
	s := &Server{hub: hub}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/roster", s.handleRoster)
	return mux
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.L().Warn("feed upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	logging.L().Debug("feed client connected", "remote", r.RemoteAddr)
	s.hub.Add(c)
	go func() {
		defer s.hub.Remove(c)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	logging.L().Info("roster feed listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "roster feed")
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.hub.CloseAll()
	return errors.Wrap(err, "roster feed shutdown")
}
