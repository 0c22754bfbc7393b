package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

// Server accepts WebSocket clients and hands them to the gateway
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	gateway  *Gateway
	logger   *log.Logger
	http     *http.Server
}

// NewServer creates the WebSocket server and its gateway
func NewServer(cfg *Config, logger *log.Logger) *Server {
	s := &Server{
		addr: cfg.ListenAddr(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Origin checking is the deployment proxy's concern.
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		gateway: NewGateway(quartz.NewReal(), cfg.GameConfig(), logger),
		logger:  logger.WithPrefix("server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	s.http = &http.Server{Addr: s.addr, Handler: mux}
	return s
}

// Gateway exposes the server's gateway
func (s *Server) Gateway() *Gateway { return s.gateway }

// Run serves until the context is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("starting websocket server", "addr", s.addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down")

		s.gateway.Manager().ShutdownAll()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(uuid.NewString(), conn, s.logger, s.gateway)
	s.gateway.Register(client)
	client.Start()
	s.logger.Info("client connected", "total", s.gateway.ConnectionCount())
}

// handleHealth reports liveness and basic counters
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      "ok",
		"rooms":       s.gateway.Manager().Count(),
		"connections": s.gateway.ConnectionCount(),
	})
}
