package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Server accepts websocket clients and hands each one a Connection
// bound to the shared TableService.
type Server struct {
	addr     string
	service  *TableService
	logger   zerolog.Logger
	upgrader websocket.Upgrader

	mu          sync.Mutex
	listener    net.Listener
	connections map[*Connection]struct{}
}

func NewServer(addr string, service *TableService, logger zerolog.Logger) *Server {
	return &Server{
		addr:    addr,
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Bots and terminal clients connect without an Origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		connections: make(map[*Connection]struct{}),
	}
}

// Run serves until ctx is cancelled, then closes every connection and
// drains the HTTP server.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	httpServer := &http.Server{Handler: mux}
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		s.logger.Info().Str("addr", listener.Addr().String()).Msg("listening")
		if err := httpServer.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		s.mu.Lock()
		for conn := range s.connections {
			conn.Close()
		}
		s.mu.Unlock()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// Addr returns the bound listen address, once Run has opened it.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := NewConnection(conn, s.service, s.logger)

	s.mu.Lock()
	s.connections[client] = struct{}{}
	s.mu.Unlock()

	client.Start()

	// Reap the entry when the connection dies.
	go func() {
		<-client.ctx.Done()
		s.mu.Lock()
		delete(s.connections, client)
		s.mu.Unlock()
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
