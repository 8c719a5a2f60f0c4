// Package server runs the shared dice table over telnet and WebSocket.
package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/tococyn/internal/config"
	"github.com/lawnchairsociety/tococyn/internal/dice"
	"github.com/lawnchairsociety/tococyn/internal/logger"
)

// SourceFactory creates the randomness source for one new session.
type SourceFactory func() (dice.Source, error)

// Server accepts table sessions. Every session gets its own Source.
type Server struct {
	cfg          config.ServerConfig
	newSource    SourceFactory
	listener     net.Listener
	httpServer   *http.Server
	connLimiter  *ConnLimiter
	clients      map[Client]struct{}
	mu           sync.Mutex
	shutdown     chan struct{}
	shutdownOnce sync.Once
	StartTime    time.Time
}

// NewServer creates a server. A nil newSource seeds each session from crypto/rand.
func NewServer(cfg config.ServerConfig, newSource SourceFactory) *Server {
	if newSource == nil {
		newSource = func() (dice.Source, error) {
			src, err := dice.NewRandomSource()
			if err != nil {
				return nil, err
			}
			return src, nil
		}
	}
	return &Server{
		cfg:         cfg,
		newSource:   newSource,
		connLimiter: NewConnLimiter(cfg.Connections),
		clients:     make(map[Client]struct{}),
		shutdown:    make(chan struct{}),
		StartTime:   time.Now(),
	}
}

// Start accepts telnet connections on address until Shutdown.
func (s *Server) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to start telnet listener: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	logger.Info("Telnet table listening", "address", listener.Addr().String())

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return nil
			default:
				logger.Error("Error accepting connection", "error", err)
				continue
			}
		}
		go s.handleConnection(conn)
	}
}

// Addr returns the telnet listener address once Start is running.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) handleConnection(conn net.Conn) {
	remoteAddr := conn.RemoteAddr().String()
	ip := extractIP(remoteAddr)

	if !s.connLimiter.TryAcquire(ip) {
		logger.Warning("Connection rejected - limit exceeded", "remote_addr", remoteAddr)
		conn.Write([]byte("Too many connections. Please try again later.\r\n"))
		conn.Close()
		return
	}
	defer func() {
		s.connLimiter.Release(ip)
		conn.Close()
	}()

	s.handleClient(NewTelnetClient(conn))
}

// Handler returns the HTTP handler serving the WebSocket table at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	return mux
}

// StartWebSocket serves the WebSocket table on address until Shutdown.
func (s *Server) StartWebSocket(address string) error {
	httpServer := &http.Server{
		Addr:              address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = httpServer
	s.mu.Unlock()

	logger.Info("WebSocket table listening", "address", address)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := getRealIP(r)

	if !s.connLimiter.TryAcquire(clientIP) {
		logger.Warning("WebSocket connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		s.connLimiter.Release(clientIP)
		return
	}
	if s.cfg.MaxMessageSize > 0 {
		wsConn.SetReadLimit(s.cfg.MaxMessageSize)
	}

	go func() {
		defer func() {
			s.connLimiter.Release(clientIP)
			wsConn.Close()
		}()
		s.handleClient(NewWebSocketClient(wsConn))
	}()
}

// handleClient is shared by telnet and WebSocket sessions.
func (s *Server) handleClient(client Client) {
	logger.Info("Client connected", "remote_addr", client.RemoteAddr())

	src, err := s.newSource()
	if err != nil {
		logger.Error("Failed to create dice source", "remote_addr", client.RemoteAddr(), "error", err)
		client.WriteLine("The table is unavailable. Please try again later.")
		return
	}

	s.mu.Lock()
	s.clients[client] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, client)
		s.mu.Unlock()
		logger.Info("Client disconnected", "remote_addr", client.RemoteAddr())
	}()

	session := NewSession(client, src, s.cfg.MaxDice)
	session.throttle = NewThrottle(s.cfg.RateLimit)
	session.Run()
}

// SessionCount returns the number of connected clients.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Uptime returns how long the server has been running.
func (s *Server) Uptime() time.Duration {
	return time.Since(s.StartTime)
}

// Shutdown stops the listeners and disconnects every client. Safe to call twice.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdown)

		s.mu.Lock()
		if s.listener != nil {
			s.listener.Close()
		}
		if s.httpServer != nil {
			s.httpServer.Close()
		}
		for client := range s.clients {
			client.Close()
		}
		s.mu.Unlock()

		logger.Info("Table server shutdown complete")
	})
}
