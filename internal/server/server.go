// Package server exposes maze generation over WebSocket: each JSON request
// on /ws is answered with a freshly generated, verified maze.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lawnchairsociety/mazegen/internal/config"
	"github.com/lawnchairsociety/mazegen/internal/logger"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg          *config.ServerConfig
	history      History
	connLimiter  *ConnLimiter
	httpServer   *http.Server
	listener     net.Listener
	clients      map[*wsClient]struct{}
	mu           sync.Mutex
	shutdown     chan struct{}
	shutdownOnce sync.Once
	now          func() time.Time
	StartTime    time.Time
}

// NewServer creates a server for cfg. A nil cfg uses the defaults.
func NewServer(cfg *config.ServerConfig) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		cfg:         cfg,
		connLimiter: NewConnLimiter(cfg.Connections),
		clients:     make(map[*wsClient]struct{}),
		shutdown:    make(chan struct{}),
		now:         time.Now,
		StartTime:   time.Now(),
	}
}

// SetHistory sets the store new runs are recorded in. Without one, runs
// still get an ID but cannot be replayed.
func (s *Server) SetHistory(h History) {
	s.history = h
}

// GetServerConfig returns the server configuration
func (s *Server) GetServerConfig() *config.ServerConfig {
	return s.cfg
}

// GetUptime returns how long the server has been running
func (s *Server) GetUptime() time.Duration {
	return time.Since(s.StartTime)
}

// ActiveSessions returns the number of open WebSocket sessions.
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Handler returns the HTTP routes: /ws and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.cfg.WebSocket.ListenAddress)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Serve accepts connections on l until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	select {
	case <-s.shutdown:
		s.mu.Unlock()
		l.Close()
		return http.ErrServerClosed
	default:
	}
	s.listener = l
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	logger.Info("Maze service listening", "address", l.Addr().String())
	err := srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := getRealIP(r, s.cfg.Connections.TrustProxyHeaders)

	select {
	case <-s.shutdown:
		http.Error(w, "Server is shutting down.", http.StatusServiceUnavailable)
		return
	default:
	}

	// Check connection limits before upgrading
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
			allowed := s.cfg.WebSocket.IsOriginAllowed(origin, r.Host)
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

	client := newWSClient(wsConn, s.cfg.WebSocket.MaxMessageSize)
	if !s.track(client) {
		client.Close()
		s.connLimiter.Release(clientIP)
		return
	}

	go s.handleWebSocketConnection(client, clientIP)
}

// track registers an open session; it fails once shutdown has begun.
func (s *Server) track(c *wsClient) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.shutdown:
		return false
	default:
	}
	s.clients[c] = struct{}{}
	return true
}

func (s *Server) untrack(c *wsClient) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
}

// handleWebSocketConnection answers requests until the client disconnects.
func (s *Server) handleWebSocketConnection(client *wsClient, clientIP string) {
	defer func() {
		s.untrack(client)
		s.connLimiter.Release(clientIP)
		client.Close()
	}()

	logger.Debug("Maze session opened", "client_ip", clientIP)

	for {
		req, err := client.ReadRequest()
		if err != nil {
			var de *decodeError
			if errors.As(err, &de) {
				if err := client.Send(Response{Error: de.Error()}); err != nil {
					return
				}
				continue
			}
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("Maze session read ended", "client_ip", clientIP, "error", err)
			}
			return
		}

		resp, err := s.generate(req, "websocket")
		if err != nil {
			logger.Warning("Maze request failed", "client_ip", clientIP, "error", err)
			if err := client.Send(Response{Error: err.Error()}); err != nil {
				return
			}
			continue
		}

		if err := client.Send(resp); err != nil {
			logger.Debug("Maze session write failed", "client_ip", clientIP, "error", err)
			return
		}

		logger.Always("Maze generated",
			"run_id", resp.RunID,
			"width", resp.Width,
			"length", resp.Length,
			"seed", resp.Seed,
			"difficulty", resp.Difficulty,
			"replay", req.Replay != "",
			"client_ip", clientIP)
	}
}

// Shutdown stops accepting connections and closes every open session.
// It is safe to call more than once.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		close(s.shutdown)
		srv := s.httpServer
		clients := make([]*wsClient, 0, len(s.clients))
		for c := range s.clients {
			clients = append(clients, c)
		}
		s.mu.Unlock()

		if srv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warning("HTTP shutdown incomplete", "error", err)
			}
			cancel()
		}

		// Hijacked WebSocket connections are not closed by http.Server.
		for _, c := range clients {
			c.Close()
		}

		logger.Info("Maze service shutdown complete", "closed_sessions", len(clients))
	})
}
