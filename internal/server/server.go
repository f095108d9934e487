package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/thruflo/devmock/internal/config"
	"github.com/thruflo/devmock/internal/logging"
	"github.com/thruflo/devmock/internal/state"
)

// Server is the mock device's HTTP and websocket server.
type Server struct {
	port            int
	consoleInterval time.Duration

	store      *state.Store
	hub        *Hub
	dispatcher *Dispatcher
	static     *staticHandler
	upgrader   websocket.Upgrader
	log        *logging.Logger

	// HTTP server
	mu       sync.RWMutex
	server   *http.Server
	listener net.Listener
	started  bool

	// Cancelled by Stop; parent of every connection's context.
	ctx    context.Context
	cancel context.CancelFunc
}

// Config holds server configuration options.
type Config struct {
	Port int
	// Assets is the UI bundle.
	Assets fs.FS
	// Store is the shared device state.
	Store *state.Store
	// ConsoleInterval is the period of console updates per connection.
	ConsoleInterval time.Duration
	// Logger defaults to logging.Default().
	Logger *logging.Logger
}

// NewServer creates a new Server instance.
func NewServer(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if cfg.Assets == nil {
		return nil, errors.New("assets are required")
	}
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.ConsoleInterval <= 0 {
		return nil, errors.New("console interval must be positive")
	}

	log := cfg.Logger
	if log == nil {
		log = logging.Default()
	}

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		port:            cfg.Port,
		consoleInterval: cfg.ConsoleInterval,
		store:           cfg.Store,
		hub:             hub,
		dispatcher:      NewDispatcher(cfg.Store, hub, log),
		static:          newStaticHandler(cfg.Assets),
		upgrader: websocket.Upgrader{
			// The UI is often served by its own dev server on another origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// NewServerFromConfig creates a Server and its Store from a loaded config.
func NewServerFromConfig(cfg *config.Config, assets fs.FS, log *logging.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	store := state.NewStore(state.Options{ConsoleCapacity: cfg.Console.Capacity})
	if err := store.ApplyOverrides(cfg.Screens); err != nil {
		return nil, fmt.Errorf("failed to apply screen overrides: %w", err)
	}

	return NewServer(&Config{
		Port:            cfg.Server.Port,
		Assets:          assets,
		Store:           store,
		ConsoleInterval: cfg.Console.Interval,
		Logger:          log,
	})
}

// Port returns the configured port.
func (s *Server) Port() int {
	return s.port
}

// Store returns the shared device state.
func (s *Server) Store() *state.Store {
	return s.store
}

// Hub returns the registry of active connections.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP handler serving assets and the websocket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	return withAccessLog(s.log, mux)
}

// Start starts the HTTP server.
// The server runs until ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("server already started")
	}

	addr := fmt.Sprintf(":%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	// No read or write timeout: websocket connections are long lived and
	// manage their own write deadlines.
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.started = true
	srv := s.server
	s.mu.Unlock()

	s.log.Info("listening", "addr", listener.Addr().String())

	go func() {
		select {
		case <-ctx.Done():
			if err := s.Stop(); err != nil {
				s.log.Warn("failed to stop server", "error", err)
			}
		case <-s.ctx.Done():
		}
	}()

	// Blocks until error or server closed
	err = srv.Serve(listener)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Stop gracefully shuts down the server and closes every websocket.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancel()
	if ids := s.hub.IDs(); len(ids) > 0 {
		s.log.Info("closing connections", "conns", strings.Join(ids, ","))
	}
	s.hub.CloseAll()

	if !s.started || s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	s.started = false
	return nil
}

// ListenAddr returns the actual address the server is listening on.
// Useful when port 0 is used to get an available port.
// Returns empty string if not started.
func (s *Server) ListenAddr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// handleRoot upgrades websocket requests for "/" and serves assets otherwise.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" && websocket.IsWebSocketUpgrade(r) {
		s.handleWebSocket(w, r)
		return
	}
	s.static.ServeHTTP(w, r)
}

// handleWebSocket runs one UI connection: it registers the connection,
// starts its console ticker and dispatches messages until the UI leaves.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		s.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := newConn(ws, s.log)
	c.log.Info("connected", "remote", r.RemoteAddr)

	// Stop cancels s.ctx before closing the hub, so a connection registered
	// during Stop is either closed by CloseAll or caught here.
	s.hub.Register(c)
	if s.ctx.Err() != nil {
		s.hub.Unregister(c)
		_ = c.Close()
		c.log.Info("rejected connection, server stopped")
		return
	}
	ctx, cancel := context.WithCancel(s.ctx)
	defer func() {
		cancel()
		s.hub.Unregister(c)
		_ = c.Close()
		c.log.Info("disconnected")
	}()

	go runConsole(ctx, c, s.store.Console(), s.consoleInterval, c.log)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				c.log.Warn("read failed", "error", err)
			}
			return
		}

		msg := string(data)
		c.log.Info("received", "msg", msg)
		s.dispatcher.Handle(c, msg)
	}
}
