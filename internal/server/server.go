package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/peerlink/signaling/internal/registry"
)

// livenessBody answers plain GETs to the root so load balancers and humans can
// see the process is up without speaking WebSocket.
const livenessBody = "WebRTC Signaling Server Running"

// Core receives the three transport callbacks. Satisfied by *router.Router.
type Core interface {
	// HandleOpen registers a fresh channel and returns its assigned id.
	HandleOpen(ch registry.Channel) (string, error)

	// HandleMessage processes one inbound message.
	HandleMessage(connID string, data []byte)

	// HandleClose tears the connection down.
	HandleClose(connID string)
}

// Config holds transport-level settings for client connections.
type Config struct {
	MaxMessageSize int64         // read limit per message (default: 64 KB, enough for SDP blobs)
	SendBuffer     int           // outbound queue length per connection
	WriteTimeout   time.Duration // write deadline for sends
	PingInterval   time.Duration // WebSocket-level keepalive period
	PongWait       time.Duration // read deadline; refreshed on any traffic or pong
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxMessageSize: 64 * 1024,
		SendBuffer:     64,
		WriteTimeout:   10 * time.Second,
		PingInterval:   54 * time.Second,
		PongWait:       60 * time.Second,
	}
}

// Server upgrades inbound requests and pumps messages into the core.
type Server struct {
	cfg      Config
	core     Core
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// New creates a Server delivering transport events to core.
func New(cfg Config, core Core, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:  cfg,
		core: core,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Endpoints are not authenticated; any origin may rendezvous.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeHTTP handles the single root path: WebSocket upgrades become signaling
// connections, plain GETs get the liveness string, everything else 404s.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if !websocket.IsWebSocketUpgrade(r) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(livenessBody))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		s.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	cl := newClient(conn, s.cfg, s.logger.With("remote", conn.RemoteAddr().String()))
	go cl.writePump()

	id, err := s.core.HandleOpen(cl)
	if err != nil {
		s.logger.Error("open rejected", "remote", r.RemoteAddr, "error", err)
		cl.Close()
		return
	}

	go s.readPump(cl, id)
}

// readPump reads messages off one socket and feeds them to the core. It is the
// only reader on the connection; when it exits the shared disconnect path runs.
func (s *Server) readPump(c *client, id string) {
	defer func() {
		s.core.HandleClose(id)
		c.Close()
	}()

	c.conn.SetReadLimit(s.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				c.logger.Debug("read failed", "conn_id", id, "error", err)
			}
			return
		}

		c.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
		s.core.HandleMessage(id, data)
	}
}
