package router

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/peerlink/signaling/internal/metrics"
	"github.com/peerlink/signaling/internal/protocol"
	"github.com/peerlink/signaling/internal/registry"
	"github.com/peerlink/signaling/internal/room"
)

// Cause says why a connection is being torn down. The disconnect path is the
// same for every cause.
type Cause string

const (
	CausePeerClosed Cause = "peer_closed"
	CauseTimeout    Cause = "timeout"
	CauseShutdown   Cause = "shutdown"
)

// Error texts sent back to clients.
const (
	errInvalidJSON  = "Invalid JSON"
	errRoomRequired = "Room ID required"
	errRoomFull     = "Room full"
	errRoomNotFound = "Room not found"
)

// Router receives transport events and brokers the signaling handshake.
type Router struct {
	// mu serializes every mutation of the registry and the room directory.
	// Outbound sends are non-blocking, so holding it across fan-out is cheap.
	mu sync.Mutex

	reg     *registry.Registry
	rooms   *room.Directory
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a Router over the given shared state.
func New(reg *registry.Registry, rooms *room.Directory, m *metrics.Metrics, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		reg:     reg,
		rooms:   rooms,
		metrics: m,
		logger:  logger,
	}
}

// HandleOpen assigns a fresh connection id, registers the channel, and greets
// the peer with a welcome message before any other traffic can reach it.
func (rt *Router) HandleOpen(ch registry.Channel) (string, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	var id string
	for {
		id = rt.reg.NewID()
		err := rt.reg.Register(id, ch)
		if err == nil {
			break
		}
		// Id generation raced an existing entry; regenerate rather than
		// overwrite.
		if errors.Is(err, registry.ErrDuplicateID) {
			continue
		}
		return "", fmt.Errorf("open connection: %w", err)
	}

	rt.metrics.ConnectionsTotal.Inc()
	rt.metrics.ConnectionsOpen.Set(float64(rt.reg.Len()))

	rt.send(id, protocol.Welcome(id))
	rt.logger.Info("connection opened", "conn_id", id)
	return id, nil
}

// HandleMessage processes one inbound message from one connection. Every
// failure is scoped to this message; nothing here can take down the router.
func (rt *Router) HandleMessage(connID string, data []byte) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	// Any inbound traffic counts as liveness, not only explicit pings.
	rt.reg.Touch(connID)

	env, err := protocol.Decode(data)
	if err != nil {
		rt.metrics.ParseErrors.Inc()
		rt.send(connID, protocol.ErrorReply(errInvalidJSON))
		return
	}

	rt.metrics.MessagesTotal.WithLabelValues(messageLabel(env)).Inc()

	switch {
	case env.Type == protocol.TypePing:
		// Keepalive for endpoints with no other traffic; exempt from
		// business routing.
		rt.send(connID, protocol.Pong())

	case env.Type == protocol.TypeJoin:
		rt.handleJoin(connID, env)

	case env.Type == protocol.TypeCallUser:
		rt.handleCallUser(connID, env)

	case env.IsRelay():
		rt.handleRelay(connID, env)

	default:
		// Unrecognized types are dropped silently so older servers
		// tolerate newer clients.
		rt.logger.Debug("dropping unrecognized message type",
			"conn_id", connID,
			"type", env.Type,
		)
	}
}

// HandleClose is the transport callback for a peer-initiated or abrupt close.
func (rt *Router) HandleClose(connID string) {
	rt.Disconnect(connID, CausePeerClosed)
}

// handleJoin adds the sender to a room and announces it to the other members.
func (rt *Router) handleJoin(connID string, env *protocol.Envelope) {
	if env.Room == "" {
		rt.send(connID, protocol.ErrorReply(errRoomRequired))
		return
	}

	rt.rooms.Ensure(env.Room)
	if err := rt.rooms.Add(env.Room, connID); err != nil {
		if errors.Is(err, room.ErrRoomFull) {
			rt.send(connID, protocol.ErrorReply(errRoomFull))
			return
		}
		rt.logger.Error("join failed", "conn_id", connID, "room", env.Room, "error", err)
		return
	}
	rt.metrics.RoomsOpen.Set(float64(rt.rooms.Len()))

	rt.send(connID, protocol.Joined(env.Room))
	for _, peer := range rt.rooms.MembersExcept(env.Room, connID) {
		rt.send(peer, protocol.PeerJoined(connID, env.Room))
	}

	rt.logger.Info("joined room", "conn_id", connID, "room", env.Room)
}

// handleCallUser rings a specific connection and puts the caller in the room.
// The callee joins later through its own join message.
func (rt *Router) handleCallUser(connID string, env *protocol.Envelope) {
	if env.Room == "" {
		rt.send(connID, protocol.ErrorReply(errRoomRequired))
		return
	}

	if _, online := rt.reg.Lookup(env.To); !online {
		rt.send(connID, protocol.ErrorReply(fmt.Sprintf("User %s is offline", env.To)))
		return
	}

	rt.rooms.Ensure(env.Room)
	if err := rt.rooms.Add(env.Room, connID); err != nil {
		if errors.Is(err, room.ErrRoomFull) {
			rt.send(connID, protocol.ErrorReply(errRoomFull))
			return
		}
		rt.logger.Error("call setup failed", "conn_id", connID, "room", env.Room, "error", err)
		return
	}
	rt.metrics.RoomsOpen.Set(float64(rt.rooms.Len()))

	rt.send(env.To, protocol.IncomingCall(connID, env.Room, env.CallType))
	rt.send(connID, protocol.CallInitiated(env.Room))

	rt.logger.Info("call initiated",
		"conn_id", connID,
		"to", env.To,
		"room", env.Room,
		"call_type", env.CallType,
	)
}

// handleRelay forwards the message verbatim, plus the sender's id, to every
// other room member. The payload itself is never interpreted.
func (rt *Router) handleRelay(connID string, env *protocol.Envelope) {
	if env.Room == "" {
		rt.send(connID, protocol.ErrorReply(errRoomRequired))
		return
	}
	if !rt.rooms.Exists(env.Room) {
		rt.send(connID, protocol.ErrorReply(errRoomNotFound))
		return
	}

	payload, err := env.WithFrom(connID)
	if err != nil {
		rt.logger.Error("relay encode failed", "conn_id", connID, "error", err)
		return
	}

	for _, peer := range rt.rooms.MembersExcept(env.Room, connID) {
		if rt.send(peer, payload) {
			rt.metrics.RelayedTotal.Inc()
		}
	}
}

// Disconnect removes a connection and cleans up its room memberships. It is
// the only teardown path in the system; peer closes, transport errors, and
// liveness eviction all land here, differing only in cause. Idempotent.
func (rt *Router) Disconnect(connID string, cause Cause) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	removed := rt.reg.Remove(connID)
	memberships := rt.rooms.MemberOf(connID)
	if !removed && len(memberships) == 0 {
		return
	}

	for _, roomID := range memberships {
		rt.rooms.Remove(roomID, connID)
		if remaining, ok := rt.rooms.Members(roomID); ok {
			for _, peer := range remaining {
				rt.send(peer, protocol.Hangup(connID))
			}
		}
	}

	rt.metrics.ConnectionsOpen.Set(float64(rt.reg.Len()))
	rt.metrics.RoomsOpen.Set(float64(rt.rooms.Len()))
	if cause == CauseTimeout {
		rt.metrics.Evictions.Inc()
	}

	rt.logger.Info("connection closed",
		"conn_id", connID,
		"cause", string(cause),
		"rooms", len(memberships),
	)
}

// send is best-effort delivery. A cold or backlogged destination is logged and
// counted, never propagated; membership changes already applied stay applied.
func (rt *Router) send(id string, data []byte) bool {
	if err := rt.reg.Send(id, data); err != nil {
		rt.metrics.DroppedSends.Inc()
		rt.logger.Warn("delivery failed", "conn_id", id, "error", err)
		return false
	}
	return true
}

// messageLabel caps metric label cardinality: clients can invent types, the
// counter must not grow with them.
func messageLabel(env *protocol.Envelope) string {
	switch {
	case env.Type == protocol.TypeJoin,
		env.Type == protocol.TypeCallUser,
		env.Type == protocol.TypePing,
		env.IsRelay():
		return env.Type
	default:
		return "unknown"
	}
}
