package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Errors
var (
	ErrDuplicateID  = errors.New("connection id already registered")
	ErrNotConnected = errors.New("connection not registered")
)

// IDLength is the number of uuid characters used for a connection id.
const IDLength = 8

// Channel is an open, bidirectional, message-framed handle associated with one
// connection. The transport layer provides it; the registry owns it for the
// lifetime of the entry.
type Channel interface {
	// Send writes one message to the peer. It must not block indefinitely;
	// implementations drop on backpressure and report an error.
	Send(data []byte) error

	// Close releases the channel. Safe to call more than once.
	Close() error
}

// entry pairs a channel with its heartbeat record. Both live and die together.
type entry struct {
	ch       Channel
	lastSeen time.Time
}

// Registry maps connection ids to live channels.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]*entry
	logger *slog.Logger
}

// New creates an empty Registry.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		conns:  make(map[string]*entry),
		logger: logger,
	}
}

// NewID returns a short random id unique among currently-open connections.
// Collisions are improbable at this scale; regenerating until free makes them
// impossible.
func (r *Registry) NewID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for {
		id := uuid.NewString()[:IDLength]
		if _, taken := r.conns[id]; !taken {
			return id
		}
	}
}

// Register inserts a new mapping. Overwriting an existing id is forbidden; the
// caller must regenerate and retry.
func (r *Registry) Register(id string, ch Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conns[id]; exists {
		return fmt.Errorf("register %s: %w", id, ErrDuplicateID)
	}
	r.conns[id] = &entry{ch: ch, lastSeen: time.Now()}
	return nil
}

// Lookup returns the channel for id, if present.
func (r *Registry) Lookup(id string) (Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.conns[id]
	if !ok {
		return nil, false
	}
	return e.ch, true
}

// Send delivers one message to the given connection. A cold destination is
// reported as ErrNotConnected, never a panic; the caller decides whether the
// original sender hears about it.
func (r *Registry) Send(id string, data []byte) error {
	r.mu.RLock()
	e, ok := r.conns[id]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("send to %s: %w", id, ErrNotConnected)
	}
	if err := e.ch.Send(data); err != nil {
		return fmt.Errorf("send to %s: %w", id, err)
	}
	return nil
}

// Remove deletes the mapping and closes the channel. Idempotent; reports
// whether an entry was actually removed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	e, ok := r.conns[id]
	if ok {
		delete(r.conns, id)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	if err := e.ch.Close(); err != nil {
		r.logger.Debug("channel close", "conn_id", id, "error", err)
	}
	return true
}

// Touch refreshes the heartbeat record for id. Any inbound message counts as
// activity, not only explicit keepalives.
func (r *Registry) Touch(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.conns[id]; ok {
		e.lastSeen = time.Now()
	}
}

// ExpiredBefore returns the ids of all connections whose last activity is
// older than cutoff.
func (r *Registry) ExpiredBefore(cutoff time.Time) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var expired []string
	for id, e := range r.conns {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	return expired
}

// IDs returns all currently-open connection ids.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of open connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
