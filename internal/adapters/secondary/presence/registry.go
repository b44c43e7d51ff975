// Package presence keeps the in-process map of user id to live connections.
// It is the only mutable state shared between the websocket lifecycle and the
// notification dispatcher, so it owns its locking instead of leaking it.
package presence

import (
	"hash/fnv"
	"sync"

	"github.com/swathi-reddy30/pulse-app/internal/core/ports"
)

const shardCount = 32

// Registry is a sharded map: userID -> connectionID -> connection. Mutations
// on the same user serialize on one shard lock; lookups for different users
// mostly land on different shards and proceed without contention. Lookups
// vastly outnumber mutations, hence RWMutex per shard.
type Registry struct {
	shards [shardCount]shard
}

type shard struct {
	mu    sync.RWMutex
	users map[string]map[string]ports.Connection
}

func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i].users = make(map[string]map[string]ports.Connection)
	}
	return r
}

func (r *Registry) shardFor(userID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &r.shards[h.Sum32()%shardCount]
}

// Register adds the handle to the user's set. A second device adds a second
// handle; it never overwrites the first one.
func (r *Registry) Register(userID string, conn ports.Connection) {
	s := r.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.users[userID]
	if !ok {
		set = make(map[string]ports.Connection, 1)
		s.users[userID] = set
	}
	set[conn.ID()] = conn
}

// Unregister removes exactly that handle. When the last handle goes, the user
// entry goes with it: absence, not an empty set, is what Lookup reports.
func (r *Registry) Unregister(userID string, conn ports.Connection) {
	s := r.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.users[userID]
	if !ok {
		return
	}
	delete(set, conn.ID())
	if len(set) == 0 {
		delete(s.users, userID)
	}
}

// Lookup returns a snapshot of the user's live handles. It never blocks
// beyond the shard read-lock and returns nil for unknown users. A register
// racing this call may legitimately be missed; the notification is persisted
// regardless.
func (r *Registry) Lookup(userID string) []ports.Connection {
	s := r.shardFor(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.users[userID]
	if !ok {
		return nil
	}
	conns := make([]ports.Connection, 0, len(set))
	for _, c := range set {
		conns = append(conns, c)
	}
	return conns
}
