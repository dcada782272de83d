package socket

import (
	"encoding/json"
	"sync"

	"tulisbareng/pkg/logger"
)

// Registry maps document ids to the sessions currently viewing them. A
// session may be in several rooms at once; a room is discarded when its last
// member leaves. State is process-local and rebuilt empty on restart.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]map[*Session]bool
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]map[*Session]bool)}
}

// Join adds the session to the document's room, creating the room if absent.
// Re-joining is a no-op beyond re-adding membership.
func (r *Registry) Join(docID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rooms[docID] == nil {
		r.rooms[docID] = make(map[*Session]bool)
	}
	r.rooms[docID][s] = true
}

// Leave removes the session from the document's room and discards the room
// once it is empty.
func (r *Registry) Leave(docID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if members, ok := r.rooms[docID]; ok {
		delete(members, s)
		if len(members) == 0 {
			delete(r.rooms, docID)
			logger.Sugar.Infof("Closed empty room: %s", docID)
		}
	}
}

// Member reports whether the session is currently in the document's room.
func (r *Registry) Member(docID string, s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rooms[docID][s]
}

// Broadcast delivers the message to every member of the document's room
// except the optionally excluded sender. Delivery order between members is
// unspecified; there is no delivery confirmation.
func (r *Registry) Broadcast(docID string, msg Message, exclude *Session) {
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling broadcast message: %v", err)
		return
	}

	// Collect recipients under the lock, write outside it.
	r.mu.Lock()
	recipients := make([]*Session, 0, len(r.rooms[docID]))
	for member := range r.rooms[docID] {
		if member != exclude {
			recipients = append(recipients, member)
		}
	}
	r.mu.Unlock()

	for _, member := range recipients {
		member.enqueue(payload)
	}
}
