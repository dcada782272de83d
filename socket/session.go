package socket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"tulisbareng/internal/document/model"
	"tulisbareng/pkg/logger"

	"github.com/gorilla/websocket"
)

// DocumentStore is the persistence gateway the relay depends on. Load returns
// model.ErrNotFound for unknown ids; SaveSnapshot overwrites the content and
// appends a version authored by authorID.
type DocumentStore interface {
	Load(docID string) (*model.Document, error)
	SaveSnapshot(docID, content, authorID string) error
}

// Session is the per-connection state machine of the relay. By the time a
// Session exists the connection is authenticated; from there it may join any
// number of document rooms, relay changes, and save snapshots, until the
// connection drops.
//
// readPump is the only goroutine touching joined, so it needs no lock.
type Session struct {
	conn     *websocket.Conn
	userID   string
	registry *Registry
	limiter  *RateLimiter
	store    DocumentStore
	send     chan []byte
	joined   map[string]bool

	sendMu sync.Mutex
	closed bool
}

func NewSession(conn *websocket.Conn, userID string, registry *Registry, limiter *RateLimiter, store DocumentStore) *Session {
	return &Session{
		conn:     conn,
		userID:   userID,
		registry: registry,
		limiter:  limiter,
		store:    store,
		send:     make(chan []byte, 256),
		joined:   make(map[string]bool),
	}
}

func (s *Session) readPump() {
	defer func() {
		s.disconnect()
		s.conn.Close()
	}()

	for {
		_, rawMessage, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Sugar.Errorf("Read error for user %s: %v", s.userID, err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(rawMessage, &msg); err != nil {
			logger.Sugar.Errorf("Error unmarshalling message from user %s: %v", s.userID, err)
			s.sendError("Invalid message")
			continue
		}

		// Overwrite with the authenticated identity to prevent spoofing.
		msg.UserID = s.userID

		switch msg.Type {
		case JoinDocumentType:
			s.handleJoin(msg.DocID)
		case SendChangesType:
			s.handleChanges(msg.DocID, msg.Payload)
		case SaveDocumentType:
			s.handleSave(msg)
		default:
			s.sendError("Unknown event: " + msg.Type)
		}
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(30 * time.Second) // Send ping every 30s
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-s.send:
			if !ok {
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return // Connection is dead
			}
		case <-ticker.C:
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return // Connection is dead
			}
		}
	}
}

// handleJoin loads the document, checks owner-or-collaborator access, adds
// the session to the room, notifies the other members, and sends the current
// content snapshot back to the requester. Failures are scoped errors to the
// requester; none of them touch room state.
func (s *Session) handleJoin(docID string) {
	doc, err := s.store.Load(docID)
	if errors.Is(err, model.ErrNotFound) {
		s.sendError("Document not found")
		return
	} else if err != nil {
		logger.Sugar.Errorf("Error loading document %s for user %s: %v", docID, s.userID, err)
		s.sendError("Failed to join document")
		return
	}

	if !doc.CanAccess(s.userID) {
		logger.Sugar.Warnf("Access denied: user %s tried to join doc %s", s.userID, docID)
		s.sendError("Access denied to this document")
		return
	}

	s.registry.Join(docID, s)
	s.joined[docID] = true
	logger.Sugar.Infof("User %s joined document %s", s.userID, docID)

	s.registry.Broadcast(docID, Message{Type: UserJoinedType, DocID: docID, UserID: s.userID}, s)

	payload, _ := json.Marshal(LoadDocumentPayload{Content: doc.Content})
	s.reply(Message{Type: LoadDocumentType, DocID: docID, Payload: payload})
}

// handleChanges relays an opaque delta to the other room members. The session
// must have joined the room first, and the sender's per-user budget must
// admit the attempt. The delta is never echoed back to the sender and never
// persisted.
func (s *Session) handleChanges(docID string, delta json.RawMessage) {
	if !s.joined[docID] {
		s.sendError("Join the document before sending changes")
		return
	}

	if !s.limiter.Admit(s.userID) {
		s.sendError("Rate limit exceeded. Please slow down.")
		return
	}

	s.registry.Broadcast(docID, Message{
		Type:    ReceiveChangesType,
		DocID:   docID,
		UserID:  s.userID,
		Payload: delta,
	}, s)
}

// handleSave persists an explicit checkpoint: content overwrite plus an
// appended version authored by this user. The saver alone gets the
// acknowledgment; a save is not broadcast to the room.
func (s *Session) handleSave(msg Message) {
	var req SaveDocumentPayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		s.sendError("Invalid save payload")
		return
	}

	doc, err := s.store.Load(msg.DocID)
	if errors.Is(err, model.ErrNotFound) {
		s.sendError("Document not found")
		return
	} else if err != nil {
		logger.Sugar.Errorf("Error loading document %s for save by user %s: %v", msg.DocID, s.userID, err)
		s.sendError("Failed to save document")
		return
	}

	if !doc.CanAccess(s.userID) {
		s.sendError("Access denied to this document")
		return
	}

	if err := s.store.SaveSnapshot(msg.DocID, req.Content, s.userID); err != nil {
		logger.Sugar.Errorf("Error saving document %s for user %s: %v", msg.DocID, s.userID, err)
		s.sendError("Failed to save document")
		return
	}

	logger.Sugar.Infof("Document %s saved by user %s", msg.DocID, s.userID)
	payload, _ := json.Marshal(DocumentSavedPayload{Success: true})
	s.reply(Message{Type: DocumentSavedType, DocID: msg.DocID, Payload: payload})
}

// disconnect leaves every joined room and notifies the remaining members,
// once per room. Nothing is persisted on disconnect.
func (s *Session) disconnect() {
	for docID := range s.joined {
		s.registry.Leave(docID, s)
		s.registry.Broadcast(docID, Message{Type: UserLeftType, DocID: docID, UserID: s.userID}, s)
	}
	s.joined = make(map[string]bool)
	s.closeSend()
	logger.Sugar.Infof("User %s disconnected", s.userID)
}

// reply queues a message for this session only.
func (s *Session) reply(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling reply: %v", err)
		return
	}
	s.enqueue(payload)
}

func (s *Session) sendError(message string) {
	payload, _ := json.Marshal(ErrorPayload{Message: message})
	s.reply(Message{Type: ErrorType, Payload: payload})
}

// enqueue queues a marshalled frame for the write pump. Broadcasts arrive
// from other sessions' goroutines, so the closed flag is checked under the
// lock to never write to a channel disconnect has closed.
func (s *Session) enqueue(payload []byte) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.send <- payload:
	default:
		// The send buffer is full; the client is lagging. Drop the message
		// rather than block the sender.
		logger.Sugar.Warnf("User %s's send buffer is full, dropping message", s.userID)
	}
}

func (s *Session) closeSend() {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
}
