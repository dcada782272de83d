package socket

import "encoding/json"

// Event names on the collaboration relay. Inbound events are sent by clients
// on an authenticated connection; outbound events are produced by the server.
const (
	// Inbound
	JoinDocumentType = "join-document"
	SendChangesType  = "send-changes"
	SaveDocumentType = "save-document"

	// Outbound
	LoadDocumentType   = "load-document"
	UserJoinedType     = "user-joined"
	UserLeftType       = "user-left"
	ReceiveChangesType = "receive-changes"
	DocumentSavedType  = "document-saved"
	ErrorType          = "error"
)

// Message is the wire envelope for every relay event. For send-changes and
// receive-changes the payload is the opaque delta; the relay never interprets
// it. UserID is server-authoritative on inbound messages: whatever the client
// sent is overwritten with the authenticated identity.
type Message struct {
	Type    string          `json:"type"`
	DocID   string          `json:"document_id,omitempty"`
	UserID  string          `json:"user_id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type LoadDocumentPayload struct {
	Content string `json:"content"`
}

type SaveDocumentPayload struct {
	Content string `json:"content"`
}

type DocumentSavedPayload struct {
	Success bool `json:"success"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
