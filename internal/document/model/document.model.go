package model

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrAccessDenied = errors.New("access denied to this document")
)

// Version is an immutable snapshot in a document's history. Versions are
// append-only; insertion order is chronological.
type Version struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Document struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	OwnerID       string    `json:"owner_id"`
	Collaborators []string  `json:"collaborators"`
	Versions      []Version `json:"versions,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CanAccess reports whether the user is the owner or a collaborator.
func (d *Document) CanAccess(userID string) bool {
	if d.OwnerID == userID {
		return true
	}
	for _, c := range d.Collaborators {
		if c == userID {
			return true
		}
	}
	return false
}

type CreateDocRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type CreateDocResponse struct {
	DocID string `json:"document_id"`
}

type UpdateDocRequest struct {
	Title string `json:"title"`
}

type InviteRequest struct {
	DocID  string `json:"document_id"`
	UserID string `json:"user_id"`
}

type SaveDocRequest struct {
	DocID   string `json:"document_id"`
	Content string `json:"content"`
}

type DocumentMetadata struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}
