package service

import (
	"tulisbareng/internal/document/model"
	"tulisbareng/internal/document/repository"

	"github.com/google/uuid"
)

type DocumentService struct {
	Repo *repository.DocumentRepository
}

func NewDocumentService(repo *repository.DocumentRepository) *DocumentService {
	return &DocumentService{Repo: repo}
}

// CreateDocument creates a document with exactly one version holding the
// initial content.
func (s *DocumentService) CreateDocument(userID, title, content string) (string, error) {
	if title == "" {
		title = "Untitled Document"
	}
	doc := &model.Document{
		ID:      uuid.NewString(),
		Title:   title,
		Content: content,
		OwnerID: userID,
	}
	if err := s.Repo.Create(doc); err != nil {
		return "", err
	}
	return doc.ID, nil
}

// GetDocument returns the document with its version history, for owners and
// collaborators only.
func (s *DocumentService) GetDocument(docID, userID string) (*model.Document, error) {
	doc, err := s.Repo.Load(docID)
	if err != nil {
		return nil, err
	}
	if !doc.CanAccess(userID) {
		return nil, model.ErrAccessDenied
	}
	versions, err := s.Repo.GetVersions(docID)
	if err != nil {
		return nil, err
	}
	doc.Versions = versions
	return doc, nil
}

func (s *DocumentService) GetDocuments(userID string) ([]model.DocumentMetadata, error) {
	return s.Repo.GetDocumentsByUser(userID)
}

// SaveDocument is the REST save path; it mirrors the relay's save semantics
// (snapshot overwrite plus version append, owner or collaborator only).
func (s *DocumentService) SaveDocument(userID string, req model.SaveDocRequest) error {
	doc, err := s.Repo.Load(req.DocID)
	if err != nil {
		return err
	}
	if !doc.CanAccess(userID) {
		return model.ErrAccessDenied
	}
	return s.Repo.SaveSnapshot(req.DocID, req.Content, userID)
}

func (s *DocumentService) UpdateTitle(docID, userID, title string) error {
	rowsAffected, err := s.Repo.UpdateTitle(docID, title, userID)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *DocumentService) DeleteDocument(docID, userID string) error {
	doc, err := s.Repo.Load(docID)
	if err != nil {
		return err
	}
	if doc.OwnerID != userID {
		return model.ErrAccessDenied
	}
	return s.Repo.Delete(docID)
}

func (s *DocumentService) InviteCollaborator(userID string, req model.InviteRequest) error {
	doc, err := s.Repo.Load(req.DocID)
	if err != nil {
		return err
	}
	if doc.OwnerID != userID {
		return model.ErrAccessDenied
	}
	return s.Repo.AddCollaborator(req.DocID, req.UserID)
}

func (s *DocumentService) RemoveCollaborator(userID, docID, targetUserID string) error {
	doc, err := s.Repo.Load(docID)
	if err != nil {
		return err
	}
	if doc.OwnerID != userID {
		return model.ErrAccessDenied
	}
	return s.Repo.RemoveCollaborator(docID, targetUserID)
}
