package repository

import (
	"database/sql"

	"tulisbareng/internal/document/model"
	"tulisbareng/pkg/logger"

	"github.com/google/uuid"
)

type DocumentRepository struct {
	DB *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

// Create inserts the document together with its initial version in one
// transaction, so a document never exists without version history.
func (r *DocumentRepository) Create(doc *model.Document) error {
	tx, err := r.DB.Begin()
	if err != nil {
		logger.Sugar.Errorf("Failed to begin create tx for doc %s: %v", doc.ID, err)
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO documents (id, title, content, owner_id, created_at, updated_at) VALUES ($1, $2, $3, $4, NOW(), NOW())`,
		doc.ID, doc.Title, doc.Content, doc.OwnerID)
	if err != nil {
		logger.Sugar.Errorf("Failed to create document %s: %v", doc.ID, err)
		return err
	}

	_, err = tx.Exec(`INSERT INTO document_versions (id, document_id, content, author_id, created_at) VALUES ($1, $2, $3, $4, NOW())`,
		uuid.NewString(), doc.ID, doc.Content, doc.OwnerID)
	if err != nil {
		logger.Sugar.Errorf("Failed to create initial version for doc %s: %v", doc.ID, err)
		return err
	}

	return tx.Commit()
}

// Load fetches a document with its collaborator set. Version history is
// loaded separately via GetVersions; the relay never needs it.
func (r *DocumentRepository) Load(docID string) (*model.Document, error) {
	var doc model.Document
	err := r.DB.QueryRow(`SELECT id, title, content, owner_id, created_at, updated_at FROM documents WHERE id = $1`, docID).
		Scan(&doc.ID, &doc.Title, &doc.Content, &doc.OwnerID, &doc.CreatedAt, &doc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	} else if err != nil {
		logger.Sugar.Errorf("Failed to load document %s: %v", docID, err)
		return nil, err
	}

	rows, err := r.DB.Query(`SELECT user_id FROM collaborators WHERE document_id = $1`, docID)
	if err != nil {
		logger.Sugar.Errorf("Failed to load collaborators for doc %s: %v", docID, err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			logger.Sugar.Errorf("Failed to scan collaborator row for doc %s: %v", docID, err)
			continue
		}
		doc.Collaborators = append(doc.Collaborators, userID)
	}
	return &doc, nil
}

// SaveSnapshot overwrites the document's content and appends a version record
// in one transaction, keeping content equal to the last version's content.
func (r *DocumentRepository) SaveSnapshot(docID, content, authorID string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		logger.Sugar.Errorf("Failed to begin save tx for doc %s: %v", docID, err)
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE documents SET content = $1, updated_at = NOW() WHERE id = $2`, content, docID)
	if err != nil {
		logger.Sugar.Errorf("Failed to update content for doc %s: %v", docID, err)
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return model.ErrNotFound
	}

	_, err = tx.Exec(`INSERT INTO document_versions (id, document_id, content, author_id, created_at) VALUES ($1, $2, $3, $4, NOW())`,
		uuid.NewString(), docID, content, authorID)
	if err != nil {
		logger.Sugar.Errorf("Failed to append version for doc %s: %v", docID, err)
		return err
	}

	return tx.Commit()
}

func (r *DocumentRepository) GetVersions(docID string) ([]model.Version, error) {
	rows, err := r.DB.Query(`SELECT id, content, author_id, created_at FROM document_versions WHERE document_id = $1 ORDER BY created_at ASC`, docID)
	if err != nil {
		logger.Sugar.Errorf("Failed to get versions for doc %s: %v", docID, err)
		return nil, err
	}
	defer rows.Close()

	var versions []model.Version
	for rows.Next() {
		var v model.Version
		if err := rows.Scan(&v.ID, &v.Content, &v.AuthorID, &v.CreatedAt); err != nil {
			logger.Sugar.Errorf("Failed to scan version row for doc %s: %v", docID, err)
			continue
		}
		versions = append(versions, v)
	}
	return versions, nil
}

func (r *DocumentRepository) GetDocumentsByUser(userID string) ([]model.DocumentMetadata, error) {
	query := `
		SELECT id, title, updated_at FROM documents WHERE owner_id = $1
		UNION
		SELECT d.id, d.title, d.updated_at FROM documents d JOIN collaborators c ON d.id = c.document_id WHERE c.user_id = $1
		ORDER BY updated_at DESC`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		logger.Sugar.Errorf("Failed to get documents for user %s: %v", userID, err)
		return nil, err
	}
	defer rows.Close()

	docs := []model.DocumentMetadata{}
	for rows.Next() {
		var doc model.DocumentMetadata
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.UpdatedAt); err != nil {
			logger.Sugar.Errorf("Failed to scan document row for user %s: %v", userID, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *DocumentRepository) UpdateTitle(docID, title, ownerID string) (int64, error) {
	result, err := r.DB.Exec(`UPDATE documents SET title = $1, updated_at = NOW() WHERE id = $2 AND owner_id = $3`, title, docID, ownerID)
	if err != nil {
		logger.Sugar.Errorf("Failed to update title for doc %s: %v", docID, err)
		return 0, err
	}
	return result.RowsAffected()
}

func (r *DocumentRepository) Delete(docID string) error {
	_, err := r.DB.Exec(`DELETE FROM documents WHERE id = $1`, docID)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete doc %s: %v", docID, err)
	}
	return err
}

func (r *DocumentRepository) AddCollaborator(docID, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO collaborators (document_id, user_id) VALUES ($1, $2)
		ON CONFLICT (document_id, user_id) DO NOTHING`, docID, userID)
	if err != nil {
		logger.Sugar.Errorf("Failed to add collaborator %s to doc %s: %v", userID, docID, err)
	}
	return err
}

func (r *DocumentRepository) RemoveCollaborator(docID, userID string) error {
	_, err := r.DB.Exec(`DELETE FROM collaborators WHERE document_id = $1 AND user_id = $2`, docID, userID)
	if err != nil {
		logger.Sugar.Errorf("Failed to remove collaborator %s from doc %s: %v", userID, docID, err)
	}
	return err
}
