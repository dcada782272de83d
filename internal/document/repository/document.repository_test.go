package repository

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"tulisbareng/internal/document/model"
	"tulisbareng/pkg/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newMockRepo(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDocumentRepository(db), mock
}

func TestLoadDocumentWithCollaborators(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, title, content, owner_id, created_at, updated_at FROM documents WHERE id = \$1`).
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "owner_id", "created_at", "updated_at"}).
			AddRow("doc-1", "Meeting notes", "hello", "userA", now, now))
	mock.ExpectQuery(`SELECT user_id FROM collaborators WHERE document_id = \$1`).
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("userB").AddRow("userC"))

	doc, err := repo.Load("doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, "hello", doc.Content)
	assert.Equal(t, "userA", doc.OwnerID)
	assert.Equal(t, []string{"userB", "userC"}, doc.Collaborators)
	assert.True(t, doc.CanAccess("userA"))
	assert.True(t, doc.CanAccess("userB"))
	assert.False(t, doc.CanAccess("userZ"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadDocumentNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, title, content, owner_id, created_at, updated_at FROM documents WHERE id = \$1`).
		WithArgs("doc-404").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Load("doc-404")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSnapshotUpdatesContentAndAppendsVersion(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE documents SET content = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs("hello!", "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO document_versions \(id, document_id, content, author_id, created_at\) VALUES \(\$1, \$2, \$3, \$4, NOW\(\)\)`).
		WithArgs(sqlmock.AnyArg(), "doc-1", "hello!", "userA").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SaveSnapshot("doc-1", "hello!", "userA"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSnapshotUnknownDocument(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE documents SET content = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs("hello!", "doc-404").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.SaveSnapshot("doc-404", "hello!", "userA")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInsertsInitialVersion(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO documents \(id, title, content, owner_id, created_at, updated_at\) VALUES \(\$1, \$2, \$3, \$4, NOW\(\), NOW\(\)\)`).
		WithArgs("doc-1", "Untitled Document", "hi", "userA").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO document_versions \(id, document_id, content, author_id, created_at\) VALUES \(\$1, \$2, \$3, \$4, NOW\(\)\)`).
		WithArgs(sqlmock.AnyArg(), "doc-1", "hi", "userA").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(&model.Document{ID: "doc-1", Title: "Untitled Document", Content: "hi", OwnerID: "userA"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetVersionsInChronologicalOrder(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, content, author_id, created_at FROM document_versions WHERE document_id = \$1 ORDER BY created_at ASC`).
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "author_id", "created_at"}).
			AddRow("v1", "hello", "userA", now.Add(-time.Hour)).
			AddRow("v2", "hello!", "userB", now))

	versions, err := repo.GetVersions("doc-1")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "hello", versions[0].Content)
	assert.Equal(t, "userB", versions[1].AuthorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCollaborator(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO collaborators \(document_id, user_id\) VALUES \(\$1, \$2\)`).
		WithArgs("doc-1", "userB").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AddCollaborator("doc-1", "userB"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveCollaborator(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM collaborators WHERE document_id = \$1 AND user_id = \$2`).
		WithArgs("doc-1", "userB").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RemoveCollaborator("doc-1", "userB"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSkipsUnscannableCollaboratorRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, title, content, owner_id, created_at, updated_at FROM documents WHERE id = \$1`).
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "owner_id", "created_at", "updated_at"}).
			AddRow("doc-1", "Doc", "hello", "userA", now, now))
	// A NULL user_id cannot be scanned into a string; the row is logged and
	// skipped, the rest of the set survives.
	mock.ExpectQuery(`SELECT user_id FROM collaborators WHERE document_id = \$1`).
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(nil).AddRow("userB"))

	doc, err := repo.Load("doc-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"userB"}, doc.Collaborators)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetVersionsSkipsUnscannableRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, content, author_id, created_at FROM document_versions WHERE document_id = \$1 ORDER BY created_at ASC`).
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "author_id", "created_at"}).
			AddRow("v1", "hello", "userA", "not-a-timestamp").
			AddRow("v2", "hello!", "userB", now))

	versions, err := repo.GetVersions("doc-1")
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "v2", versions[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
