package documents

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	doc := Document{
		ID:         "doc-1",
		SessionID:  "sess-1",
		FileName:   "resume.pdf",
		StorageKey: "ab/cd/resume.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  2048,
		PageCount:  2,
		FileHash:   "deadbeef",
		Status:     StatusActive,
		Warnings:   []string{"large file: analysis may take longer than usual"},
		ExpiresAt:  now.Add(24 * time.Hour),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	mock.ExpectExec(`INSERT INTO documents`).
		WithArgs(doc.ID, doc.SessionID, doc.FileName, doc.StorageKey, doc.MimeType, doc.SizeBytes,
			doc.PageCount, doc.FileHash, doc.Status, `["large file: analysis may take longer than usual"]`,
			doc.ExpiresAt, doc.CreatedAt, doc.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetByIDDeletedReturnsGone(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "session_id", "file_name", "storage_key", "mime_type", "size_bytes",
		"page_count", "file_hash", "status", "warnings", "expires_at", "destroyed_at", "created_at", "updated_at",
	}).AddRow("doc-1", "sess-1", "resume.pdf", "key", "application/pdf", int64(100),
		1, "hash", StatusDeleted, nil, now, now, now, now)

	mock.ExpectQuery(`SELECT id, session_id, file_name`).
		WithArgs("doc-1", "sess-1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "sess-1", "doc-1"); err != ErrGone {
		t.Fatalf("expected ErrGone, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoClaimExpired(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "session_id", "file_name", "storage_key", "mime_type", "size_bytes",
		"page_count", "file_hash", "status", "warnings", "expires_at", "destroyed_at", "created_at", "updated_at",
	}).AddRow("doc-1", "sess-1", "resume.pdf", "key-1", "application/pdf", int64(100),
		1, "hash", StatusDeleted, nil, now.Add(-time.Hour), now, now.Add(-25*time.Hour), now)

	mock.ExpectQuery(`UPDATE documents\s+SET status = 'deleted'`).
		WithArgs(now, 100).
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	claimed, err := repo.ClaimExpired(context.Background(), now, 100)
	if err != nil {
		t.Fatalf("ClaimExpired: %v", err)
	}
	if len(claimed) != 1 || claimed[0].StorageKey != "key-1" {
		t.Fatalf("unexpected claim: %+v", claimed)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
