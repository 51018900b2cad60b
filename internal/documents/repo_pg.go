package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
	id, session_id, file_name, storage_key, mime_type, size_bytes,
	page_count, file_hash, status, warnings, expires_at, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	warnings, err := marshalWarnings(doc.Warnings)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.SessionID,
		doc.FileName,
		doc.StorageKey,
		doc.MimeType,
		doc.SizeBytes,
		doc.PageCount,
		doc.FileHash,
		doc.Status,
		warnings,
		doc.ExpiresAt,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// GetByID returns a document owned by the session.
func (r *PGRepo) GetByID(ctx context.Context, sessionID, documentID string) (Document, error) {
	const query = `
SELECT id, session_id, file_name, storage_key, mime_type, size_bytes,
       page_count, file_hash, status, warnings, expires_at, destroyed_at, created_at, updated_at
FROM documents
WHERE id = $1 AND session_id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, documentID, sessionID)
	doc, err := scanDocument(row)
	if err != nil {
		return Document{}, err
	}
	if doc.Status == StatusDeleted {
		return Document{}, ErrGone
	}
	return doc, nil
}

// MarkDeleted flips a document to deleted and records the destruction time.
// Idempotent: a second call is a no-op.
func (r *PGRepo) MarkDeleted(ctx context.Context, documentID string, destroyedAt time.Time) error {
	const query = `
UPDATE documents
SET status = 'deleted', destroyed_at = $2, updated_at = $2
WHERE id = $1 AND status <> 'deleted'`
	_, err := r.DB.ExecContext(ctx, query, documentID, destroyedAt)
	return err
}

// ClaimExpired atomically marks expired documents deleted and returns the
// claimed rows so their storage payloads can be destroyed exactly once.
func (r *PGRepo) ClaimExpired(ctx context.Context, now time.Time, limit int) ([]Document, error) {
	const query = `
UPDATE documents
SET status = 'deleted', destroyed_at = $1, updated_at = $1
WHERE id IN (
	SELECT id FROM documents
	WHERE expires_at < $1 AND status <> 'deleted'
	ORDER BY expires_at
	LIMIT $2
	FOR UPDATE SKIP LOCKED
)
RETURNING id, session_id, file_name, storage_key, mime_type, size_bytes,
          page_count, file_hash, status, warnings, expires_at, destroyed_at, created_at, updated_at`
	rows, err := r.DB.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claimed []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		claimed = append(claimed, doc)
	}
	return claimed, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var warnings sql.NullString
	var destroyedAt sql.NullTime
	err := row.Scan(
		&doc.ID,
		&doc.SessionID,
		&doc.FileName,
		&doc.StorageKey,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.PageCount,
		&doc.FileHash,
		&doc.Status,
		&warnings,
		&doc.ExpiresAt,
		&destroyedAt,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if warnings.Valid && warnings.String != "" {
		if err := json.Unmarshal([]byte(warnings.String), &doc.Warnings); err != nil {
			return Document{}, err
		}
	}
	if destroyedAt.Valid {
		t := destroyedAt.Time
		doc.DestroyedAt = &t
	}
	return doc, nil
}

func marshalWarnings(warnings []string) (any, error) {
	if len(warnings) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal(warnings)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}
