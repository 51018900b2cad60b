package documents

import (
	"context"
	"time"
)

// Repo defines persistence operations for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, sessionID, documentID string) (Document, error)
	MarkDeleted(ctx context.Context, documentID string, destroyedAt time.Time) error
	// ClaimExpired atomically flips expired rows to deleted and returns
	// them so the caller can destroy the stored payloads. Safe to run
	// from concurrent sweepers.
	ClaimExpired(ctx context.Context, now time.Time, limit int) ([]Document, error)
}
