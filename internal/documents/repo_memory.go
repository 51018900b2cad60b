package documents

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for local development and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]Document)}
}

// Create inserts a new document.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
	return nil
}

// GetByID returns a document owned by the session.
func (r *MemoryRepo) GetByID(ctx context.Context, sessionID, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[documentID]
	if !ok || doc.SessionID != sessionID {
		return Document{}, ErrNotFound
	}
	if doc.Status == StatusDeleted {
		return Document{}, ErrGone
	}
	return doc, nil
}

// MarkDeleted flips a document to deleted.
func (r *MemoryRepo) MarkDeleted(ctx context.Context, documentID string, destroyedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[documentID]
	if !ok || doc.Status == StatusDeleted {
		return nil
	}
	t := destroyedAt
	doc.Status = StatusDeleted
	doc.DestroyedAt = &t
	doc.UpdatedAt = destroyedAt
	r.docs[documentID] = doc
	return nil
}

// ClaimExpired marks expired documents deleted and returns the claimed rows.
func (r *MemoryRepo) ClaimExpired(ctx context.Context, now time.Time, limit int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []Document
	for _, doc := range r.docs {
		if doc.Status != StatusDeleted && doc.ExpiresAt.Before(now) {
			expired = append(expired, doc)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].ExpiresAt.Before(expired[j].ExpiresAt) })
	if limit > 0 && len(expired) > limit {
		expired = expired[:limit]
	}

	claimed := make([]Document, 0, len(expired))
	for _, doc := range expired {
		t := now
		doc.Status = StatusDeleted
		doc.DestroyedAt = &t
		doc.UpdatedAt = now
		r.docs[doc.ID] = doc
		claimed = append(claimed, doc)
	}
	return claimed, nil
}
