package diagnosis

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for local development and tests.
type MemoryRepo struct {
	mu        sync.RWMutex
	diagnoses map[string]Diagnosis
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{diagnoses: make(map[string]Diagnosis)}
}

// Create inserts a new diagnosis.
func (r *MemoryRepo) Create(ctx context.Context, d Diagnosis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diagnoses[d.ID] = d
	return nil
}

// GetByID returns a diagnosis by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, diagnosisID string) (Diagnosis, error) {
	if err := ctx.Err(); err != nil {
		return Diagnosis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.diagnoses[diagnosisID]
	if !ok {
		return Diagnosis{}, ErrNotFound
	}
	return d, nil
}

// UpdateStatus moves a diagnosis to a new status.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, diagnosisID, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.diagnoses[diagnosisID]
	if !ok {
		return ErrNotFound
	}
	d.Status = status
	d.UpdatedAt = time.Now().UTC()
	r.diagnoses[diagnosisID] = d
	return nil
}

// UpdateTitle records the canonical job title resolved for the diagnosis.
func (r *MemoryRepo) UpdateTitle(ctx context.Context, diagnosisID, canonical string, confidence int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.diagnoses[diagnosisID]
	if !ok {
		return ErrNotFound
	}
	d.JobTitleCanonical = canonical
	d.TitleConfidence = confidence
	d.UpdatedAt = time.Now().UTC()
	r.diagnoses[diagnosisID] = d
	return nil
}

// Complete stores the final result and marks the diagnosis completed.
func (r *MemoryRepo) Complete(ctx context.Context, diagnosisID string, result DiagnosisResult, durationMs int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.diagnoses[diagnosisID]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	resultCopy := result
	d.Status = StatusCompleted
	d.Result = &resultCopy
	d.PartialResults = nil
	d.Partial = false
	d.ErrorCode = ""
	d.ErrorMessage = ""
	d.DurationMs = durationMs
	d.CompletedAt = &now
	d.UpdatedAt = now
	r.diagnoses[diagnosisID] = d
	return nil
}

// Fail records a terminal failure or timeout, with optional partial results.
func (r *MemoryRepo) Fail(ctx context.Context, diagnosisID, status, errorCode, errorMessage string, partial *PartialResults, durationMs int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.diagnoses[diagnosisID]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	d.Status = status
	d.Result = nil
	d.PartialResults = partial
	d.Partial = partial != nil
	d.ErrorCode = errorCode
	d.ErrorMessage = errorMessage
	d.DurationMs = durationMs
	d.CompletedAt = &now
	d.UpdatedAt = now
	r.diagnoses[diagnosisID] = d
	return nil
}

// DeleteByDocument clears results for every diagnosis of a document.
func (r *MemoryRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for id, d := range r.diagnoses {
		if d.DocumentID != documentID || d.Status == StatusDeleted {
			continue
		}
		d.Status = StatusDeleted
		d.Result = nil
		d.PartialResults = nil
		d.Partial = false
		d.UpdatedAt = now
		r.diagnoses[id] = d
	}
	return nil
}
