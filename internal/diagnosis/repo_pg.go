package diagnosis

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

// Create inserts a new diagnosis.
func (r *PGRepo) Create(ctx context.Context, d Diagnosis) error {
	const query = `
INSERT INTO diagnoses (
	id, document_id, session_id, status, job_title_raw, job_title_canonical,
	title_confidence, job_description, application_count, prompt_version, model,
	created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.DB.ExecContext(ctx, query,
		d.ID,
		d.DocumentID,
		d.SessionID,
		d.Status,
		d.JobTitleRaw,
		d.JobTitleCanonical,
		d.TitleConfidence,
		d.JobDescription,
		d.ApplicationCount,
		d.PromptVersion,
		d.Model,
		d.CreatedAt,
		d.UpdatedAt,
	)
	return err
}

// GetByID returns a diagnosis by ID.
func (r *PGRepo) GetByID(ctx context.Context, diagnosisID string) (Diagnosis, error) {
	const query = `
SELECT id, document_id, session_id, status, job_title_raw, job_title_canonical,
       title_confidence, job_description, application_count, prompt_version, model,
       result, partial, error_code, error_message, duration_ms,
       created_at, updated_at, completed_at
FROM diagnoses
WHERE id = $1
LIMIT 1`
	var d Diagnosis
	var result sql.NullString
	var errorCode sql.NullString
	var errorMessage sql.NullString
	var durationMs sql.NullInt64
	var completedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, diagnosisID).Scan(
		&d.ID,
		&d.DocumentID,
		&d.SessionID,
		&d.Status,
		&d.JobTitleRaw,
		&d.JobTitleCanonical,
		&d.TitleConfidence,
		&d.JobDescription,
		&d.ApplicationCount,
		&d.PromptVersion,
		&d.Model,
		&result,
		&d.Partial,
		&errorCode,
		&errorMessage,
		&durationMs,
		&d.CreatedAt,
		&d.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Diagnosis{}, ErrNotFound
		}
		return Diagnosis{}, err
	}
	if errorCode.Valid {
		d.ErrorCode = errorCode.String
	}
	if errorMessage.Valid {
		d.ErrorMessage = errorMessage.String
	}
	if durationMs.Valid {
		d.DurationMs = durationMs.Int64
	}
	if completedAt.Valid {
		t := completedAt.Time
		d.CompletedAt = &t
	}
	if result.Valid && result.String != "" {
		if d.Partial {
			var partial PartialResults
			if err := json.Unmarshal([]byte(result.String), &partial); err != nil {
				return Diagnosis{}, err
			}
			d.PartialResults = &partial
		} else {
			var full DiagnosisResult
			if err := json.Unmarshal([]byte(result.String), &full); err != nil {
				return Diagnosis{}, err
			}
			d.Result = &full
		}
	}
	return d, nil
}

// UpdateStatus moves a diagnosis to a new status.
func (r *PGRepo) UpdateStatus(ctx context.Context, diagnosisID, status string) error {
	const query = `UPDATE diagnoses SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, diagnosisID, status)
	return err
}

// UpdateTitle records the canonical job title resolved for the diagnosis.
func (r *PGRepo) UpdateTitle(ctx context.Context, diagnosisID, canonical string, confidence int) error {
	const query = `UPDATE diagnoses SET job_title_canonical = $2, title_confidence = $3, updated_at = now() WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, diagnosisID, canonical, confidence)
	return err
}

// Complete stores the final result and marks the diagnosis completed.
func (r *PGRepo) Complete(ctx context.Context, diagnosisID string, result DiagnosisResult, durationMs int64) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	const query = `
UPDATE diagnoses
SET status = $2, result = $3, confidence = $4, partial = FALSE,
    error_code = NULL, error_message = NULL, duration_ms = $5,
    completed_at = $6, updated_at = $6
WHERE id = $1`
	_, err = r.DB.ExecContext(ctx, query, diagnosisID, StatusCompleted, string(payload), result.OverallConfidence, durationMs, time.Now().UTC())
	return err
}

// Fail records a terminal failure or timeout, with optional partial results.
func (r *PGRepo) Fail(ctx context.Context, diagnosisID, status, errorCode, errorMessage string, partial *PartialResults, durationMs int64) error {
	var payload any
	if partial != nil {
		raw, err := json.Marshal(partial)
		if err != nil {
			return err
		}
		payload = string(raw)
	}
	const query = `
UPDATE diagnoses
SET status = $2, result = $3, partial = $4, error_code = $5, error_message = $6,
    duration_ms = $7, completed_at = $8, updated_at = $8
WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, diagnosisID, status, payload, partial != nil, errorCode, errorMessage, durationMs, time.Now().UTC())
	return err
}

// DeleteByDocument clears results for every diagnosis of a document.
func (r *PGRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	const query = `
UPDATE diagnoses
SET status = $2, result = NULL, partial = FALSE, updated_at = now()
WHERE document_id = $1 AND status <> $2`
	_, err := r.DB.ExecContext(ctx, query, documentID, StatusDeleted)
	return err
}
