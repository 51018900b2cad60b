package diagnosis

import "context"

// Repo defines persistence operations for diagnoses.
type Repo interface {
	Create(ctx context.Context, d Diagnosis) error
	GetByID(ctx context.Context, diagnosisID string) (Diagnosis, error)
	UpdateStatus(ctx context.Context, diagnosisID, status string) error
	UpdateTitle(ctx context.Context, diagnosisID, canonical string, confidence int) error
	Complete(ctx context.Context, diagnosisID string, result DiagnosisResult, durationMs int64) error
	Fail(ctx context.Context, diagnosisID, status, errorCode, errorMessage string, partial *PartialResults, durationMs int64) error
	// DeleteByDocument clears results for every diagnosis of a destroyed
	// document. Rows keep their non-sensitive metadata.
	DeleteByDocument(ctx context.Context, documentID string) error
}
