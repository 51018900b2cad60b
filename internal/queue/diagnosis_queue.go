package queue

import (
	"context"
	"time"

	"resume-diagnosis/internal/diagnosis"
)

// DiagnosisQueue adapts a queue Client to the diagnosis job-queue contract.
type DiagnosisQueue struct {
	Client Client
}

// EnqueueDiagnosis sends one diagnosis job to the queue.
func (q DiagnosisQueue) EnqueueDiagnosis(ctx context.Context, diagnosisID string) error {
	return q.Client.Send(ctx, Message{
		DiagnosisID: diagnosisID,
		RequestID:   diagnosis.RequestIDFromContext(ctx),
		EnqueuedAt:  time.Now().UTC().Format(time.RFC3339),
		Version:     1,
	})
}

var _ diagnosis.JobQueue = DiagnosisQueue{}
