package workerproc

import (
	"context"
	"errors"
	"testing"

	"resume-diagnosis/internal/diagnosis"
)

type recordingProcessor struct {
	ids        []string
	requestIDs []string
}

func (p *recordingProcessor) Process(ctx context.Context, diagnosisID string) {
	p.ids = append(p.ids, diagnosisID)
	p.requestIDs = append(p.requestIDs, diagnosis.RequestIDFromContext(ctx))
}

func TestHandleMessageProcessesJob(t *testing.T) {
	proc := &recordingProcessor{}
	body := `{"diagnosisId":"diag-1","requestId":"req-9","enqueuedAt":"2026-08-30T12:00:00Z","version":1}`

	if err := HandleMessage(context.Background(), proc, body); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(proc.ids) != 1 || proc.ids[0] != "diag-1" {
		t.Fatalf("unexpected processed ids: %v", proc.ids)
	}
	if proc.requestIDs[0] != "req-9" {
		t.Fatalf("request id not propagated, got %q", proc.requestIDs[0])
	}
}

func TestHandleMessageEmptyBody(t *testing.T) {
	proc := &recordingProcessor{}
	err := HandleMessage(context.Background(), proc, "   ")
	var empty ErrEmptyBody
	if !errors.As(err, &empty) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
}

func TestHandleMessageMissingDiagnosisID(t *testing.T) {
	proc := &recordingProcessor{}
	err := HandleMessage(context.Background(), proc, `{"requestId":"req-1"}`)
	var missing ErrMissingDiagnosisID
	if !errors.As(err, &missing) {
		t.Fatalf("expected ErrMissingDiagnosisID, got %v", err)
	}
	if missing.RequestID != "req-1" {
		t.Fatalf("expected request id carried on the error, got %q", missing.RequestID)
	}
	if len(proc.ids) != 0 {
		t.Fatalf("invalid message must not be processed")
	}
}

func TestParseMessageDecodeError(t *testing.T) {
	_, meta, err := ParseMessage("not json")
	var decode ErrDecode
	if !errors.As(err, &decode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if meta.BodyLen != len("not json") || meta.BodySHA == "" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}
