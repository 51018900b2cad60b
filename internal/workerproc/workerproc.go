package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"resume-diagnosis/internal/diagnosis"
	"resume-diagnosis/internal/queue"
	"resume-diagnosis/internal/shared/metrics"
)

// Processor runs the diagnosis pipeline for one job.
type Processor interface {
	Process(ctx context.Context, diagnosisID string)
}

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{BodyLen: 0, BodySHA: ""}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrMissingDiagnosisID indicates a message missing the diagnosis id.
type ErrMissingDiagnosisID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingDiagnosisID) Error() string { return "missing diagnosis id" }

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.DiagnosisID) == "" {
		return msg, meta, ErrMissingDiagnosisID{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

// HandleMessage parses, validates, and processes a message payload.
func HandleMessage(ctx context.Context, processor Processor, body string) error {
	if processor == nil {
		return errors.New("diagnosis service not configured")
	}

	msg, _, err := ParseMessage(body)
	if err != nil {
		return err
	}

	metrics.IncDiagnosisJobsReceived()
	processor.Process(diagnosis.WithRequestID(ctx, msg.RequestID), msg.DiagnosisID)
	return nil
}
