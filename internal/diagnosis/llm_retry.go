package diagnosis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"strings"
	"time"

	"resume-diagnosis/internal/llm"
)

const llmRetryBaseDelay = 300 * time.Millisecond

// retryingLLM wraps the LLM client with a single retry on transient
// transport failures. Timeouts of the analysis context are not retried
// here; the pipeline abandons them.
type retryingLLM struct {
	base        llm.Client
	requestID   string
	diagnosisID string
}

func newRetryingLLM(base llm.Client, diagnosisID, requestID string) llm.Client {
	if base == nil {
		return nil
	}
	return retryingLLM{
		base:        base,
		requestID:   requestID,
		diagnosisID: diagnosisID,
	}
}

func (r retryingLLM) Diagnose(ctx context.Context, input llm.DiagnoseInput) (json.RawMessage, error) {
	resp, err := r.base.Diagnose(ctx, input)
	if err == nil || !shouldRetryLLM(err) {
		return resp, err
	}

	delay := llmRetryBaseDelay
	log.Printf("llm retry attempt=1 request_id=%s diagnosis_id=%s error=%s", r.requestID, r.diagnosisID, sanitizeError(err))
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return r.base.Diagnose(ctx, input)
}

func shouldRetryLLM(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status 5") || strings.Contains(msg, "server_error") {
		return true
	}
	if strings.Contains(msg, "timeout") && (strings.Contains(msg, "openai") || strings.Contains(msg, "llm") || strings.Contains(msg, "client.timeout")) {
		return true
	}
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection closed") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "eof") {
		return true
	}

	return false
}
