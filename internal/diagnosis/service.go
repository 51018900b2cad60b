package diagnosis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-diagnosis/internal/anonymize"
	"resume-diagnosis/internal/documents"
	"resume-diagnosis/internal/extract"
	"resume-diagnosis/internal/jobtitles"
	"resume-diagnosis/internal/llm"
	"resume-diagnosis/internal/sections"
	"resume-diagnosis/internal/shared/metrics"
	"resume-diagnosis/internal/shared/storage/object"
	"resume-diagnosis/internal/shared/telemetry"
)

const (
	defaultAnalysisTimeout = 60 * time.Second
	defaultPipelineTimeout = 120 * time.Second

	failureUpdateTimeout = 5 * time.Second
)

// JobQueue hands a diagnosis off to an out-of-process worker.
type JobQueue interface {
	EnqueueDiagnosis(ctx context.Context, diagnosisID string) error
}

// Service runs the diagnosis pipeline.
type Service struct {
	Repo       Repo
	Docs       documents.Repo
	Store      object.ObjectStore
	LLM        llm.Client
	Normalizer *jobtitles.Normalizer
	Queue      JobQueue

	PromptVersion   string
	Model           string
	AnalysisTimeout time.Duration
	PipelineTimeout time.Duration
}

// StartInput is a request to diagnose a document.
type StartInput struct {
	SessionID        string
	DocumentID       string
	TargetJobTitle   string
	JobDescription   string
	ApplicationCount int
}

// Start records a pending diagnosis and kicks off processing, either on the
// job queue or on an in-process goroutine.
func (s *Service) Start(ctx context.Context, in StartInput) (Diagnosis, error) {
	if strings.TrimSpace(in.TargetJobTitle) == "" {
		return Diagnosis{}, ErrInvalidInput
	}

	doc, err := s.Docs.GetByID(ctx, in.SessionID, in.DocumentID)
	if err != nil {
		return Diagnosis{}, err
	}

	now := time.Now().UTC()
	d := Diagnosis{
		ID:               uuid.NewString(),
		DocumentID:       doc.ID,
		SessionID:        in.SessionID,
		Status:           StatusPending,
		JobTitleRaw:      strings.TrimSpace(in.TargetJobTitle),
		JobDescription:   strings.TrimSpace(in.JobDescription),
		ApplicationCount: in.ApplicationCount,
		PromptVersion:    s.PromptVersion,
		Model:            s.Model,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Repo.Create(ctx, d); err != nil {
		return Diagnosis{}, err
	}

	if s.Queue != nil {
		if err := s.Queue.EnqueueDiagnosis(ctx, d.ID); err == nil {
			return d, nil
		} else {
			telemetry.Warn("diagnosis enqueue failed, falling back to in-process", map[string]any{
				"diagnosis_id": d.ID,
				"error":        sanitizeError(err),
			})
		}
	}

	go s.Process(backgroundWithRequestID(ctx), d.ID)
	return d, nil
}

// Get returns a diagnosis owned by the session.
func (s *Service) Get(ctx context.Context, sessionID, diagnosisID string) (Diagnosis, error) {
	d, err := s.Repo.GetByID(ctx, diagnosisID)
	if err != nil {
		return Diagnosis{}, err
	}
	if d.SessionID != sessionID {
		return Diagnosis{}, ErrNotFound
	}
	return d, nil
}

// Process runs the full pipeline for one diagnosis. Called from the Start
// goroutine or from the queue worker; safe to call again on redelivery.
func (s *Service) Process(ctx context.Context, diagnosisID string) {
	start := time.Now()
	requestID := requestIDFromContext(ctx)

	pipelineTimeout := s.PipelineTimeout
	if pipelineTimeout <= 0 {
		pipelineTimeout = defaultPipelineTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, pipelineTimeout)
	defer cancel()

	d, err := s.Repo.GetByID(ctx, diagnosisID)
	if err != nil {
		telemetry.Error("diagnosis load failed", map[string]any{
			"request_id":   requestID,
			"diagnosis_id": diagnosisID,
			"error":        sanitizeError(err),
		})
		return
	}
	if d.Status != StatusPending {
		// Queue redelivery of an in-flight or finished job.
		return
	}

	metrics.IncDiagnosisStarted()
	s.transition(ctx, &d, StatusProcessing, requestID)

	// A missing model is an operator problem, not something the caller
	// can correct; classify it as a processing failure.
	if s.LLM == nil {
		s.fail(d, requestID, StatusFailed, ErrorCodeProcessing, ErrNotConfigured.Error(), nil, start)
		return
	}

	doc, err := s.Docs.GetByID(ctx, d.SessionID, d.DocumentID)
	if err != nil {
		code, msg := classifyFailure(err)
		s.fail(d, requestID, StatusFailed, code, msg, nil, start)
		return
	}

	extracted, err := extract.Text(ctx, s.Store, doc.StorageKey, doc.MimeType, doc.FileName)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.fail(d, requestID, StatusTimeout, ErrorCodeLLMTimeout, "diagnosis timed out", nil, start)
			return
		}
		code, msg := classifyFailure(err)
		s.fail(d, requestID, StatusFailed, code, msg, nil, start)
		return
	}

	secs, err := sections.Extract(extracted.Text)
	if err != nil {
		s.fail(d, requestID, StatusFailed, ErrorCodeProcessing, "failed to extract text from document", nil, start)
		return
	}

	partial := &PartialResults{
		SectionTitles:        secs.Titles(),
		SectionCount:         len(secs.Sections),
		ExtractionConfidence: secs.Confidence,
		Warnings:             secs.Warnings,
	}

	s.transition(ctx, &d, StatusAnalyzing, requestID)

	scrubbed := anonymize.Scrub(extracted.Text)

	targetRole := d.JobTitleRaw
	var template jobtitles.RoleTemplate
	if s.Normalizer != nil {
		if norm, err := s.Normalizer.Normalize(ctx, d.JobTitleRaw); err == nil && norm.CanonicalTitle != nil {
			targetRole = norm.CanonicalTitle.Title
			d.JobTitleCanonical = targetRole
			d.TitleConfidence = norm.Confidence
			if err := s.Repo.UpdateTitle(ctx, d.ID, targetRole, norm.Confidence); err != nil {
				telemetry.Warn("diagnosis title update failed", map[string]any{
					"request_id":   requestID,
					"diagnosis_id": d.ID,
					"error":        sanitizeError(err),
				})
			}
			if tpl, err := s.Normalizer.Template(ctx, targetRole); err == nil {
				template = tpl
			}
		}
	}

	input := llm.DiagnoseInput{
		ResumeText:       scrubbed,
		SectionTitles:    secs.Titles(),
		TargetRole:       targetRole,
		RequiredSkills:   template.RequiredSkills,
		PreferredSkills:  template.PreferredSkills,
		RequiredKeywords: template.RequiredKeywords,
		ATSKeywords:      template.ATSKeywords,
		JobDescription:   d.JobDescription,
		ApplicationCount: d.ApplicationCount,
		PromptVersion:    d.PromptVersion,
	}

	analysisTimeout := s.AnalysisTimeout
	if analysisTimeout <= 0 {
		analysisTimeout = defaultAnalysisTimeout
	}
	analysisCtx, cancelAnalysis := context.WithTimeout(ctx, analysisTimeout)
	defer cancelAnalysis()

	client := newRetryingLLM(s.LLM, d.ID, requestID)

	raw, err := client.Diagnose(analysisCtx, input)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || analysisCtx.Err() != nil {
			s.fail(d, requestID, StatusTimeout, ErrorCodeLLMTimeout, "analysis timed out", partial, start)
			return
		}
		code, msg := classifyFailure(err)
		s.fail(d, requestID, StatusFailed, code, msg, partial, start)
		return
	}

	result, enforceErr := EnforceSchema(raw, scrubbed)
	if enforceErr != nil {
		// One repair round trip before giving up on the payload.
		raw, err = client.Diagnose(llm.WithFixJSON(analysisCtx, string(raw)), input)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || analysisCtx.Err() != nil {
				s.fail(d, requestID, StatusTimeout, ErrorCodeLLMTimeout, "analysis timed out", partial, start)
				return
			}
			code, msg := classifyFailure(err)
			s.fail(d, requestID, StatusFailed, code, msg, partial, start)
			return
		}
		result, enforceErr = EnforceSchema(raw, scrubbed)
		if enforceErr != nil {
			s.fail(d, requestID, StatusFailed, ErrorCodeProcessing, "failed to parse analysis output", partial, start)
			return
		}
	}

	Correlate(&result, CompletenessInput{
		ExtractionConfidence: secs.Confidence,
		HasJobDescription:    d.JobDescription != "",
		HasExperience:        secs.HasExperience(),
	})

	elapsed := durationMs(start)
	if err := s.Repo.Complete(ctx, d.ID, result, elapsed); err != nil {
		telemetry.Error("diagnosis result update failed", map[string]any{
			"request_id":   requestID,
			"diagnosis_id": d.ID,
			"error":        sanitizeError(err),
		})
		return
	}

	metrics.IncDiagnosisCompleted()
	metrics.ObserveDiagnosisDurationMs(float64(elapsed))
	telemetry.Info("diagnosis status", map[string]any{
		"request_id":        requestID,
		"diagnosis_id":      d.ID,
		"document_id":       d.DocumentID,
		"session_id":        d.SessionID,
		"status_transition": d.Status + "->" + StatusCompleted,
		"duration_ms":       elapsed,
	})
}

func (s *Service) transition(ctx context.Context, d *Diagnosis, status, requestID string) {
	from := d.Status
	if err := s.Repo.UpdateStatus(ctx, d.ID, status); err != nil {
		telemetry.Error("diagnosis status update failed", map[string]any{
			"request_id":   requestID,
			"diagnosis_id": d.ID,
			"error":        sanitizeError(err),
		})
	}
	d.Status = status
	telemetry.Info("diagnosis status", map[string]any{
		"request_id":        requestID,
		"diagnosis_id":      d.ID,
		"document_id":       d.DocumentID,
		"session_id":        d.SessionID,
		"status_transition": from + "->" + status,
	})
}

// fail records a terminal failure. The update runs on a fresh context so a
// dead pipeline context cannot block the status write.
func (s *Service) fail(d Diagnosis, requestID, status, code, message string, partial *PartialResults, start time.Time) {
	updateCtx, cancel := context.WithTimeout(context.Background(), failureUpdateTimeout)
	defer cancel()

	elapsed := durationMs(start)
	if err := s.Repo.Fail(updateCtx, d.ID, status, code, message, partial, elapsed); err != nil {
		telemetry.Error("diagnosis failure update failed", map[string]any{
			"request_id":   requestID,
			"diagnosis_id": d.ID,
			"error":        sanitizeError(err),
		})
	}

	if status == StatusTimeout {
		metrics.IncDiagnosisTimeout()
	} else {
		metrics.IncDiagnosisFailed()
	}
	telemetry.Error("diagnosis failed", map[string]any{
		"request_id":        requestID,
		"diagnosis_id":      d.ID,
		"document_id":       d.DocumentID,
		"session_id":        d.SessionID,
		"status_transition": d.Status + "->" + status,
		"error_code":        code,
		"error":             message,
		"duration_ms":       elapsed,
	})
}

// classifyFailure maps pipeline errors to the stored error code and a
// client-safe message.
func classifyFailure(err error) (string, string) {
	if err == nil {
		return ErrorCodeInternal, "unknown error"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorCodeLLMTimeout, "analysis timed out"
	}
	if errors.Is(err, documents.ErrNotFound) || errors.Is(err, documents.ErrGone) {
		return ErrorCodeValidation, "document is no longer available"
	}
	if errors.Is(err, extract.ErrLegacyDoc) {
		return ErrorCodeProcessing, "legacy .doc files must be converted to .docx or pdf"
	}
	if errors.Is(err, sections.ErrUnusableText) {
		return ErrorCodeProcessing, "failed to extract text from document"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not configured"):
		return ErrorCodeProcessing, ErrNotConfigured.Error()
	case strings.Contains(msg, "invalid json"):
		return ErrorCodeLLMSchemaMismatch, "model returned malformed output"
	case strings.Contains(msg, "extract text"):
		return ErrorCodeProcessing, "failed to extract text from document"
	case strings.Contains(msg, "no such file") ||
		strings.Contains(msg, "nosuchkey") ||
		strings.Contains(msg, "access denied") ||
		strings.Contains(msg, "storage"):
		return ErrorCodeStorage, "failed to load document from storage"
	case strings.Contains(msg, "openai") || strings.Contains(msg, "llm"):
		return ErrorCodeInternal, "analysis service error"
	}
	return ErrorCodeInternal, sanitizeError(err)
}

// sanitizeError caps message size so provider payloads never bloat rows or logs.
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if len(msg) > 500 {
		msg = msg[:500]
	}
	return msg
}

func durationMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
