package diagnosis

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrJobQueueNotConfigured = errors.New("job queue not configured")
	ErrNotConfigured         = errors.New("AI analysis service is not configured")
)

const (
	ErrorCodeValidation        = "VALIDATION_ERROR"
	ErrorCodeProcessing        = "PROCESSING_ERROR"
	ErrorCodeLLMTimeout        = "LLM_TIMEOUT"
	ErrorCodeLLMSchemaMismatch = "LLM_SCHEMA_MISMATCH"
	ErrorCodeStorage           = "STORAGE_ERROR"
	ErrorCodeInternal          = "INTERNAL_ERROR"
)
