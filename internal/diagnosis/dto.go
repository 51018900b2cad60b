package diagnosis

import "time"

// ErrorInfo is the stored failure surfaced to clients.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Response is the outward-facing representation of a diagnosis.
type Response struct {
	DiagnosisID       string           `json:"diagnosisId"`
	DocumentID        string           `json:"documentId"`
	Status            string           `json:"status"`
	TargetJobTitle    string           `json:"targetJobTitle"`
	CanonicalJobTitle string           `json:"canonicalJobTitle,omitempty"`
	Result            *DiagnosisResult `json:"result,omitempty"`
	Error             *ErrorInfo       `json:"error,omitempty"`
	PartialResults    *PartialResults  `json:"partialResults,omitempty"`
	DurationMs        int64            `json:"durationMs,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	CompletedAt       *time.Time       `json:"completedAt,omitempty"`
}

func toResponse(d Diagnosis) Response {
	resp := Response{
		DiagnosisID:       d.ID,
		DocumentID:        d.DocumentID,
		Status:            d.Status,
		TargetJobTitle:    d.JobTitleRaw,
		CanonicalJobTitle: d.JobTitleCanonical,
		Result:            d.Result,
		PartialResults:    d.PartialResults,
		DurationMs:        d.DurationMs,
		CreatedAt:         d.CreatedAt,
		CompletedAt:       d.CompletedAt,
	}
	if d.ErrorCode != "" {
		resp.Error = &ErrorInfo{Code: d.ErrorCode, Message: d.ErrorMessage}
	}
	return resp
}
