package documents

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileInfo describes the accepted file as reported back to the client.
type FileInfo struct {
	FileName  string `json:"fileName"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
	PageCount int    `json:"pageCount,omitempty"`
}

// ValidationResult is the outcome of upload validation. Validation has no
// side effects; warnings never block the upload.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	FileInfo FileInfo `json:"fileInfo"`
}

// Validator checks uploads against the configured size and type limits.
type Validator struct {
	MaxUploadBytes  int64
	SoftUploadBytes int64
}

var acceptedMimeTypes = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

var acceptedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// Validate checks a candidate upload. A file at exactly MaxUploadBytes is
// accepted; one byte over is rejected.
func (v Validator) Validate(fileName, mimeType string, sizeBytes int64, readable bool) ValidationResult {
	result := ValidationResult{
		FileInfo: FileInfo{
			FileName:  fileName,
			MimeType:  mimeType,
			SizeBytes: sizeBytes,
		},
	}

	if sizeBytes == 0 {
		result.Errors = append(result.Errors, "file is empty")
	}
	if v.MaxUploadBytes > 0 && sizeBytes > v.MaxUploadBytes {
		result.Errors = append(result.Errors, fmt.Sprintf("file exceeds the maximum size of %d bytes", v.MaxUploadBytes))
	}
	if !typeAccepted(fileName, mimeType) {
		result.Errors = append(result.Errors, "unsupported file type: only pdf, doc and docx are accepted")
	}
	if !readable {
		result.Errors = append(result.Errors, "file could not be read")
	}

	if len(result.Errors) == 0 && v.SoftUploadBytes > 0 && sizeBytes > v.SoftUploadBytes {
		result.Warnings = append(result.Warnings, "large file: analysis may take longer than usual")
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

func typeAccepted(fileName, mimeType string) bool {
	if _, ok := acceptedMimeTypes[strings.ToLower(strings.TrimSpace(mimeType))]; ok {
		return true
	}
	return acceptedExtensions[strings.ToLower(filepath.Ext(fileName))]
}
