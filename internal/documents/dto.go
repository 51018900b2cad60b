package documents

import (
	"time"

	"resume-diagnosis/internal/jobtitles"
)

// UploadResponse is the outward-facing result of an upload.
type UploadResponse struct {
	SessionID  string            `json:"sessionId"`
	DocumentID string            `json:"documentId"`
	FileInfo   FileInfo          `json:"fileInfo"`
	TargetJob  *jobtitles.Result `json:"targetJob,omitempty"`
	Warnings   []string          `json:"warnings,omitempty"`
	ExpiresAt  time.Time         `json:"expiresAt"`
}

func toUploadResponse(sessionID string, out UploadOutput) UploadResponse {
	return UploadResponse{
		SessionID:  sessionID,
		DocumentID: out.Document.ID,
		FileInfo:   out.Validation.FileInfo,
		TargetJob:  out.TargetJob,
		Warnings:   out.Validation.Warnings,
		ExpiresAt:  out.Document.ExpiresAt,
	}
}

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID string    `json:"documentId"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	PageCount  int       `json:"pageCount,omitempty"`
	Warnings   []string  `json:"warnings,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID: doc.ID,
		FileName:   doc.FileName,
		MimeType:   doc.MimeType,
		SizeBytes:  doc.SizeBytes,
		PageCount:  doc.PageCount,
		Warnings:   doc.Warnings,
		UploadedAt: doc.CreatedAt,
		ExpiresAt:  doc.ExpiresAt,
	}
}
