package documents

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"resume-diagnosis/internal/extract"
	"resume-diagnosis/internal/jobtitles"
	"resume-diagnosis/internal/shared/storage/object"
	"resume-diagnosis/internal/shared/util"
)

// Service contains business logic for documents.
type Service struct {
	Store      object.ObjectStore
	Repo       Repo
	Normalizer *jobtitles.Normalizer
	Validator  Validator
	Retention  time.Duration
}

// UploadInput is a candidate upload.
type UploadInput struct {
	SessionID      string
	FileName       string
	MimeType       string
	TargetJobTitle string
	Reader         io.Reader
}

// UploadOutput is what the upload boundary reports back.
type UploadOutput struct {
	Document   Document
	Validation ValidationResult
	TargetJob  *jobtitles.Result
}

// Upload validates the file, saves it to object storage and records the
// document. Validation failures return ErrInvalidInput with the
// ValidationResult populated so the handler can surface the reasons.
func (s *Service) Upload(ctx context.Context, input UploadInput) (UploadOutput, error) {
	if input.FileName == "" {
		return UploadOutput{}, ErrInvalidInput
	}

	var data []byte
	readable := input.Reader != nil
	if readable {
		var err error
		data, err = io.ReadAll(input.Reader)
		readable = err == nil
	}

	validation := s.Validator.Validate(input.FileName, input.MimeType, int64(len(data)), readable)
	if !validation.IsValid {
		return UploadOutput{Validation: validation}, ErrInvalidInput
	}

	pageCount := 0
	if extracted, err := extract.FromBytes(ctx, data, input.MimeType, input.FileName); err == nil {
		pageCount = extracted.PageCount
	} else if errors.Is(err, extract.ErrLegacyDoc) {
		validation.Warnings = append(validation.Warnings, "legacy .doc file: convert to .docx or pdf before analysis")
	} else {
		validation.Warnings = append(validation.Warnings, "could not inspect document contents")
	}
	validation.FileInfo.PageCount = pageCount

	storageKey, size, mimeType, err := s.Store.Save(ctx, input.SessionID, input.FileName, bytes.NewReader(data))
	if err != nil {
		return UploadOutput{Validation: validation}, err
	}
	validation.FileInfo.MimeType = mimeType
	validation.FileInfo.SizeBytes = size

	now := time.Now().UTC()
	doc := Document{
		ID:         uuid.NewString(),
		SessionID:  input.SessionID,
		FileName:   input.FileName,
		StorageKey: storageKey,
		MimeType:   mimeType,
		SizeBytes:  size,
		PageCount:  pageCount,
		FileHash:   util.HashBytes(data),
		Status:     StatusActive,
		Warnings:   validation.Warnings,
		ExpiresAt:  now.Add(s.Retention),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return UploadOutput{Validation: validation}, err
	}

	out := UploadOutput{Document: doc, Validation: validation}
	out.TargetJob = s.normalizeTarget(ctx, input.TargetJobTitle)
	return out, nil
}

// CreateFromS3 records a document that was uploaded through a presigned URL.
func (s *Service) CreateFromS3(ctx context.Context, sessionID, storageKey, fileName, contentType string, sizeBytes int64, targetJobTitle string) (UploadOutput, error) {
	validation := s.Validator.Validate(fileName, contentType, sizeBytes, true)
	if !validation.IsValid {
		return UploadOutput{Validation: validation}, ErrInvalidInput
	}

	now := time.Now().UTC()
	doc := Document{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		FileName:   fileName,
		StorageKey: storageKey,
		MimeType:   contentType,
		SizeBytes:  sizeBytes,
		Status:     StatusActive,
		Warnings:   validation.Warnings,
		ExpiresAt:  now.Add(s.Retention),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return UploadOutput{Validation: validation}, err
	}

	out := UploadOutput{Document: doc, Validation: validation}
	out.TargetJob = s.normalizeTarget(ctx, targetJobTitle)
	return out, nil
}

// Get returns a document owned by the session.
func (s *Service) Get(ctx context.Context, sessionID, documentID string) (Document, error) {
	if sessionID == "" || documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, sessionID, documentID)
}

// Delete destroys the stored payloads and marks the document deleted. The
// row keeps its non-sensitive metadata for audit.
func (s *Service) Delete(ctx context.Context, sessionID, documentID string) error {
	doc, err := s.Repo.GetByID(ctx, sessionID, documentID)
	if err != nil {
		if errors.Is(err, ErrGone) {
			return nil
		}
		return err
	}
	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, doc.ExtractedKey()); err != nil {
		return err
	}
	return s.Repo.MarkDeleted(ctx, documentID, time.Now().UTC())
}

// normalizeTarget resolves the target job title. Normalization problems are
// reported through the diagnosis flow, never as upload failures.
func (s *Service) normalizeTarget(ctx context.Context, raw string) *jobtitles.Result {
	if s.Normalizer == nil || raw == "" {
		return nil
	}
	result, err := s.Normalizer.Normalize(ctx, raw)
	if err != nil {
		return nil
	}
	return &result
}
