package documents

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-diagnosis/internal/jobtitles"
	"resume-diagnosis/internal/shared/server/middleware"
	"resume-diagnosis/internal/shared/storage/object/local"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := &Service{
		Store:      local.New(t.TempDir()),
		Repo:       NewMemoryRepo(),
		Normalizer: jobtitles.NewNormalizer(jobtitles.NewMemoryRepo()),
		Validator:  Validator{MaxUploadBytes: 10 * 3 << 19, SoftUploadBytes: 2 << 20},
		Retention:  24 * time.Hour,
	}

	r := gin.New()
	r.Use(middleware.Session())
	api := r.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return r, svc
}

func multipartUpload(t *testing.T, fileName, targetTitle string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if targetTitle != "" {
		if err := writer.WriteField("targetJobTitle", targetTitle); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadReturnsFileInfoAndTargetJob(t *testing.T) {
	router, _ := newTestRouter(t)

	body, contentType := multipartUpload(t, "resume.pdf", "swe", []byte("not really a pdf but stored anyway"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Session-Id", "sess-upload")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp UploadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.DocumentID == "" {
		t.Fatalf("expected a document id")
	}
	if resp.SessionID != "sess-upload" {
		t.Fatalf("unexpected session id %q", resp.SessionID)
	}
	if resp.FileInfo.FileName != "resume.pdf" {
		t.Fatalf("unexpected file info: %+v", resp.FileInfo)
	}
	if resp.TargetJob == nil || resp.TargetJob.CanonicalTitle == nil || resp.TargetJob.CanonicalTitle.Title != "Software Engineer" {
		t.Fatalf("expected swe to normalize to Software Engineer, got %+v", resp.TargetJob)
	}
	if resp.ExpiresAt.Before(time.Now().Add(23 * time.Hour)) {
		t.Fatalf("expected ~24h retention, got %v", resp.ExpiresAt)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	router, _ := newTestRouter(t)

	body, contentType := multipartUpload(t, "resume.txt", "", []byte("plain text"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Session-Id", "sess-upload")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "VALIDATION_ERROR") {
		t.Fatalf("expected VALIDATION_ERROR body, got %s", w.Body.String())
	}
}

func TestDeleteDestroysPayloadAndKeepsMetadata(t *testing.T) {
	router, _ := newTestRouter(t)

	body, contentType := multipartUpload(t, "resume.pdf", "", []byte("payload"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Session-Id", "sess-delete")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload failed: %d %s", w.Code, w.Body.String())
	}
	var resp UploadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	del := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+resp.DocumentID, nil)
	del.Header.Set("X-Session-Id", "sess-delete")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, del)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	get := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+resp.DocumentID, nil)
	get.Header.Set("X-Session-Id", "sess-delete")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, get)
	if w.Code != http.StatusGone {
		t.Fatalf("expected 410 for deleted document, got %d", w.Code)
	}

	// Deleting again is a no-op.
	del = httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+resp.DocumentID, nil)
	del.Header.Set("X-Session-Id", "sess-delete")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, del)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected idempotent delete, got %d", w.Code)
	}
}

func TestGetRequiresOwningSession(t *testing.T) {
	router, _ := newTestRouter(t)

	body, contentType := multipartUpload(t, "resume.pdf", "", []byte("payload"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Session-Id", "sess-owner")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var resp UploadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	get := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+resp.DocumentID, nil)
	get.Header.Set("X-Session-Id", "sess-other")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, get)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign session, got %d", w.Code)
	}
}
