package diagnosis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-diagnosis/internal/llm"
	"resume-diagnosis/internal/shared/server/middleware"
)

func newHandlerFixture(t *testing.T) (*gin.Engine, *fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client := &fakeLLM{fn: func(ctx context.Context, input llm.DiagnoseInput) (json.RawMessage, error) {
		return json.RawMessage(validDiagnosisJSON), nil
	}}
	f := newFixture(t, client)

	r := gin.New()
	r.Use(middleware.Session())
	api := r.Group("/api/v1")
	NewHandler(f.svc).RegisterRoutes(api)
	return r, f
}

func TestDiagnoseEndpointAcceptsAndCompletes(t *testing.T) {
	router, f := newHandlerFixture(t)

	body := `{"targetJobTitle":"swe","jobDescription":"Go services","applicationCount":25}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+f.document.ID+"/diagnose", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", "sess-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var accepted Response
	if err := json.Unmarshal(w.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if accepted.DiagnosisID == "" {
		t.Fatalf("expected a diagnosis id")
	}

	// The test queue processes inline, so the poll already sees the result.
	get := httptest.NewRequest(http.MethodGet, "/api/v1/diagnoses/"+accepted.DiagnosisID, nil)
	get.Header.Set("X-Session-Id", "sess-1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, get)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", resp.Status)
	}
	if resp.Result == nil || len(resp.Result.RootCauses) == 0 {
		t.Fatalf("expected a result with root causes")
	}
	if resp.Error != nil {
		t.Fatalf("completed diagnosis must not carry an error")
	}
}

func TestDiagnoseEndpointRequiresTargetTitle(t *testing.T) {
	router, f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+f.document.ID+"/diagnose", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", "sess-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "targetJobTitle") {
		t.Fatalf("expected targetJobTitle message, got %s", w.Body.String())
	}
}

func TestDiagnoseEndpointUnknownDocument(t *testing.T) {
	router, _ := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/missing/diagnose", strings.NewReader(`{"targetJobTitle":"Software Engineer"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", "sess-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetDiagnosisForeignSession(t *testing.T) {
	router, f := newHandlerFixture(t)

	body := `{"targetJobTitle":"Software Engineer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+f.document.ID+"/diagnose", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", "sess-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var accepted Response
	if err := json.Unmarshal(w.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	get := httptest.NewRequest(http.MethodGet, "/api/v1/diagnoses/"+accepted.DiagnosisID, nil)
	get.Header.Set("X-Session-Id", "sess-other")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, get)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign session, got %d", w.Code)
	}
}

func TestGetDiagnosisFailureShape(t *testing.T) {
	router, f := newHandlerFixture(t)
	f.svc.LLM = &fakeLLM{fn: func(ctx context.Context, input llm.DiagnoseInput) (json.RawMessage, error) {
		return json.RawMessage("still not json"), nil
	}}

	body := `{"targetJobTitle":"Software Engineer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+f.document.ID+"/diagnose", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", "sess-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var accepted Response
	if err := json.Unmarshal(w.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	get := httptest.NewRequest(http.MethodGet, "/api/v1/diagnoses/"+accepted.DiagnosisID, nil)
	get.Header.Set("X-Session-Id", "sess-1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, get)

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", resp.Status)
	}
	if resp.Error == nil || resp.Error.Code != ErrorCodeProcessing {
		t.Fatalf("expected PROCESSING_ERROR, got %+v", resp.Error)
	}
	if resp.PartialResults == nil {
		t.Fatalf("expected partial results on failure")
	}
	if resp.Result != nil {
		t.Fatalf("failed diagnosis must not carry a full result")
	}
}
