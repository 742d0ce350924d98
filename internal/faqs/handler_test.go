package faqs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"faq-backend/internal/extract"
	"faq-backend/internal/shared/storage/upload"
)

func newTestRouter(t *testing.T, repo Repo, client *stubLLM) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	store := upload.New(t.TempDir())
	svc := &Service{
		Repo:      repo,
		Uploads:   store,
		Extractor: extract.New(5 * time.Second),
		LLM:       client,
		Retention: time.Hour,
	}

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func multipartRequest(t *testing.T, target string, fields map[string]string, fileName string, fileBody []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(%s): %v", k, err)
		}
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write(fileBody); err != nil {
			t.Fatalf("file write: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("multipart close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestSubmitEndpointFullFlow(t *testing.T) {
	repo := NewMemoryRepo()
	canned := "1. س: كم يبلغ السعر؟\n   ج: عشرة دولارات."
	client := &stubLLM{reply: canned}
	r := newTestRouter(t, repo, client)

	doc := buildDOCX(t, "Q: price?", "A: $10")
	req := multipartRequest(t, "/api/v1/process-faq", map[string]string{
		"user_id":          "12",
		"questions_number": "3",
		"custom_questions": "هل يوجد خصم؟",
	}, "pricing.docx", doc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w.Body)
	if body["questions_and_answers"] != canned {
		t.Fatalf("unexpected payload: %v", body)
	}
	recordID, ok := body["record_id"].(float64)
	if !ok || recordID <= 0 {
		t.Fatalf("expected a record id, got %v", body["record_id"])
	}

	// The prompt carries the requested count and the custom questions.
	prompt := client.prompts[0]
	if !strings.Contains(prompt, "3") || !strings.Contains(prompt, "هل يوجد خصم؟") {
		t.Fatalf("prompt missing request fields:\n%s", prompt)
	}

	stored, err := repo.GetByID(context.Background(), int64(recordID))
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Result != canned {
		t.Fatalf("row result mismatch: %q", stored.Result)
	}
	if stored.UserID != 12 || stored.QuestionCount != 3 {
		t.Fatalf("row fields mismatch: %+v", stored)
	}
}

func TestSubmitEndpointRequiresUserID(t *testing.T) {
	r := newTestRouter(t, NewMemoryRepo(), &stubLLM{})

	req := multipartRequest(t, "/api/v1/process-faq", map[string]string{"url": "https://example.com"}, "", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
}

func TestSubmitEndpointNoInput(t *testing.T) {
	repo := NewMemoryRepo()
	r := newTestRouter(t, repo, &stubLLM{})

	req := multipartRequest(t, "/api/v1/process-faq", map[string]string{"user_id": "1"}, "", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w.Body)
	errObj, _ := body["error"].(map[string]any)
	if errObj["code"] != "input_required" {
		t.Fatalf("unexpected error payload: %v", body)
	}
	if repo.Len() != 0 {
		t.Fatalf("no row should be created for a rejected request")
	}
}

func TestSubmitEndpointUnsupportedType(t *testing.T) {
	r := newTestRouter(t, NewMemoryRepo(), &stubLLM{})

	req := multipartRequest(t, "/api/v1/process-faq", map[string]string{"user_id": "1"}, "notes.txt", []byte("plain"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w.Body)
	errObj, _ := body["error"].(map[string]any)
	if errObj["code"] != "unsupported_type" {
		t.Fatalf("unexpected error payload: %v", body)
	}
}

func TestSubmitEndpointSurfacesUpstreamFailure(t *testing.T) {
	repo := NewMemoryRepo()
	client := &stubLLM{err: errors.New("provider exploded: rate limited")}
	r := newTestRouter(t, repo, client)

	doc := buildDOCX(t, "some content")
	req := multipartRequest(t, "/api/v1/process-faq", map[string]string{"user_id": "1"}, "doc.docx", doc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w.Body)
	errObj, _ := body["error"].(map[string]any)
	if errObj["code"] != "internal_error" {
		t.Fatalf("unexpected error payload: %v", body)
	}
	// The provider failure detail rides in the details field so operators can
	// see what actually broke.
	details, _ := errObj["details"].(string)
	if !strings.Contains(details, "rate limited") {
		t.Fatalf("details missing the upstream error: %v", body)
	}
	if repo.Len() != 0 {
		t.Fatalf("a failed generation must not create a row")
	}
}

func TestGenerateEndpointDoesNotPersist(t *testing.T) {
	repo := NewMemoryRepo()
	r := newTestRouter(t, repo, &stubLLM{reply: "preview answers"})

	doc := buildDOCX(t, "content for preview")
	req := multipartRequest(t, "/api/v1/generate-FAQ/7", nil, "doc.docx", doc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w.Body)
	if body["questions_and_answers"] != "preview answers" {
		t.Fatalf("unexpected payload: %v", body)
	}
	if _, present := body["record_id"]; present {
		t.Fatalf("generate must not return a record id")
	}
	if repo.Len() != 0 {
		t.Fatalf("generate must not persist, got %d rows", repo.Len())
	}
}

func TestProcessByIDEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>page body text</body></html>"))
	}))
	t.Cleanup(srv.Close)

	repo := NewMemoryRepo()
	r := newTestRouter(t, repo, &stubLLM{reply: "regenerated"})

	id, err := repo.Insert(context.Background(), Request{UserID: 2, URL: srv.URL})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/process-faq/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w.Body)
	if body["questions_and_answers"] != "regenerated" {
		t.Fatalf("unexpected payload: %v", body)
	}

	stored, _ := repo.GetByID(context.Background(), id)
	if stored.Result != "regenerated" {
		t.Fatalf("row not updated: %q", stored.Result)
	}
}

func TestProcessByIDEndpointNotFound(t *testing.T) {
	r := newTestRouter(t, NewMemoryRepo(), &stubLLM{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/process-faq/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w.Body)
	errObj, _ := body["error"].(map[string]any)
	if errObj["message"] != "no data found for this id" {
		t.Fatalf("unexpected error payload: %v", body)
	}
}

func TestProcessByIDEndpointInvalidID(t *testing.T) {
	r := newTestRouter(t, NewMemoryRepo(), &stubLLM{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/process-faq/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
}
