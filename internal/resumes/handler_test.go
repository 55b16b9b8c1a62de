package resumes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/storage/object/local"
)

func newTestRouter(t *testing.T, guest bool) (*gin.Engine, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	svc := &Service{
		Store:           local.New(t.TempDir()),
		Repo:            repo,
		StorageProvider: "local",
	}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Set("isGuest", guest)
		c.Next()
	})
	api := router.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return router, repo
}

func uploadFile(t *testing.T, router *gin.Engine, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestUploadResume(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, _ := newTestRouter(t, false)

	resp := uploadFile(t, router, "resume.pdf", []byte("%PDF-1.4\nminimal"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", resp.Code, resp.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["resumeId"] == nil || body["resumeId"] == "" {
		t.Fatalf("expected resumeId: %v", body)
	}
	if body["fileName"] != "resume.pdf" {
		t.Fatalf("fileName = %v", body["fileName"])
	}
	if body["mimeType"] != "application/pdf" {
		t.Fatalf("mimeType = %v", body["mimeType"])
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, _ := newTestRouter(t, false)

	resp := uploadFile(t, router, "resume.txt", []byte("plain text resume"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "unsupported_type") {
		t.Fatalf("expected unsupported_type code, got %s", resp.Body.String())
	}
}

func TestUploadRequiresFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, _ := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCurrentResumeNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, _ := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/current", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCurrentReturnsNewestUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, _ := newTestRouter(t, false)

	if resp := uploadFile(t, router, "old.pdf", []byte("%PDF-1.4\nold")); resp.Code != http.StatusCreated {
		t.Fatalf("upload old: %d", resp.Code)
	}
	if resp := uploadFile(t, router, "new.pdf", []byte("%PDF-1.4\nnew")); resp.Code != http.StatusCreated {
		t.Fatalf("upload new: %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/current", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["fileName"] != "new.pdf" {
		t.Fatalf("fileName = %v, want new.pdf", body["fileName"])
	}
}

func TestListResumesBlockedForGuests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, _ := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}
