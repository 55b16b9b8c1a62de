package account

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/letters"
	"coverletter-backend/internal/resumes"
)

func newTestRouter(svc *Service) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Set("isGuest", false)
		c.Next()
	})
	api := router.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return router
}

func TestClaimGuestMigratesData(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resumeRepo := resumes.NewMemoryRepo()
	letterRepo := letters.NewMemoryRepo()
	svc := NewService(resumeRepo, letterRepo)
	router := newTestRouter(svc)

	guestID := "11111111-1111-1111-1111-111111111111"
	guestUserID := "guest:" + guestID

	resume := resumes.Resume{
		ID:        "resume-1",
		UserID:    guestUserID,
		FileName:  "resume.pdf",
		MimeType:  "application/pdf",
		SizeBytes: 123,
		CreatedAt: time.Now().UTC(),
	}
	if err := resumeRepo.Create(context.Background(), resume); err != nil {
		t.Fatalf("create resume: %v", err)
	}
	letter := letters.Letter{
		ID:             "letter-1",
		UserID:         guestUserID,
		ResumeID:       resume.ID,
		JobDescription: "Backend engineer role",
		Status:         letters.StatusCompleted,
		CreatedAt:      time.Now().UTC(),
	}
	if err := letterRepo.Create(context.Background(), letter); err != nil {
		t.Fatalf("create letter: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", guestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	resumeList, err := resumeRepo.ListByUser(context.Background(), "user-1", 10, 0)
	if err != nil {
		t.Fatalf("list resumes: %v", err)
	}
	if len(resumeList) != 1 {
		t.Fatalf("expected 1 migrated resume, got %d", len(resumeList))
	}

	letterList, err := letterRepo.ListByUser(context.Background(), "user-1", 10, 0)
	if err != nil {
		t.Fatalf("list letters: %v", err)
	}
	if len(letterList) != 1 {
		t.Fatalf("expected 1 migrated letter, got %d", len(letterList))
	}
}

func TestClaimGuestIdempotentAndIsolated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resumeRepo := resumes.NewMemoryRepo()
	letterRepo := letters.NewMemoryRepo()
	svc := NewService(resumeRepo, letterRepo)
	router := newTestRouter(svc)

	guestID := "22222222-2222-2222-2222-222222222222"
	guestUserID := "guest:" + guestID

	resume := resumes.Resume{
		ID:        "resume-2",
		UserID:    guestUserID,
		FileName:  "resume.pdf",
		MimeType:  "application/pdf",
		SizeBytes: 123,
		CreatedAt: time.Now().UTC(),
	}
	if err := resumeRepo.Create(context.Background(), resume); err != nil {
		t.Fatalf("create resume: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", guestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req2.Header.Set("X-Guest-Id", guestID)
	resp2 := httptest.NewRecorder()
	router.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusOK {
		t.Fatalf("expected status 200 on idempotent call, got %d", resp2.Code)
	}

	resumeList, err := resumeRepo.ListByUser(context.Background(), "user-2", 10, 0)
	if err != nil {
		t.Fatalf("list resumes: %v", err)
	}
	if len(resumeList) != 0 {
		t.Fatalf("expected no resumes for other user, got %d", len(resumeList))
	}
}

func TestDeleteDataRemovesEverything(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resumeRepo := resumes.NewMemoryRepo()
	letterRepo := letters.NewMemoryRepo()
	svc := NewService(resumeRepo, letterRepo)
	router := newTestRouter(svc)

	resume := resumes.Resume{
		ID:        "resume-3",
		UserID:    "user-1",
		FileName:  "resume.pdf",
		MimeType:  "application/pdf",
		SizeBytes: 123,
		CreatedAt: time.Now().UTC(),
	}
	if err := resumeRepo.Create(context.Background(), resume); err != nil {
		t.Fatalf("create resume: %v", err)
	}
	letter := letters.Letter{
		ID:             "letter-3",
		UserID:         "user-1",
		ResumeID:       resume.ID,
		JobDescription: "Platform engineer role",
		Status:         letters.StatusQueued,
		CreatedAt:      time.Now().UTC(),
	}
	if err := letterRepo.Create(context.Background(), letter); err != nil {
		t.Fatalf("create letter: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/account", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	resumeList, err := resumeRepo.ListByUser(context.Background(), "user-1", 10, 0)
	if err != nil {
		t.Fatalf("list resumes: %v", err)
	}
	if len(resumeList) != 0 {
		t.Fatalf("expected resumes removed, got %d", len(resumeList))
	}
	letterList, err := letterRepo.ListByUser(context.Background(), "user-1", 10, 0)
	if err != nil {
		t.Fatalf("list letters: %v", err)
	}
	if len(letterList) != 0 {
		t.Fatalf("expected letters removed, got %d", len(letterList))
	}
}
