package letters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"coverletter-backend/internal/extract"
	"coverletter-backend/internal/jobdesc"
	"coverletter-backend/internal/llm"
	"coverletter-backend/internal/queue"
	"coverletter-backend/internal/render"
	"coverletter-backend/internal/resumes"
	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/storage/object"
	"coverletter-backend/internal/shared/telemetry"
	"coverletter-backend/internal/signature"
	"coverletter-backend/internal/usage"
)

// Service contains business logic for cover letters.
type Service struct {
	Repo       Repo
	ResumeRepo resumes.Repo
	Signatures *signature.Service
	Usage      *usage.Service
	Store      object.ObjectStore
	LLM        llm.Client
	Queue      queue.Client
	Fetcher    *jobdesc.Fetcher
	Provider   string
	Model      string
}

// CreateInput carries caller-supplied fields for a new letter.
type CreateInput struct {
	ResumeID       string
	JobDescription string
	JobURL         string
	SenderName     string
	SignatureID    string
	Temperature    float32
}

// Create records a queued letter and kicks off asynchronous generation.
// When no resumeId is given the caller's newest resume is used. The job
// description is resolved before the letter is stored: a pasted description
// wins, otherwise the job URL is fetched and stripped to text.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Letter, error) {
	if userID == "" {
		return Letter{}, ErrInvalidInput
	}
	if in.Temperature < 0 || in.Temperature > 1 {
		return Letter{}, ErrInvalidInput
	}

	resume, err := s.resolveResume(ctx, userID, in.ResumeID)
	if err != nil {
		return Letter{}, err
	}

	if s.Usage != nil {
		ok, _, err := s.Usage.CanConsume(ctx, userID, 1)
		if err != nil {
			return Letter{}, err
		}
		if !ok {
			return Letter{}, usage.ErrLimitReached
		}
	}

	description := jobdesc.Clean(in.JobDescription)
	if description == "" && in.JobURL != "" {
		if s.Fetcher == nil {
			return Letter{}, jobdesc.ErrUnreachable
		}
		description, err = s.Fetcher.FromURL(ctx, in.JobURL)
		if err != nil {
			return Letter{}, err
		}
	}
	if description == "" {
		return Letter{}, ErrInvalidInput
	}

	// The unit is consumed before the letter exists; a losing racer gets
	// ErrLimitReached here instead of leaving a queued letter that never
	// dispatches.
	if s.Usage != nil {
		if _, err := s.Usage.Consume(ctx, userID, 1); err != nil {
			return Letter{}, err
		}
	}

	letter := Letter{
		ID:             uuid.NewString(),
		UserID:         userID,
		ResumeID:       resume.ID,
		JobDescription: description,
		JobURL:         strings.TrimSpace(in.JobURL),
		SenderName:     strings.TrimSpace(in.SenderName),
		SignatureID:    in.SignatureID,
		Temperature:    in.Temperature,
		Provider:       normalizeProvider(s.Provider),
		Model:          s.Model,
		Status:         StatusQueued,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, letter); err != nil {
		if s.Usage != nil {
			if _, refundErr := s.Usage.Refund(ctx, userID, 1); refundErr != nil {
				telemetry.Error("letter.usage_refund_failed", map[string]any{
					"request_id": requestIDFromContext(ctx),
					"user_id":    userID,
					"error":      sanitizeError(refundErr),
				})
			}
		}
		return Letter{}, err
	}

	s.dispatch(ctx, letter.ID)

	return letter, nil
}

// resolveResume loads the named resume, or the caller's newest upload when
// resumeID is empty.
func (s *Service) resolveResume(ctx context.Context, userID, resumeID string) (resumes.Resume, error) {
	if resumeID == "" {
		return s.ResumeRepo.GetCurrentByUser(ctx, userID)
	}
	return s.ResumeRepo.GetByID(ctx, userID, resumeID)
}

// Get returns a letter by ID for a user.
func (s *Service) Get(ctx context.Context, userID, letterID string) (Letter, error) {
	if userID == "" || letterID == "" {
		return Letter{}, ErrInvalidInput
	}
	letter, err := s.Repo.GetByID(ctx, letterID)
	if err != nil {
		return Letter{}, err
	}
	if letter.UserID != userID {
		return Letter{}, ErrNotFound
	}
	return letter, nil
}

// List returns letters for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Letter, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// OpenPDF returns the rendered PDF for a completed letter.
func (s *Service) OpenPDF(ctx context.Context, userID, letterID string) (io.ReadCloser, error) {
	letter, err := s.Get(ctx, userID, letterID)
	if err != nil {
		return nil, err
	}
	if letter.Status != StatusCompleted || letter.PDFStorageKey == "" {
		return nil, ErrNotCompleted
	}
	return s.Store.Open(ctx, letter.PDFStorageKey)
}

func normalizeProvider(provider string) string {
	if strings.TrimSpace(provider) == "" {
		return "groq"
	}
	return provider
}

// dispatch hands the letter to the queue when one is configured and falls
// back to in-process generation otherwise.
func (s *Service) dispatch(ctx context.Context, letterID string) {
	if s.Queue != nil {
		msg := queue.Message{
			LetterID:   letterID,
			RequestID:  requestIDFromContext(ctx),
			EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
			Version:    1,
		}
		err := s.Queue.Send(ctx, msg)
		if err == nil {
			return
		}
		telemetry.Error("letter.enqueue_failed", map[string]any{
			"request_id": requestIDFromContext(ctx),
			"letter_id":  letterID,
			"error":      sanitizeError(err),
		})
	}
	bg := backgroundWithRequestID(ctx)
	go func() { _ = s.generate(bg, letterID) }()
}

// ProcessLetter runs generation for a queued letter. Queue consumers call
// this directly; the returned error is the failure already recorded on the
// letter.
func (s *Service) ProcessLetter(ctx context.Context, letterID string) error {
	return s.generate(ctx, letterID)
}

func (s *Service) generate(ctx context.Context, letterID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = s.failLetter(ctx, letterID, "", "", fmt.Errorf("panic: %v", r), nil)
		}
	}()
	startedAt := time.Now().UTC()
	if err := s.Repo.SetProcessing(ctx, letterID, startedAt); err != nil {
		return s.failLetter(ctx, letterID, "", "", fmt.Errorf("set processing failed: %w", err), &startedAt)
	}

	letter, err := s.Repo.GetByID(ctx, letterID)
	if err != nil {
		return s.failLetter(ctx, letterID, "", "", fmt.Errorf("letter lookup: %w", err), &startedAt)
	}
	metrics.IncLetterStarted()
	telemetry.Info("letter.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           letter.UserID,
		"resume_id":         letter.ResumeID,
		"letter_id":         letter.ID,
		"status":            StatusProcessing,
		"status_transition": "queued->processing",
	})
	if s.ResumeRepo == nil || s.Store == nil {
		return s.failLetter(ctx, letterID, letter.UserID, letter.ResumeID, errors.New("missing resume store dependencies"), &startedAt)
	}
	if s.LLM == nil {
		return s.failLetter(ctx, letterID, letter.UserID, letter.ResumeID, errors.New("missing llm client"), &startedAt)
	}
	requestID := requestIDFromContext(ctx)
	llmClient := newRetryingLLM(s.LLM, letter.ID, requestID)

	resume, err := s.ResumeRepo.GetByID(ctx, letter.UserID, letter.ResumeID)
	if err != nil {
		return s.failLetter(ctx, letterID, letter.UserID, letter.ResumeID, fmt.Errorf("resume lookup id=%s: %w", letter.ResumeID, err), &startedAt)
	}

	extractedKey := resume.ExtractedTextKey
	if extractedKey == "" {
		if _, err := extract.ExtractText(ctx, s.Store, resume.StorageKey, resume.MimeType, resume.FileName); err != nil {
			return s.failLetter(ctx, letterID, letter.UserID, letter.ResumeID, fmt.Errorf("resume %s mime %s: %w", resume.ID, resume.MimeType, err), &startedAt)
		}
		extractedKey = resume.StorageKey + ".extracted.txt"
		if err := s.ResumeRepo.UpdateExtraction(ctx, resume.UserID, resume.ID, extractedKey, time.Now().UTC()); err != nil {
			return s.failLetter(ctx, letterID, letter.UserID, letter.ResumeID, fmt.Errorf("resume %s mime %s: update extraction: %w", resume.ID, resume.MimeType, err), &startedAt)
		}
	}

	resumeText, err := loadText(ctx, s.Store, extractedKey)
	if err != nil {
		return s.failLetter(ctx, letterID, letter.UserID, letter.ResumeID, fmt.Errorf("resume %s mime %s: load extracted text: %w", resume.ID, resume.MimeType, err), &startedAt)
	}
	if strings.TrimSpace(resumeText) == "" {
		return s.failLetter(ctx, letterID, letter.UserID, letter.ResumeID, fmt.Errorf("resume %s: %w", resume.ID, ErrResumeNotReady), &startedAt)
	}

	letterText, err := llmClient.GenerateLetter(ctx, llm.GenerateInput{
		ResumeText:     resumeText,
		JobDescription: letter.JobDescription,
		SenderName:     letter.SenderName,
		Temperature:    letter.Temperature,
	})
	if err != nil {
		return s.failLetter(ctx, letterID, letter.UserID, letter.ResumeID, fmt.Errorf("llm generate: %w", err), &startedAt)
	}
	if strings.TrimSpace(letterText) == "" {
		return s.failLetter(ctx, letterID, letter.UserID, letter.ResumeID, errors.New("llm generate: empty letter"), &startedAt)
	}

	sigBytes := s.signatureBytes(ctx, letter)

	pdfBytes, err := render.LetterPDF(letterText, sigBytes)
	if err != nil {
		return s.failLetter(ctx, letterID, letter.UserID, letter.ResumeID, fmt.Errorf("render pdf: %w", err), &startedAt)
	}

	pdfKey := fmt.Sprintf("%s/letters/%s.pdf", letter.UserID, letter.ID)
	if err := savePDF(ctx, s.Store, pdfKey, pdfBytes); err != nil {
		return s.failLetter(ctx, letterID, letter.UserID, letter.ResumeID, fmt.Errorf("store pdf: %w", err), &startedAt)
	}

	completedAt := time.Now().UTC()
	if err := s.Repo.MarkCompleted(ctx, letterID, letterText, pdfKey, completedAt); err != nil {
		return s.failLetter(ctx, letterID, letter.UserID, letter.ResumeID, fmt.Errorf("set letter result failed: %w", err), &startedAt)
	}
	metrics.IncLetterCompleted()
	metrics.ObserveLetterDurationMs(durationMs(&startedAt, &completedAt))
	telemetry.Info("letter.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           letter.UserID,
		"resume_id":         letter.ResumeID,
		"letter_id":         letter.ID,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"duration_ms":       durationMs(&startedAt, &completedAt),
	})
	return nil
}

// signatureBytes resolves the signature image for the letter. An uploaded
// signature wins; otherwise one is drawn from the sender name. Failures here
// never fail the letter, the PDF just goes out unsigned.
func (s *Service) signatureBytes(ctx context.Context, letter Letter) []byte {
	if letter.SignatureID != "" && s.Signatures != nil {
		img, err := s.Signatures.ImageBytes(ctx, letter.UserID, letter.SignatureID)
		if err == nil {
			return img
		}
		telemetry.Error("letter.signature_load_failed", map[string]any{
			"letter_id":    letter.ID,
			"signature_id": letter.SignatureID,
			"error":        sanitizeError(err),
		})
	}
	if letter.SenderName != "" {
		img, err := signature.GeneratePNG(letter.SenderName)
		if err == nil {
			return img
		}
		telemetry.Error("letter.signature_generate_failed", map[string]any{
			"letter_id": letter.ID,
			"error":     sanitizeError(err),
		})
	}
	return nil
}

func (s *Service) failLetter(ctx context.Context, letterID, userID, resumeID string, err error, startedAt *time.Time) error {
	code, _ := classifyFailure(err)
	msg := sanitizeError(err)
	completedAt := time.Now().UTC()
	if updateErr := s.Repo.MarkFailed(context.Background(), letterID, code, msg, completedAt); updateErr != nil {
		fmt.Printf("failLetter: update failed id=%s err=%v orig=%v\n", letterID, updateErr, err)
	}
	metrics.IncLetterFailed()
	if startedAt != nil {
		metrics.ObserveLetterDurationMs(durationMs(startedAt, &completedAt))
	}
	telemetry.Info("letter.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           userID,
		"resume_id":         resumeID,
		"letter_id":         letterID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"error_code":        code,
		"duration_ms":       durationMs(startedAt, &completedAt),
	})
	return err
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func classifyFailure(err error) (string, bool) {
	if err == nil {
		return ErrorCodeInternal, false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorCodeLLMTimeout, true
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "groq request timeout") {
		return ErrorCodeLLMTimeout, true
	}
	if strings.Contains(msg, "timeout") && strings.Contains(msg, "llm") {
		return ErrorCodeLLMTimeout, true
	}
	if strings.Contains(msg, "llm generate") || strings.Contains(msg, "llm output") {
		return ErrorCodeLLM, false
	}
	if strings.Contains(msg, "render pdf") {
		return ErrorCodeRender, false
	}
	if strings.Contains(msg, "resume") || strings.Contains(msg, "storage") || strings.Contains(msg, "store pdf") || strings.Contains(msg, "letter result") || strings.Contains(msg, "set processing") {
		return ErrorCodeStorage, true
	}
	return ErrorCodeInternal, false
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}

func loadText(ctx context.Context, store object.ObjectStore, key string) (string, error) {
	body, err := store.Open(ctx, key)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type keySaver interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
}

func savePDF(ctx context.Context, store object.ObjectStore, key string, data []byte) error {
	saver, ok := store.(keySaver)
	if !ok {
		return errors.New("object store does not support SaveWithKey")
	}
	_, err := saver.SaveWithKey(ctx, key, "application/pdf", bytes.NewReader(data))
	return err
}
