package letters

import "time"

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Failure codes surfaced to clients on failed letters.
const (
	ErrorCodeLLMTimeout = "llm_timeout"
	ErrorCodeLLM        = "llm_error"
	ErrorCodeStorage    = "storage_error"
	ErrorCodeRender     = "render_error"
	ErrorCodeInternal   = "internal"
)

// Letter is a cover letter generation request and its outcome.
type Letter struct {
	ID             string
	UserID         string
	ResumeID       string
	JobDescription string
	JobURL         string
	SenderName     string
	SignatureID    string
	Temperature    float32
	Provider       string
	Model          string
	Status         string
	LetterText     string
	PDFStorageKey  string
	ErrorCode      string
	ErrorMessage   string
	CreatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
}
