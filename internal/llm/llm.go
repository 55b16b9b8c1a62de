package llm

import (
	"context"
	"errors"
)

// Client abstracts LLM providers for cover letter drafting.
type Client interface {
	GenerateLetter(ctx context.Context, input GenerateInput) (string, error)
}

// GenerateInput captures the inputs needed to draft a cover letter.
type GenerateInput struct {
	ResumeText     string
	JobDescription string
	SenderName     string
	// Temperature in [0,1]; lower is more conservative. Zero value means
	// the provider default.
	Temperature float32
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm provider not configured")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// GenerateLetter returns ErrNotConfigured.
func (PlaceholderClient) GenerateLetter(ctx context.Context, input GenerateInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotConfigured
}
