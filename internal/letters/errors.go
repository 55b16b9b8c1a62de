package letters

import "errors"

var (
	// ErrNotFound indicates the letter does not exist for the user.
	ErrNotFound = errors.New("letter not found")
	// ErrInvalidInput indicates a validation failure on caller input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrResumeNotReady indicates the referenced resume has no usable text.
	ErrResumeNotReady = errors.New("resume text not available")
	// ErrNotCompleted indicates the letter has no rendered PDF yet.
	ErrNotCompleted = errors.New("letter not completed")
)
