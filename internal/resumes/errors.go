package resumes

import "errors"

var (
	// ErrNotFound indicates the resume does not exist for the user.
	ErrNotFound = errors.New("resume not found")
	// ErrInvalidInput indicates a validation failure on caller input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedType indicates the uploaded file is not a PDF or DOCX.
	ErrUnsupportedType = errors.New("unsupported file type")
)
