package letters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateStoresOptionalFieldsAsNull(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	letter := Letter{
		ID:             "letter-1",
		UserID:         "user-1",
		ResumeID:       "resume-1",
		JobDescription: "jd",
		Temperature:    0.4,
		Provider:       "groq",
		Model:          "llama-3.1-8b-instant",
		Status:         StatusQueued,
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO letters").
		WithArgs(
			letter.ID,
			letter.UserID,
			letter.ResumeID,
			letter.JobDescription,
			nil, // job_url
			nil, // sender_name
			nil, // signature_id
			letter.Temperature,
			letter.Provider,
			letter.Model,
			letter.Status,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), letter); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDScansNullableColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	completedAt := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "resume_id", "job_description", "job_url", "sender_name",
		"signature_id", "temperature", "provider", "model", "status", "letter_text",
		"pdf_storage_key", "error_code", "created_at", "completed_at",
	}).AddRow(
		"letter-1", "user-1", "resume-1", "jd", nil, "Jordan Lee",
		nil, 0.4, "groq", "llama-3.1-8b-instant", StatusCompleted, "Dear Hiring Manager",
		"user-1/letters/letter-1.pdf", nil, time.Now().UTC(), completedAt,
	)
	mock.ExpectQuery("SELECT .+ FROM letters").WithArgs("letter-1").WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "letter-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.JobURL != "" || got.SignatureID != "" || got.ErrorCode != "" {
		t.Fatalf("expected null columns to scan as empty strings: %+v", got)
	}
	if got.SenderName != "Jordan Lee" {
		t.Fatalf("sender name = %q", got.SenderName)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(completedAt) {
		t.Fatalf("completedAt = %v, want %v", got.CompletedAt, completedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkCompletedUnknownLetter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE letters").
		WithArgs(StatusCompleted, "text", "key", sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.MarkCompleted(context.Background(), "missing", "text", "key", time.Now().UTC())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoClaimGuestCountsRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE letters").
		WithArgs("user-1", "guest:abc").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.ClaimGuest(context.Background(), "guest:abc", "user-1")
	if err != nil {
		t.Fatalf("ClaimGuest: %v", err)
	}
	if n != 3 {
		t.Fatalf("claimed = %d, want 3", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
