package workerproc

import (
	"errors"
	"testing"

	"coverletter-backend/internal/queue"
)

func TestParseMessage(t *testing.T) {
	body, err := queue.EncodeMessage(queue.Message{LetterID: "letter-1", RequestID: "req-1", Version: 1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	msg, meta, err := ParseMessage(string(body))
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if msg.LetterID != "letter-1" || msg.RequestID != "req-1" {
		t.Fatalf("decoded = %+v", msg)
	}
	if meta.BodyLen != len(body) || meta.BodySHA == "" {
		t.Fatalf("meta = %+v", meta)
	}
}

func TestParseMessageEmptyBody(t *testing.T) {
	_, _, err := ParseMessage("   ")
	var empty ErrEmptyBody
	if !errors.As(err, &empty) {
		t.Fatalf("got %v, want ErrEmptyBody", err)
	}
}

func TestParseMessageBadJSON(t *testing.T) {
	_, meta, err := ParseMessage("{bad-json")
	var decode ErrDecode
	if !errors.As(err, &decode) {
		t.Fatalf("got %v, want ErrDecode", err)
	}
	if meta.BodyLen == 0 {
		t.Fatalf("expected meta to be populated")
	}
}

func TestParseMessageMissingLetterID(t *testing.T) {
	body, err := queue.EncodeMessage(queue.Message{RequestID: "req-9"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	_, _, err = ParseMessage(string(body))
	var missing ErrMissingLetterID
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want ErrMissingLetterID", err)
	}
	if missing.RequestID != "req-9" {
		t.Fatalf("request id = %q", missing.RequestID)
	}
}
