package usage

import (
	"context"
	"errors"
	"testing"
)

func TestUsageDefaults(t *testing.T) {
	svc := NewService()

	u, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if u.Plan != PlanStarter {
		t.Fatalf("plan = %q, want %q", u.Plan, PlanStarter)
	}
	if u.Used != 0 {
		t.Fatalf("used = %d, want 0", u.Used)
	}
	if u.Limit <= 0 {
		t.Fatalf("limit = %d, want positive", u.Limit)
	}
	if u.ResetsAt.IsZero() {
		t.Fatalf("expected resetsAt to be set")
	}
}

func TestConsumeUpToLimit(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	u, err := svc.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if _, err := svc.Consume(ctx, "user-1", u.Limit); err != nil {
		t.Fatalf("consume up to limit: %v", err)
	}

	ok, _, err := svc.CanConsume(ctx, "user-1", 1)
	if err != nil {
		t.Fatalf("CanConsume: %v", err)
	}
	if ok {
		t.Fatalf("expected CanConsume to deny over the limit")
	}

	if _, err := svc.Consume(ctx, "user-1", 1); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("got %v, want ErrLimitReached", err)
	}
}

func TestRefundRestoresUnits(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	if _, err := svc.Consume(ctx, "user-1", 2); err != nil {
		t.Fatalf("Consume: %v", err)
	}

	u, err := svc.Refund(ctx, "user-1", 1)
	if err != nil {
		t.Fatalf("Refund: %v", err)
	}
	if u.Used != 1 {
		t.Fatalf("used = %d, want 1", u.Used)
	}

	u, err = svc.Refund(ctx, "user-1", 5)
	if err != nil {
		t.Fatalf("Refund past zero: %v", err)
	}
	if u.Used != 0 {
		t.Fatalf("used = %d, want 0", u.Used)
	}
}

func TestResetClearsUsage(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	if _, err := svc.Consume(ctx, "user-1", 3); err != nil {
		t.Fatalf("Consume: %v", err)
	}

	u, err := svc.Reset(ctx, "user-1")
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if u.Used != 0 {
		t.Fatalf("used after reset = %d, want 0", u.Used)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	if _, err := svc.Consume(ctx, "user-1", 5); err != nil {
		t.Fatalf("Consume: %v", err)
	}

	other, err := svc.Get(ctx, "user-2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if other.Used != 0 {
		t.Fatalf("user-2 used = %d, want 0", other.Used)
	}
}
