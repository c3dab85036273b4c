package fetch

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPolicyDelay(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: 1000 * time.Millisecond, Factor: 2}

	if got := p.Delay(1); got != 1000*time.Millisecond {
		t.Fatalf("delay before 2nd attempt: expected 1000ms, got %s", got)
	}
	if got := p.Delay(2); got != 2000*time.Millisecond {
		t.Fatalf("delay before 3rd attempt: expected 2000ms, got %s", got)
	}
}

func TestDoRetriesServerErrors(t *testing.T) {
	calls := 0
	op := func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", &StatusError{Status: 503}
		}
		return "ok", nil
	}

	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Factor: 2}
	got, err := Do(context.Background(), "test", p, op)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || calls != 3 {
		t.Fatalf("expected success on 3rd call, got %q after %d calls", got, calls)
	}
}

// TestDoAbortsOnClientError verifies a 404 never triggers a second attempt.
func TestDoAbortsOnClientError(t *testing.T) {
	calls := 0
	op := func(context.Context) (string, error) {
		calls++
		return "", &StatusError{Status: 404}
	}

	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Factor: 2}
	_, err := Do(context.Background(), "test", p, op)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
	if !IsClientError(err) {
		t.Fatalf("expected client error, got %v", err)
	}
}

func TestDoExhaustionWrapsLastError(t *testing.T) {
	boom := errors.New("connection refused")
	calls := 0
	op := func(context.Context) (int, error) {
		calls++
		return 0, boom
	}

	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Factor: 2}
	_, err := Do(context.Background(), "test", p, op)

	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if ex.Attempts != 3 || calls != 3 {
		t.Fatalf("expected 3 attempts, got attempts=%d calls=%d", ex.Attempts, calls)
	}
	if !errors.Is(err, boom) {
		t.Fatal("exhaustion error should wrap the last observed error")
	}
}

func TestDoParseErrorNotRetried(t *testing.T) {
	calls := 0
	op := func(context.Context) (int, error) {
		calls++
		return 0, &ParseError{Source: "test", Err: errors.New("bad json")}
	}

	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Factor: 2}
	_, err := Do(context.Background(), "test", p, op)
	if err == nil || calls != 1 {
		t.Fatalf("parse errors must not be retried: err=%v calls=%d", err, calls)
	}
}

func TestDoRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	op := func(context.Context) (int, error) { return 0, &StatusError{Status: 500} }
	p := Policy{MaxAttempts: 3, BaseDelay: time.Second, Factor: 2}

	_, err := Do(ctx, "test", p, op)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
