package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// stubProvider returns canned responses, failing the first failCount calls.
type stubProvider struct {
	calls     int
	failCount int
	content   string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(_ context.Context, _ CompletionRequest) (*CompletionResponse, error) {
	s.calls++
	if s.calls <= s.failCount {
		return nil, fmt.Errorf("transient failure %d", s.calls)
	}
	return &CompletionResponse{Content: s.content}, nil
}

func TestRetryingProviderRecovers(t *testing.T) {
	stub := &stubProvider{failCount: 2, content: "ok"}
	p := NewRetryingProvider(stub, 3, time.Millisecond)

	resp, err := p.Complete(context.Background(), CompletionRequest{})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("expected content 'ok', got %q", resp.Content)
	}
	if stub.calls != 3 {
		t.Errorf("expected 3 calls, got %d", stub.calls)
	}
}

func TestRetryingProviderExhausted(t *testing.T) {
	stub := &stubProvider{failCount: 10}
	p := NewRetryingProvider(stub, 3, time.Millisecond)

	_, err := p.Complete(context.Background(), CompletionRequest{})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if stub.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", stub.calls)
	}
}

func TestRetryingProviderStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubProvider{failCount: 1}
	p := NewRetryingProvider(stub, 3, time.Millisecond)

	_, err := p.Complete(ctx, CompletionRequest{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	// First attempt runs before any backoff wait, but no retries follow.
	if stub.calls > 1 {
		t.Errorf("expected at most 1 call after cancellation, got %d", stub.calls)
	}
}

func TestRateLimitedProviderPassesThrough(t *testing.T) {
	stub := &stubProvider{content: "hello"}
	p := NewRateLimitedProvider(stub, 60)

	for i := 0; i < 3; i++ {
		resp, err := p.Complete(context.Background(), CompletionRequest{})
		if err != nil {
			t.Fatalf("Complete %d: %v", i, err)
		}
		if resp.Content != "hello" {
			t.Errorf("unexpected content %q", resp.Content)
		}
	}
	if stub.calls != 3 {
		t.Errorf("expected 3 calls, got %d", stub.calls)
	}
}

func TestNewProviderUnsupported(t *testing.T) {
	if _, err := NewProvider("aws", "model"); err == nil {
		t.Error("expected error for unsupported provider type")
	}
}
