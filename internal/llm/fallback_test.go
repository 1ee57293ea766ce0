package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/captureclient/demo-engine/pkg/logging"
)

type stubClient struct {
	resp  Response
	err   error
	calls int
}

func (s *stubClient) Complete(_ context.Context, _ Request) (Response, error) {
	s.calls++
	return s.resp, s.err
}

func TestFallbackPrimarySucceeds(t *testing.T) {
	primary := &stubClient{resp: Response{Text: "hi"}}
	fallback := &stubClient{resp: Response{Text: "fallback"}}
	c := NewFallbackClient(primary, fallback, logging.New("error"))

	resp, err := c.Complete(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "hi" {
		t.Errorf("Text = %q, want %q", resp.Text, "hi")
	}
	if fallback.calls != 0 {
		t.Errorf("fallback called %d times, want 0", fallback.calls)
	}
}

func TestFallbackUsedOnPrimaryFailure(t *testing.T) {
	primary := &stubClient{err: errors.New("boom")}
	fallback := &stubClient{resp: Response{Text: "fallback"}}
	c := NewFallbackClient(primary, fallback, logging.New("error"))

	resp, err := c.Complete(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "fallback" {
		t.Errorf("Text = %q, want %q", resp.Text, "fallback")
	}
}

func TestFallbackBothFail(t *testing.T) {
	primary := &stubClient{err: errors.New("primary down")}
	fallback := &stubClient{err: errors.New("fallback down")}
	c := NewFallbackClient(primary, fallback, logging.New("error"))

	_, err := c.Complete(context.Background(), Request{})
	if err == nil || err.Error() != "fallback down" {
		t.Fatalf("err = %v, want fallback error", err)
	}
}

func TestFallbackNoFallbackConfigured(t *testing.T) {
	primary := &stubClient{err: errors.New("primary down")}
	c := NewFallbackClient(primary, nil, logging.New("error"))

	_, err := c.Complete(context.Background(), Request{})
	if err == nil || err.Error() != "primary down" {
		t.Fatalf("err = %v, want primary error", err)
	}
}
