package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestRequestErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("nutrition: %w", &RequestError{Status: 429, Message: "quota exhausted"})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed match")
	}
	if errors.Is(err, ErrUnavailable) {
		t.Fatalf("unexpected ErrUnavailable match")
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Status != 429 {
		t.Fatalf("expected RequestError with status 429, got %v", reqErr)
	}
	want := "nutrition: advisory request failed: status 429: quota exhausted"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestUnavailableGenerate(t *testing.T) {
	_, err := Unavailable{}.Generate(context.Background(), "hi")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
