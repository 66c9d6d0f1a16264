package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Generator sends one prompt to a generative-language model and returns its reply text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrUnavailable reports that no generative-language credential is configured.
	ErrUnavailable = errors.New("advisory unavailable")
	// ErrRequestFailed reports a non-success reply from the generative-language service.
	ErrRequestFailed = errors.New("advisory request failed")
)

// RequestError carries the upstream status and message of a failed generation.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "no message"
	}
	if e.Status > 0 {
		return fmt.Sprintf("advisory request failed: status %d: %s", e.Status, msg)
	}
	return "advisory request failed: " + msg
}

// Is matches ErrRequestFailed.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Unavailable is the Generator used when no API key is configured.
type Unavailable struct{}

// Generate returns ErrUnavailable.
func (Unavailable) Generate(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrUnavailable
}
