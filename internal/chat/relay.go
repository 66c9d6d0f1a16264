package chat

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"aquabov-backend/internal/llm"
	"aquabov-backend/internal/shared/metrics"
	"aquabov-backend/internal/shared/telemetry"
)

//go:embed persona.txt
var personaPrompt string

// ErrEmptyMessage is returned for blank chat input.
var ErrEmptyMessage = errors.New("message is required")

// Relay forwards chat messages to the generative-language service, or answers offline.
type Relay struct {
	gen       llm.Generator
	available bool
}

// NewRelay constructs a Relay. When available is false every reply is canned.
func NewRelay(gen llm.Generator, available bool) *Relay {
	if gen == nil {
		gen = llm.Unavailable{}
		available = false
	}
	return &Relay{gen: gen, available: available}
}

// Online reports whether replies come from the generative-language service.
func (r *Relay) Online() bool {
	return r.available
}

// SendMessage returns the assistant's reply to text.
// Offline replies never fail; blank text gets the generic reply.
func (r *Relay) SendMessage(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if !r.available {
		metrics.IncChat(false)
		return CannedReply(text), nil
	}
	if text == "" {
		return "", ErrEmptyMessage
	}

	reply, err := r.gen.Generate(ctx, buildPrompt(text))
	if err != nil {
		metrics.IncChatFailed()
		telemetry.Warn("chat.failed", map[string]any{"error": err})
		if !errors.Is(err, llm.ErrRequestFailed) {
			err = fmt.Errorf("%w: %w", llm.ErrRequestFailed, err)
		}
		return "", err
	}
	metrics.IncChat(true)
	return reply, nil
}

func buildPrompt(text string) string {
	return strings.Replace(personaPrompt, "{{message}}", text, 1)
}
