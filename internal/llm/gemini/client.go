package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"aquabov-backend/internal/llm"
	"aquabov-backend/internal/shared/telemetry"
)

const apiVersion = "v1"

// Sampling parameters shared by every request.
const (
	temperature     float32 = 0.2
	topP            float32 = 0.8
	topK            float32 = 40
	maxOutputTokens int32   = 1024
)

// Options configures a Client.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client implements llm.Generator against the Gemini generateContent endpoint.
type Client struct {
	genai *genai.Client
	model string
}

// NewClient constructs a Gemini client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("GEMINI_MODEL is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimRight(opts.BaseURL, "/") + "/",
			APIVersion: apiVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{genai: gc, model: opts.Model}, nil
}

// Generate sends prompt as a single user turn and returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, generationConfig())
	if err != nil {
		telemetry.Warn("gemini.generate.failed", map[string]any{
			"model":       c.model,
			"duration_ms": time.Since(start).Milliseconds(),
			"error":       err,
		})
		return "", toRequestError(err)
	}

	text, ok := firstText(resp)
	if !ok {
		return "", &llm.RequestError{Status: http.StatusOK, Message: "response missing candidate text"}
	}
	telemetry.Info("gemini.generate", map[string]any{
		"model":       c.model,
		"duration_ms": time.Since(start).Milliseconds(),
		"reply_chars": len(text),
	})
	return text, nil
}

func generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		TopP:            genai.Ptr(topP),
		TopK:            genai.Ptr(topK),
		MaxOutputTokens: maxOutputTokens,
	}
}

func firstText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil || len(cand.Content.Parts) == 0 || cand.Content.Parts[0] == nil {
		return "", false
	}
	return cand.Content.Parts[0].Text, true
}

func toRequestError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", llm.ErrRequestFailed, err)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &llm.RequestError{Status: apiErr.Code, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &llm.RequestError{Status: apiErrPtr.Code, Message: apiErrPtr.Message}
	}
	return &llm.RequestError{Message: err.Error()}
}

var _ llm.Generator = (*Client)(nil)
