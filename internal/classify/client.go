package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"aquabov-backend/internal/shared/telemetry"
)

var (
	// ErrClassificationFailed reports a classifier reply that carries no usable result.
	ErrClassificationFailed = errors.New("classification failed")
	// ErrNetwork reports a transport failure talking to the classifier.
	ErrNetwork = errors.New("classification network error")
)

// Error carries the classifier's status and message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "no message"
	}
	return fmt.Sprintf("classification failed: status %d: %s", e.Status, msg)
}

// Is matches ErrClassificationFailed.
func (e *Error) Is(target error) bool {
	return target == ErrClassificationFailed
}

// Result is the classifier's reply for one image.
type Result struct {
	Breed      string   `json:"breed"`
	Confidence float64  `json:"confidence"`
	HeightCM   float64  `json:"height_cm"`
	WidthCM    float64  `json:"width_cm"`
	WeightKG   *float64 `json:"weight_kg,omitempty"`
	Message    string   `json:"message,omitempty"`
}

type errorBody struct {
	Error   string `json:"error"`
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

const maxReplyBytes = 1 << 20

// Client posts images to the classification backend.
type Client struct {
	endpoint   string
	field      string
	httpClient *http.Client
}

// NewClient constructs a client for <baseURL>/predict sending the image under field.
func NewClient(baseURL, field string, timeout time.Duration) *Client {
	if strings.TrimSpace(field) == "" {
		field = "image"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(baseURL, "/") + "/predict",
		field:    field,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Classify sends one image and decodes the classifier's result. It makes a single attempt.
func (c *Client) Classify(ctx context.Context, image []byte, mimeType string) (Result, error) {
	body, contentType, err := c.encode(image, mimeType)
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return Result{}, fmt.Errorf("create classify request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		telemetry.Warn("classify.request.failed", map[string]any{
			"endpoint":    c.endpoint,
			"duration_ms": time.Since(start).Milliseconds(),
			"error":       err,
		})
		return Result{}, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return Result{}, fmt.Errorf("%w: read reply: %w", ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		return Result{}, &Error{Status: resp.StatusCode, Message: errorMessage(raw, resp.Status)}
	}

	var out Result
	if err := json.Unmarshal(raw, &out); err != nil {
		return Result{}, &Error{Status: resp.StatusCode, Message: "invalid classifier reply: " + err.Error()}
	}
	if strings.TrimSpace(out.Breed) == "" {
		msg := out.Message
		if msg == "" {
			msg = "no breed identified"
		}
		return Result{}, &Error{Status: resp.StatusCode, Message: msg}
	}

	telemetry.Info("classify.complete", map[string]any{
		"breed":       out.Breed,
		"confidence":  out.Confidence,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return out, nil
}

func (c *Client) encode(image []byte, mimeType string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, c.field, uploadName(mimeType)))
	if mimeType != "" {
		h.Set("Content-Type", mimeType)
	}
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", fmt.Errorf("write multipart part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// uploadName gives the part a file name whose extension the classifier accepts.
func uploadName(mimeType string) string {
	if strings.EqualFold(strings.TrimSpace(mimeType), "image/png") {
		return "upload.png"
	}
	return "upload.jpg"
}

func errorMessage(raw []byte, fallback string) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Error != "":
			return body.Error
		case body.Detail != "":
			return body.Detail
		case body.Message != "":
			return body.Message
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" && len(text) <= 512 {
		return text
	}
	return fallback
}
