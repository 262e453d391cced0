// Package llm provides the Gemini REST client used by the pipeline stages.
// All reasoning calls are synchronous request/response; timeouts surface as
// ErrServiceUnavailable to the calling stage.
package llm

import (
	"context"
	"errors"
)

// ImagePayload carries raw image bytes for a vision call.
type ImagePayload struct {
	MIMEType string
	Data     []byte
}

// Client defines the interface pipeline stages use to call the model.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	AnalyzeImage(ctx context.Context, prompt string, image ImagePayload) (string, error)
}

// ErrServiceUnavailable is returned when the model API cannot be reached or
// responds with a non-2xx status after retries.
var ErrServiceUnavailable = errors.New("model service unavailable")

// ErrEmptyCompletion is returned when the API responds successfully but the
// candidate contains no text.
var ErrEmptyCompletion = errors.New("model returned empty completion")
