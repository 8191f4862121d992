package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
)

var (
	// ErrAuth is returned when the credential is missing or rejected upstream.
	ErrAuth = errors.New("authentication failed")
	// ErrMalformedResponse is returned when the response carries no message content.
	ErrMalformedResponse = errors.New("malformed completion response")
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("completion service unavailable")
)

// UpstreamError is a non-success response from the completion service.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream request failed (%d): %s", e.Status, e.Message)
}

// Call is a single completion request made on behalf of a profile.
type Call struct {
	// Credential is the bearer key of the current profile.
	Credential string
	// Title is appended to the X-Title header to tag the feature.
	Title string
	// Params is the chat completion request body.
	Params openai.ChatCompletionNewParams
}

// Completer performs chat completions and returns the trimmed message text.
type Completer interface {
	Complete(ctx context.Context, call Call) (string, error)
}
