package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Provider abstracts the model backend used for question authoring.
// Generate sends one prompt and returns the raw JSON the model produced;
// callers unmarshal into their own section types.
type Provider interface {
	Generate(ctx context.Context, req Request) (json.RawMessage, error)
	ModelID() string
}

// Request is a single-turn generation request.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64

	// SchemaName and Schema, when set, ask the provider for structured
	// output conforming to the given JSON schema.
	SchemaName string
	Schema     map[string]any
}

// ErrRateLimited marks transient provider throttling; the retry decorator
// backs off and tries again.
var ErrRateLimited = errors.New("provider rate limited")

// ErrUnavailable marks transient transport or server failures.
var ErrUnavailable = errors.New("provider unavailable")

// InvalidResponseError wraps model output that is not the JSON the schema
// asked for. It gets a single retry, then surfaces to the caller.
type InvalidResponseError struct {
	Reason string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid model response: %s", e.Reason)
}
