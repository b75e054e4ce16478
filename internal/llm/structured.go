package llm

import (
	"context"

	"questline/internal/extract"
)

// Structured runs one completion, extracts the first structured payload from
// the raw text, and decodes it with the supplied schema decoder. The raw
// response is returned alongside the typed value for logging and diagnosis.
// Extraction and schema failures propagate as their typed errors; no retry.
func Structured[T any](ctx context.Context, client Client, req CompletionRequest, decode func([]byte) (T, error)) (T, *CompletionResponse, error) {
	var zero T
	resp, err := client.Complete(ctx, req)
	if err != nil {
		return zero, nil, err
	}
	payload, err := extract.Payload(resp.Content)
	if err != nil {
		return zero, resp, err
	}
	value, err := decode(payload)
	if err != nil {
		return zero, resp, err
	}
	return value, resp, nil
}
