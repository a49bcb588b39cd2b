package services

import "context"

// InferenceProvider is the boundary to the external document-understanding service.
// Implementations must not retry automatically; calls are cost-bearing and the caller
// owns the degrade-or-surface decision.
type InferenceProvider interface {
	// Complete sends a text-only prompt and returns the raw assistant text.
	Complete(ctx context.Context, prompt string) (string, error)

	// CompleteWithImage sends a prompt alongside raw image bytes and returns the raw
	// assistant text.
	CompleteWithImage(ctx context.Context, prompt string, image []byte) (string, error)
}
