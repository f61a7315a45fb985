package domain

import "errors"

var (
	// ErrEmbeddingProviderError signals an embedding provider failure. There
	// is no correctness-preserving fallback scoring, so it is surfaced to the
	// caller as a hard failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmbeddingCountMismatch signals that the provider returned a vector
	// count different from the input batch size.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")
)
