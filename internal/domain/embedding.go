package domain

import "context"

// BatchEmbedder vectorizes multiple texts in a single provider call. The
// candidate side of a ranking call must go through exactly one batch.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// BatchEmbeddingResult carries the embedding vectors and aggregate token
// usage through the decorator chain. Embeddings[i] corresponds to the i-th
// input text.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}
