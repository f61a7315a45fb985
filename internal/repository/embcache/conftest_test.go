package embcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/campuslab/studentmatch/internal/db"
	"github.com/campuslab/studentmatch/internal/domain"
)

type mockEmbedder struct {
	result     domain.BatchEmbeddingResult
	err        error
	batchCalls int
	lastBatch  []string
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	m.lastBatch = texts
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	if m.result.Embeddings != nil {
		return m.result, nil
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = []float32{0.5, 0.5}
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   embeddings,
		PromptTokens: 5 * len(texts),
		TotalTokens:  5 * len(texts),
	}, nil
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedEmbedder(t *testing.T, inner *mockEmbedder) (*CachedBatchEmbedder, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	ce := New(inner, ms, time.Hour, nil, zap.NewNop())
	return ce, ms
}
