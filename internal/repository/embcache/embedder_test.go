package embcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campuslab/studentmatch/internal/db"
	"github.com/campuslab/studentmatch/internal/domain"
)

func TestBatchEmbed_CacheMiss(t *testing.T) {
	inner := &mockEmbedder{result: domain.BatchEmbeddingResult{
		Embeddings:   [][]float32{{0.1, 0.2}, {0.3, 0.4}},
		PromptTokens: 10,
		TotalTokens:  10,
	}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	// GET → ErrKeyNotFound (cache miss)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	var setCalled bool
	var setTTL time.Duration
	ms.setFn = func(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
		setCalled = true
		setTTL = ttl
		return nil
	}

	result, err := ce.BatchEmbed(ctx, []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embeddings) != 2 || result.Embeddings[0][0] != 0.1 {
		t.Fatalf("unexpected embeddings: %v", result.Embeddings)
	}
	if result.TotalTokens != 10 {
		t.Fatalf("expected TotalTokens=10, got %d", result.TotalTokens)
	}
	if !setCalled {
		t.Fatal("expected SET to be called for cache put")
	}
	if setTTL != time.Hour {
		t.Errorf("expected configured TTL on cache put, got %v", setTTL)
	}
	if inner.batchCalls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.batchCalls)
	}
}

func TestBatchEmbed_CacheHit(t *testing.T) {
	inner := &mockEmbedder{result: domain.BatchEmbeddingResult{
		Embeddings: [][]float32{{0.1, 0.2}},
	}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	cached, err := matrixToCacheBytes([][]float32{{0.4, 0.5}, {0.6, 0.7}})
	if err != nil {
		t.Fatalf("matrixToCacheBytes: %v", err)
	}
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return cached, nil
	}

	result, err := ce.BatchEmbed(ctx, []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embeddings) != 2 || result.Embeddings[1][1] != 0.7 {
		t.Fatalf("expected cached matrix, got: %v", result.Embeddings)
	}
	if result.TotalTokens != 0 {
		t.Fatalf("expected TotalTokens=0 on cache hit, got %d", result.TotalTokens)
	}
	if inner.batchCalls != 0 {
		t.Fatalf("expected 0 inner calls on cache hit, got %d", inner.batchCalls)
	}
}

func TestBatchEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("provider down")}
	ce, ms := newTestCachedEmbedder(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	if _, err := ce.BatchEmbed(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error from inner embedder")
	}
}

func TestBatchEmbed_StoreFailuresDegradeToProvider(t *testing.T) {
	inner := &mockEmbedder{}
	ce, ms := newTestCachedEmbedder(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("store unavailable")
	}
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("store unavailable")
	}

	result, err := ce.BatchEmbed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("store failure must not fail the request: %v", err)
	}
	if len(result.Embeddings) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(result.Embeddings))
	}
	if inner.batchCalls != 1 {
		t.Errorf("expected fallthrough to inner, got %d calls", inner.batchCalls)
	}
}

func TestBatchEmbed_CorruptCacheEntryIgnored(t *testing.T) {
	inner := &mockEmbedder{}
	ce, ms := newTestCachedEmbedder(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte{1, 2, 3}, nil // truncated header
	}

	result, err := ce.BatchEmbed(context.Background(), []string{"a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embeddings) != 1 {
		t.Fatalf("expected fallthrough to inner, got %v", result.Embeddings)
	}
	if inner.batchCalls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.batchCalls)
	}
}

func TestBatchEmbed_Empty(t *testing.T) {
	inner := &mockEmbedder{}
	ce, _ := newTestCachedEmbedder(t, inner)

	res, err := ce.BatchEmbed(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Embeddings != nil {
		t.Errorf("expected nil for empty input")
	}
	if inner.batchCalls != 0 {
		t.Errorf("expected no inner calls for empty input, got %d", inner.batchCalls)
	}
}

func TestCacheKey_LengthPrefixed(t *testing.T) {
	ce, _ := newTestCachedEmbedder(t, &mockEmbedder{})

	a := ce.cacheKey([]string{"ab", "c"})
	b := ce.cacheKey([]string{"a", "bc"})
	if a == b {
		t.Error("concatenation-equivalent batches must hash differently")
	}
	if a != ce.cacheKey([]string{"ab", "c"}) {
		t.Error("cache key must be deterministic")
	}
}

func TestMatrixCodec_RoundTrip(t *testing.T) {
	m := [][]float32{{1, -2.5, 3e-7}, {0, 4, 5}}
	data, err := matrixToCacheBytes(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := bytesToMatrix(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || len(got[0]) != 3 {
		t.Fatalf("unexpected shape: %v", got)
	}
	for i := range m {
		for j := range m[i] {
			if got[i][j] != m[i][j] {
				t.Errorf("m[%d][%d] = %v, want %v", i, j, got[i][j], m[i][j])
			}
		}
	}
}

func TestMatrixCodec_RejectsRagged(t *testing.T) {
	if _, err := matrixToCacheBytes([][]float32{{1, 2}, {3}}); err == nil {
		t.Error("expected error for ragged matrix")
	}
}

func TestBytesToMatrix_SizeMismatch(t *testing.T) {
	data, err := matrixToCacheBytes([][]float32{{1, 2}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := bytesToMatrix(data[:len(data)-1]); err == nil {
		t.Error("expected error for truncated body")
	}
}
