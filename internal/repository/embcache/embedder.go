// Package embcache caches batch embeddings in a key-value store, keyed by
// the content of the whole batch. Ranking requests for the same candidate
// roster and theme hit the cache and skip the provider entirely.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/campuslab/studentmatch/internal/db"
	"github.com/campuslab/studentmatch/internal/domain"
)

const cacheKeyPrefix = "studentmatch:emb_cache:"

// store is the consumer interface for the embedding cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedBatchEmbedder caches full embedding batches in a key-value store.
type CachedBatchEmbedder struct {
	inner      domain.BatchEmbedder
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. ttl <= 0 stores entries without expiry.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.BatchEmbedder,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedBatchEmbedder {
	return &CachedBatchEmbedder{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// BatchEmbed returns the cached matrix for an identical batch or calls the
// inner embedder. Cache hit: TotalTokens = 0 (no real tokens consumed).
// Cache miss: full BatchEmbeddingResult from inner.
func (c *CachedBatchEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	key := c.cacheKey(texts)

	if matrix, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return domain.BatchEmbeddingResult{Embeddings: matrix}, nil
	}

	c.incCache("miss")

	result, err := c.inner.BatchEmbed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
	}

	c.putToCache(ctx, key, result.Embeddings)
	return result, nil
}

func (c *CachedBatchEmbedder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the batch with length prefixes so that ["ab","c"] and
// ["a","bc"] produce distinct keys.
func (c *CachedBatchEmbedder) cacheKey(texts []string) string {
	h := sha256.New()
	var lenBuf [8]byte
	for _, t := range texts {
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(t)))
		h.Write(lenBuf[:])
		h.Write([]byte(t))
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedBatchEmbedder) getFromCache(ctx context.Context, key string) ([][]float32, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached embeddings", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	matrix, err := bytesToMatrix(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached embeddings", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return matrix, true
}

func (c *CachedBatchEmbedder) putToCache(ctx context.Context, key string, matrix [][]float32) {
	data, err := matrixToCacheBytes(matrix)
	if err != nil {
		c.logger.Warn("Skipping cache put for ragged matrix", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache embeddings", zap.String("key", key), zap.Error(err))
	}
}

// matrixToCacheBytes encodes a rectangular float32 matrix as
// [count uint32][dim uint32][count*dim little-endian float32].
func matrixToCacheBytes(m [][]float32) ([]byte, error) {
	dim := 0
	if len(m) > 0 {
		dim = len(m[0])
	}
	buf := make([]byte, 8, 8+len(m)*dim*4)
	binary.LittleEndian.PutUint32(buf[0:], uint32(len(m)))
	binary.LittleEndian.PutUint32(buf[4:], uint32(dim))

	var scratch [4]byte
	for _, vec := range m {
		if len(vec) != dim {
			return nil, fmt.Errorf("ragged matrix: expected dim %d, got %d", dim, len(vec))
		}
		for _, f := range vec {
			binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(f))
			buf = append(buf, scratch[:]...)
		}
	}
	return buf, nil
}

func bytesToMatrix(data []byte) ([][]float32, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("invalid embedding cache data: len=%d (header too short)", len(data))
	}
	count := int(binary.LittleEndian.Uint32(data[0:]))
	dim := int(binary.LittleEndian.Uint32(data[4:]))
	body := data[8:]
	if len(body) != count*dim*4 {
		return nil, fmt.Errorf("invalid embedding cache data: expected %d bytes for %dx%d, got %d",
			count*dim*4, count, dim, len(body))
	}

	matrix := make([][]float32, count)
	for i := range matrix {
		vec := make([]float32, dim)
		base := i * dim * 4
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(body[base+j*4:]))
		}
		matrix[i] = vec
	}
	return matrix, nil
}
