package studentmatch

import (
	"time"

	"go.uber.org/zap"
)

type clientConfig struct {
	embedder    Embedder
	cacheDriver string // "", "memory", "redis"
	addrs       []string
	password    string
	maxEntries  int
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

type optionFunc func(*clientConfig)

func (f optionFunc) apply(cfg *clientConfig) { f(cfg) }

// WithEmbedder sets the embedding provider. Required.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(cfg *clientConfig) { cfg.embedder = e })
}

// WithMemoryCache enables in-process embedding caching with the given entry
// cap. maxEntries <= 0 uses the default cap.
func WithMemoryCache(maxEntries int) Option {
	return optionFunc(func(cfg *clientConfig) {
		cfg.cacheDriver = "memory"
		cfg.maxEntries = maxEntries
	})
}

// WithRedis enables embedding caching in Redis or Valkey.
func WithRedis(addrs []string, password string) Option {
	return optionFunc(func(cfg *clientConfig) {
		cfg.cacheDriver = "redis"
		cfg.addrs = addrs
		cfg.password = password
	})
}

// WithCacheTTL sets the embedding cache entry lifetime. Zero means no expiry.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(cfg *clientConfig) { cfg.cacheTTL = ttl })
}

// WithLogger sets the logger. Defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(cfg *clientConfig) { cfg.logger = logger })
}
