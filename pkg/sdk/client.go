package studentmatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campuslab/studentmatch/internal/db"
	dbMemory "github.com/campuslab/studentmatch/internal/db/memory"
	dbRedis "github.com/campuslab/studentmatch/internal/db/redis"
	"github.com/campuslab/studentmatch/internal/domain"
	"github.com/campuslab/studentmatch/internal/repository/embcache"
	rankuc "github.com/campuslab/studentmatch/internal/usecase/rank"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the studentmatch SDK entry point.
type Client struct {
	store db.Store
	rank  *rankuc.Service
}

// New creates a Client. The provided context is used for the cache store
// readiness check when a Redis cache is configured.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{logger: zap.NewNop()}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.embedder == nil {
		return nil, errors.New("studentmatch: embedder required (use WithEmbedder)")
	}

	var embedder domain.BatchEmbedder = &embedderAdapter{inner: cfg.embedder}

	var store db.Store
	switch cfg.cacheDriver {
	case "":
		// no caching
	case "memory":
		store = dbMemory.NewStore(cfg.maxEntries)
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("studentmatch: create redis store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("studentmatch: cache store not ready: %w", err)
		}
		store = s
	}
	if store != nil {
		embedder = embcache.New(embedder, store, cfg.cacheTTL, nil, cfg.logger)
	}

	return &Client{
		store: store,
		rank:  rankuc.New(embedder),
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// SortStudents ranks all students for the theme and target specialization,
// best match first. Every student id comes back exactly once.
func (c *Client) SortStudents(
	ctx context.Context,
	students []Student,
	theme Theme,
	targetSpecialization string,
) ([]string, error) {
	matches, err := c.Rank(ctx, students, theme, targetSpecialization, Weights{})
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.StudentID
	}
	return ids, nil
}

// Rank returns the full per-student scoring breakdown for one
// specialization, sorted by composite score descending.
func (c *Client) Rank(
	ctx context.Context,
	students []Student,
	theme Theme,
	targetSpecialization string,
	weights Weights,
) ([]Match, error) {
	results, err := c.rank.Rank(
		ctx, studentsToDomain(students), themeToDomain(theme),
		targetSpecialization, weightsToDomain(weights),
	)
	if err != nil {
		return nil, fmt.Errorf("rank students: %w", err)
	}
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = matchFromDomain(r)
	}
	return matches, nil
}

// RankBySpecializations ranks the student pool against every required
// specialization of the theme, one sorted list per specialization. The
// student batch is embedded once, shared across all runs.
func (c *Client) RankBySpecializations(
	ctx context.Context,
	students []Student,
	theme Theme,
	weights Weights,
) (map[string][]Match, error) {
	t := themeToDomain(theme)
	bySpec, err := c.rank.RankBySpecializations(
		ctx, studentsToDomain(students), t, t.Specializations, weightsToDomain(weights),
	)
	if err != nil {
		return nil, fmt.Errorf("rank by specializations: %w", err)
	}
	out := make(map[string][]Match, len(bySpec))
	for spec, results := range bySpec {
		matches := make([]Match, len(results))
		for i, r := range results {
			matches[i] = matchFromDomain(r)
		}
		out[spec] = matches
	}
	return out, nil
}

// embedderAdapter wraps the public Embedder to satisfy domain.BatchEmbedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	r, err := a.inner.BatchEmbed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   r.Embeddings,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
