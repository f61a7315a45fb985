package rank

import (
	"context"
	"fmt"
	"sort"

	"github.com/campuslab/studentmatch/internal/domain"
	"github.com/campuslab/studentmatch/internal/domain/keyword"
	"github.com/campuslab/studentmatch/internal/domain/taxonomy"
)

// Service ranks candidates against a theme by combining semantic similarity,
// specialization compatibility, skill overlap and declared availability.
type Service struct {
	embed Embedder
}

// New creates a ranking service.
func New(embed Embedder) *Service {
	return &Service{embed: embed}
}

// Rank scores every candidate against the theme for one required
// specialization and returns match results ordered by composite score
// descending. The sort is stable: candidates with equal scores keep their
// input order. Every input candidate appears exactly once in the output.
func (s *Service) Rank(
	ctx context.Context,
	candidates []domain.Candidate,
	theme domain.Theme,
	requiredSpec string,
	weights domain.Weights,
) ([]domain.MatchResult, error) {
	prep, err := s.prepare(ctx, candidates, theme)
	if err != nil {
		return nil, err
	}
	return prep.rank(requiredSpec, weights), nil
}

// RankBySpecializations evaluates the theme across multiple required
// specializations independently, one ranked list per specialization. The
// candidate batch is embedded once and the theme keyword set is computed
// once, shared across all runs.
func (s *Service) RankBySpecializations(
	ctx context.Context,
	candidates []domain.Candidate,
	theme domain.Theme,
	requiredSpecs []string,
	weights domain.Weights,
) (map[string][]domain.MatchResult, error) {
	prep, err := s.prepare(ctx, candidates, theme)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]domain.MatchResult, len(requiredSpecs))
	for _, spec := range requiredSpecs {
		if spec == "" {
			continue
		}
		out[spec] = prep.rank(spec, weights)
	}
	return out, nil
}

// prepared holds the per-call derived state shared across specialization runs.
type prepared struct {
	candidates []domain.Candidate
	profiles   []domain.Profile
	semantic   []float64
	keywords   keyword.Set
}

// prepare derives candidate profiles, theme keywords and semantic similarity
// scores. Candidate embeddings go through one batched call; the theme text is
// embedded separately.
func (s *Service) prepare(
	ctx context.Context, candidates []domain.Candidate, theme domain.Theme,
) (*prepared, error) {
	p := &prepared{
		candidates: candidates,
		profiles:   make([]domain.Profile, len(candidates)),
		semantic:   make([]float64, len(candidates)),
		keywords:   keyword.Extract(theme.CombinedText()),
	}
	for i, c := range candidates {
		p.profiles[i] = domain.ProfileOf(c)
	}
	if len(candidates) == 0 {
		return p, nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.CombinedText()
	}

	batch, err := s.embed.BatchEmbed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed candidates: %w", err)
	}
	if len(batch.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d candidates",
			domain.ErrEmbeddingCountMismatch, len(batch.Embeddings), len(texts))
	}

	themeRes, err := s.embed.BatchEmbed(ctx, []string{theme.CombinedText()})
	if err != nil {
		return nil, fmt.Errorf("embed theme: %w", err)
	}
	if len(themeRes.Embeddings) != 1 {
		return nil, fmt.Errorf("%w: got %d vectors for theme text",
			domain.ErrEmbeddingCountMismatch, len(themeRes.Embeddings))
	}

	themeVec := themeRes.Embeddings[0]
	for i := range texts {
		p.semantic[i] = cosine(batch.Embeddings[i], themeVec)
	}
	return p, nil
}

// rank folds the precomputed signals through the composite scorer for one
// required specialization and sorts the results.
func (p *prepared) rank(requiredSpec string, weights domain.Weights) []domain.MatchResult {
	required := taxonomy.Normalize(requiredSpec)

	results := make([]domain.MatchResult, len(p.candidates))
	for i, c := range p.candidates {
		prof := p.profiles[i]
		specMatch := taxonomy.MatchScore(prof.Category, required)
		skillMatch := skillMatchScore(prof.Skills, p.keywords)
		results[i] = domain.MatchResult{
			CandidateID:         c.ID,
			SemanticSimilarity:  p.semantic[i],
			SpecializationMatch: specMatch,
			SkillMatch:          skillMatch,
			AvailabilityScore:   prof.Availability,
			Composite: compositeScore(
				p.semantic[i], specMatch, skillMatch, prof.Availability, weights,
			),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Composite > results[j].Composite
	})
	return results
}
