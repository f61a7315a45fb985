package studentmatch

import (
	"context"

	"github.com/campuslab/studentmatch/internal/domain"
)

// Student is a ranking candidate.
type Student struct {
	ID             string
	Name           string
	Specialization string // free-form, normalized internally
	Experience     string
	Interests      string
	Availability   string // free-form hours per week, e.g. "10-15 часов"
}

// Theme is a project topic students are ranked against.
type Theme struct {
	ID              string
	Title           string
	Description     string
	Author          string
	Specializations []string
	Tasks           string
	Goals           string
}

// Weights assigns the relative importance of score components.
// Zero value means "use defaults" (0.4 / 0.3 / 0.2 / 0.1).
type Weights struct {
	Semantic       float64
	Specialization float64
	Skills         float64
	Availability   float64
}

// Match is a per-student scoring breakdown.
type Match struct {
	StudentID           string
	SemanticSimilarity  float64
	SpecializationMatch float64
	SkillMatch          float64
	AvailabilityScore   float64
	Score               float64
}

// BatchResult carries embedding vectors and aggregate token usage.
type BatchResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text batches. Implementations typically call an
// OpenAI-compatible embeddings API.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchResult, error)
}

func studentsToDomain(students []Student) []domain.Candidate {
	out := make([]domain.Candidate, len(students))
	for i, s := range students {
		out[i] = domain.Candidate{
			ID:             s.ID,
			Name:           s.Name,
			Specialization: s.Specialization,
			Experience:     s.Experience,
			Interests:      s.Interests,
			Availability:   s.Availability,
		}
	}
	return out
}

func themeToDomain(t Theme) domain.Theme {
	return domain.Theme{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		Author:          t.Author,
		Specializations: t.Specializations,
		Tasks:           t.Tasks,
		Goals:           t.Goals,
	}
}

func weightsToDomain(w Weights) domain.Weights {
	if w == (Weights{}) {
		return domain.DefaultWeights()
	}
	return domain.Weights{
		Semantic:       w.Semantic,
		Specialization: w.Specialization,
		Skills:         w.Skills,
		Availability:   w.Availability,
	}
}

func matchFromDomain(m domain.MatchResult) Match {
	return Match{
		StudentID:           m.CandidateID,
		SemanticSimilarity:  m.SemanticSimilarity,
		SpecializationMatch: m.SpecializationMatch,
		SkillMatch:          m.SkillMatch,
		AvailabilityScore:   m.AvailabilityScore,
		Score:               m.Composite,
	}
}
