package chi

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campuslab/studentmatch/internal/domain"
)

// studentDTO mirrors the upstream team-building service student payload.
type studentDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	HardSkill  string `json:"hardSkill"`
	Background string `json:"background"`
	Interests  string `json:"interests"`
	TimeInWeek string `json:"timeInWeek"`
}

type themeDTO struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Author          string   `json:"author"`
	Specializations []string `json:"specializations"`
}

type sortRequest struct {
	Students             []studentDTO       `json:"students"`
	Theme                themeDTO           `json:"theme"`
	TargetSpecialization string             `json:"targetSpecialization"`
	Weights              map[string]float64 `json:"weights,omitempty"`
}

type sortResponse struct {
	SortedStudentIDs []string `json:"sortedStudentIds"`
}

type assignmentsRequest struct {
	Students []studentDTO       `json:"students"`
	Themes   []themeDTO         `json:"themes"`
	TopK     int                `json:"topK,omitempty"`
	Weights  map[string]float64 `json:"weights,omitempty"`
}

// assignmentsResponse maps "Проект<id>" to per-specialization candidate id lists.
type assignmentsResponse map[string]map[string][]int

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned to clients.
const (
	codeBadRequest        = "bad_request"
	codeValidationFailed  = "validation_failed"
	codeEmbeddingProvider = "embedding_provider_error"
	codeInternalError     = "internal_error"
	codeUnauthorized      = "unauthorized"
)

// candidatesFromDTO converts the wire students to domain candidates. Ids pass
// through untouched; a missing id gets a generated one so the candidate still
// appears in the ranked output.
func candidatesFromDTO(students []studentDTO, logger *zap.Logger) []domain.Candidate {
	out := make([]domain.Candidate, len(students))
	for i, s := range students {
		id := s.ID
		if id == "" {
			id = uuid.NewString()
			logger.Warn("student without id, generated one",
				zap.String("name", s.Name), zap.String("id", id))
		}
		out[i] = domain.Candidate{
			ID:             id,
			Name:           s.Name,
			Specialization: s.HardSkill,
			Experience:     s.Background,
			Interests:      s.Interests,
			Availability:   s.TimeInWeek,
		}
	}
	return out
}

func themeFromDTO(t themeDTO) domain.Theme {
	return domain.Theme{
		ID:              t.ID,
		Title:           t.Name,
		Description:     t.Description,
		Author:          t.Author,
		Specializations: t.Specializations,
	}
}

func weightsFromRequest(m map[string]float64) domain.Weights {
	if m == nil {
		return domain.DefaultWeights()
	}
	return domain.WeightsFromMap(m)
}
