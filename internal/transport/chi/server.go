// Package chi exposes the ranking engine over HTTP. The wire contract follows
// the upstream team-building service: POST /sort-specialization ranks students
// for one theme and target specialization, POST /assignments builds the full
// project-to-candidates map for a theme set.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/campuslab/studentmatch/internal/domain"
	"github.com/campuslab/studentmatch/internal/logger"
	"github.com/campuslab/studentmatch/internal/metrics"
	healthuc "github.com/campuslab/studentmatch/internal/usecase/health"
	rankuc "github.com/campuslab/studentmatch/internal/usecase/rank"
)

// DefaultTopK limits candidate lists per specialization in /assignments.
const DefaultTopK = 5

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers for the ranking API.
type Server struct {
	rank          *rankuc.Service
	health        *healthuc.Service
	topK          int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. topK <= 0 falls back to DefaultTopK.
func NewServer(rank *rankuc.Service, health *healthuc.Service, topK int, logger *zap.Logger) *Server {
	if topK <= 0 {
		topK = DefaultTopK
	}
	s := &Server{
		rank:   rank,
		health: health,
		topK:   topK,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrEmbeddingCountMismatch, http.StatusBadGateway, codeEmbeddingProvider),
	}
	return s
}

// Router assembles the chi router with the standard middleware chain.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chirouter.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(middleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/", s.Root)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Post("/sort-specialization", s.SortSpecialization)
	r.Post("/assignments", s.Assignments)

	return r
}

// SortSpecialization handles POST /sort-specialization. Every submitted
// student comes back exactly once in sortedStudentIds, best match first.
func (s *Server) SortSpecialization(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.TargetSpecialization == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "targetSpecialization is required")
		return
	}

	candidates := candidatesFromDTO(req.Students, s.logger)
	theme := themeFromDTO(req.Theme)
	weights := weightsFromRequest(req.Weights)

	results, err := s.rank.Rank(r.Context(), candidates, theme, req.TargetSpecialization, weights)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	ids := make([]string, len(results))
	for i, res := range results {
		ids[i] = res.CandidateID
	}

	logger.FromContext(r.Context()).Info("students sorted",
		zap.String("specialization", req.TargetSpecialization),
		zap.String("theme", req.Theme.Name),
		zap.Int("students", len(ids)))

	writeJSON(w, http.StatusOK, sortResponse{SortedStudentIDs: ids})
}

// Assignments handles POST /assignments. For each theme it ranks the student
// pool against every required specialization and keeps the top candidates,
// keyed "Проект<N>" with numeric student ids for the upstream consumer.
func (s *Server) Assignments(w http.ResponseWriter, r *http.Request) {
	var req assignmentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	topK := req.TopK
	if topK <= 0 {
		topK = s.topK
	}

	candidates := candidatesFromDTO(req.Students, s.logger)
	weights := weightsFromRequest(req.Weights)

	out := make(assignmentsResponse, len(req.Themes))
	for i, t := range req.Themes {
		theme := themeFromDTO(t)

		bySpec, err := s.rank.RankBySpecializations(
			r.Context(), candidates, theme, t.Specializations, weights)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}

		project := make(map[string][]int, len(bySpec))
		for spec, results := range bySpec {
			n := topK
			if n > len(results) {
				n = len(results)
			}
			ids := make([]int, 0, n)
			for _, res := range results[:n] {
				ids = append(ids, s.numericStudentID(res.CandidateID))
			}
			project[spec] = ids
		}

		out[projectKey(t.ID, i)] = project
	}

	writeJSON(w, http.StatusOK, out)
}

// numericStudentID coerces a string id to the numeric form the upstream
// consumer expects. Ids without digits map to 0.
func (s *Server) numericStudentID(id string) int {
	if n, ok := domain.FirstNumber(id); ok {
		return n
	}
	s.logger.Warn("student id has no numeric part", zap.String("id", id))
	return 0
}

// projectKey derives the "Проект<N>" map key from the theme id, falling back
// to the 1-based theme position when the id carries no digits.
func projectKey(themeID string, index int) string {
	n, ok := domain.FirstNumber(themeID)
	if !ok {
		n = index + 1
	}
	return fmt.Sprintf("Проект%d", n)
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Student-Themes Matching Service is running",
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmbeddingProviderError,
		domain.ErrEmbeddingCountMismatch,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
