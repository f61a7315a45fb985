package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/campuslab/studentmatch/internal/domain"
	healthuc "github.com/campuslab/studentmatch/internal/usecase/health"
	rankuc "github.com/campuslab/studentmatch/internal/usecase/rank"
)

// stubEmbedder maps texts to fixed vectors by substring so handler tests get
// deterministic similarity without a real provider.
type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if s.err != nil {
		return domain.BatchEmbeddingResult{}, s.err
	}
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		switch {
		case strings.Contains(lower, "python") || strings.Contains(lower, "машинн"):
			embeddings[i] = []float32{1, 0}
		default:
			embeddings[i] = []float32{0, 1}
		}
	}
	return domain.BatchEmbeddingResult{Embeddings: embeddings}, nil
}

type stubPinger struct{ err error }

func (p *stubPinger) Ping(context.Context) error { return p.err }

type stubChecker struct{ err error }

func (c *stubChecker) HealthCheck(context.Context) error { return c.err }

func newTestServer(t *testing.T, embed rankuc.Embedder) *Server {
	t.Helper()
	rank := rankuc.New(embed)
	health := healthuc.New(&stubPinger{}, &stubChecker{})
	return NewServer(rank, health, 0, zap.NewNop())
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", "/", bytes.NewReader(data))
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func mlSortRequest() sortRequest {
	return sortRequest{
		Students: []studentDTO{
			{ID: "s-7", Name: "Боря", HardSkill: "Frontend", Background: "React и CSS", Interests: "веб", TimeInWeek: "25"},
			{ID: "42", Name: "Аня", HardSkill: "Machine Learning", Background: "Python и PyTorch", Interests: "нейросети", TimeInWeek: "12"},
		},
		Theme: themeDTO{
			ID:              "t1",
			Name:            "Классификация текстов",
			Description:     "машинное обучение для анализа отзывов",
			Author:          "Иванов",
			Specializations: []string{"Machine Learning"},
		},
		TargetSpecialization: "Machine Learning",
	}
}

func TestSortSpecialization_RanksAndPreservesIds(t *testing.T) {
	s := newTestServer(t, &stubEmbedder{})

	rr := postJSON(t, s.SortSpecialization, mlSortRequest())
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}

	var resp sortResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.SortedStudentIDs) != 2 {
		t.Fatalf("expected 2 ids, got %v", resp.SortedStudentIDs)
	}
	// The ML student wins on semantic similarity and specialization match.
	if resp.SortedStudentIDs[0] != "42" || resp.SortedStudentIDs[1] != "s-7" {
		t.Errorf("unexpected order: %v", resp.SortedStudentIDs)
	}
}

func TestSortSpecialization_EmptyStudents(t *testing.T) {
	s := newTestServer(t, &stubEmbedder{})

	req := mlSortRequest()
	req.Students = nil
	rr := postJSON(t, s.SortSpecialization, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}

	var resp sortResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.SortedStudentIDs) != 0 {
		t.Errorf("expected no ids, got %v", resp.SortedStudentIDs)
	}
}

func TestSortSpecialization_GeneratesMissingIds(t *testing.T) {
	s := newTestServer(t, &stubEmbedder{})

	req := mlSortRequest()
	req.Students[0].ID = ""
	rr := postJSON(t, s.SortSpecialization, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}

	var resp sortResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.SortedStudentIDs) != 2 {
		t.Fatalf("expected 2 ids, got %v", resp.SortedStudentIDs)
	}
	for _, id := range resp.SortedStudentIDs {
		if id == "" {
			t.Error("empty id leaked into response")
		}
	}
}

func TestSortSpecialization_MissingTarget_400(t *testing.T) {
	s := newTestServer(t, &stubEmbedder{})

	req := mlSortRequest()
	req.TargetSpecialization = ""
	rr := postJSON(t, s.SortSpecialization, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeValidationFailed {
		t.Errorf("error code = %s, want %s", errResp.Code, codeValidationFailed)
	}
}

func TestSortSpecialization_InvalidBody_400(t *testing.T) {
	s := newTestServer(t, &stubEmbedder{})

	req := httptest.NewRequest("POST", "/", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	s.SortSpecialization(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestSortSpecialization_ProviderError_502(t *testing.T) {
	s := newTestServer(t, &stubEmbedder{err: domain.ErrEmbeddingProviderError})

	rr := postJSON(t, s.SortSpecialization, mlSortRequest())
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502, body: %s", rr.Code, rr.Body.String())
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeEmbeddingProvider {
		t.Errorf("error code = %s, want %s", errResp.Code, codeEmbeddingProvider)
	}
}

func TestSortSpecialization_WeightOverride(t *testing.T) {
	s := newTestServer(t, &stubEmbedder{})

	// Availability-only weights: the 25h frontend student outranks the ML one.
	req := mlSortRequest()
	req.Weights = map[string]float64{"semantic": 0, "specialization": 0, "skills": 0, "hours": 1.0}
	rr := postJSON(t, s.SortSpecialization, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}

	var resp sortResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SortedStudentIDs[0] != "s-7" {
		t.Errorf("expected availability winner first, got %v", resp.SortedStudentIDs)
	}
}

func TestAssignments_BuildsProjectMap(t *testing.T) {
	s := newTestServer(t, &stubEmbedder{})

	req := assignmentsRequest{
		Students: []studentDTO{
			{ID: "1", HardSkill: "Backend", Background: "Java и Spring", TimeInWeek: "20"},
			{ID: "2", HardSkill: "Frontend", Background: "React", TimeInWeek: "15"},
			{ID: "3", HardSkill: "Machine Learning", Background: "Python", TimeInWeek: "25"},
		},
		Themes: []themeDTO{
			{
				ID:              "theme-3",
				Name:            "Платформа курсов",
				Description:     "веб сервис",
				Specializations: []string{"Backend", "Frontend"},
			},
		},
		TopK: 1,
	}

	rr := postJSON(t, s.Assignments, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}

	var resp assignmentsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	project, ok := resp["Проект3"]
	if !ok {
		t.Fatalf("missing project key, got: %v", resp)
	}
	for _, spec := range []string{"Backend", "Frontend"} {
		ids, ok := project[spec]
		if !ok {
			t.Errorf("missing specialization %q", spec)
			continue
		}
		if len(ids) != 1 {
			t.Errorf("spec %q: expected 1 id with topK=1, got %v", spec, ids)
		}
	}
}

func TestAssignments_ThemeIDFallback(t *testing.T) {
	s := newTestServer(t, &stubEmbedder{})

	req := assignmentsRequest{
		Students: []studentDTO{
			{ID: "1", HardSkill: "Backend", Background: "Go", TimeInWeek: "20"},
		},
		Themes: []themeDTO{
			{ID: "no-digits-here", Name: "Тема", Specializations: []string{"Backend"}},
		},
	}

	rr := postJSON(t, s.Assignments, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}

	var resp assignmentsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := resp["Проект1"]; !ok {
		t.Errorf("expected positional fallback key, got: %v", resp)
	}
}

func TestAssignments_DefaultTopK(t *testing.T) {
	s := newTestServer(t, &stubEmbedder{})

	students := make([]studentDTO, 8)
	for i := range students {
		students[i] = studentDTO{
			ID:         string(rune('1' + i)),
			HardSkill:  "Backend",
			Background: "Go",
			TimeInWeek: "20",
		}
	}
	req := assignmentsRequest{
		Students: students,
		Themes: []themeDTO{
			{ID: "7", Name: "Тема", Specializations: []string{"Backend"}},
		},
	}

	rr := postJSON(t, s.Assignments, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}

	var resp assignmentsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	ids := resp["Проект7"]["Backend"]
	if len(ids) != DefaultTopK {
		t.Errorf("expected %d ids by default, got %d", DefaultTopK, len(ids))
	}
}

func TestHealthCheck_OK(t *testing.T) {
	s := newTestServer(t, &stubEmbedder{})

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	s.HealthCheck(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestHealthCheck_Unhealthy_503(t *testing.T) {
	rank := rankuc.New(&stubEmbedder{})
	health := healthuc.New(&stubPinger{}, &stubChecker{err: context.DeadlineExceeded})
	s := NewServer(rank, health, 0, zap.NewNop())

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	s.HealthCheck(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestRouter_RoutesWired(t *testing.T) {
	s := newTestServer(t, &stubEmbedder{})
	router := s.Router(nil)

	req := httptest.NewRequest("GET", "/", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("GET /: status = %d, want 200", rr.Code)
	}

	req = httptest.NewRequest("GET", "/metrics", http.NoBody)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("GET /metrics: status = %d, want 200", rr.Code)
	}
}
