package rank

import (
	"math"
	"strings"

	"github.com/campuslab/studentmatch/internal/domain"
	"github.com/campuslab/studentmatch/internal/domain/keyword"
	"github.com/campuslab/studentmatch/internal/domain/skill"
)

// compositeScore folds the four component scores into one value via a
// weighted linear sum, capped at 1.0. All components are non-negative by
// construction except semantic similarity, whose negative tail only lowers
// the sum, so no lower clamp is applied.
func compositeScore(semantic, specMatch, skillMatch, availability float64, w domain.Weights) float64 {
	s := semantic*w.Semantic +
		specMatch*w.Specialization +
		skillMatch*w.Skills +
		availability*w.Availability
	return math.Min(1.0, s)
}

// skillMatchScore returns the fraction of the candidate's skill tags that
// overlap the theme keywords. A tag counts as matched when it is a substring
// of any keyword or any keyword is a substring of it. No tags scores 0.
func skillMatchScore(tags skill.Set, keywords keyword.Set) float64 {
	if len(tags) == 0 {
		return 0.0
	}
	matched := 0
	for tag := range tags {
		for kw := range keywords {
			if strings.Contains(kw, string(tag)) || strings.Contains(string(tag), kw) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(tags))
}

// cosine returns the cosine similarity of two vectors. Mismatched lengths or
// zero-norm inputs score 0.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0.0
	}
	var dot, na, nb float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		na += av * av
		nb += bv * bv
	}
	if na == 0 || nb == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
