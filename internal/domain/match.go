package domain

// MatchResult holds the per-candidate component scores and the composite
// score for one ranking call. Semantic similarity is raw cosine similarity in
// [-1,1]; the other components and the composite are in [0,1].
type MatchResult struct {
	CandidateID         string
	SemanticSimilarity  float64
	SpecializationMatch float64
	SkillMatch          float64
	AvailabilityScore   float64
	Composite           float64
}

// Weights assigns the relative importance of each score component.
type Weights struct {
	Semantic       float64
	Specialization float64
	Skills         float64
	Availability   float64
}

// DefaultWeights returns the standard component weights (sum 1.0).
func DefaultWeights() Weights {
	return Weights{Semantic: 0.4, Specialization: 0.3, Skills: 0.2, Availability: 0.1}
}

// WeightsFromMap overlays recognized keys onto the defaults. Unrecognized
// keys are ignored; missing keys keep their default. "hours" is accepted as a
// legacy alias for the availability component.
func WeightsFromMap(m map[string]float64) Weights {
	w := DefaultWeights()
	for k, v := range m {
		switch k {
		case "semantic":
			w.Semantic = v
		case "specialization":
			w.Specialization = v
		case "skills":
			w.Skills = v
		case "availability", "hours":
			w.Availability = v
		}
	}
	return w
}
