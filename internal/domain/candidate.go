package domain

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/campuslab/studentmatch/internal/domain/skill"
	"github.com/campuslab/studentmatch/internal/domain/taxonomy"
)

// Candidate is one student under evaluation. All fields are raw free text as
// received at the boundary; identifiers are opaque strings and survive a
// ranking call unchanged.
type Candidate struct {
	ID             string
	Name           string
	Specialization string // raw specialization text ("hardSkill" on the wire)
	Experience     string // raw experience/background text
	Interests      string
	Availability   string // declared hours per week, free form
}

// CombinedText joins the raw specialization, experience and interests fields
// in that fixed order. This is the text sent to the embedding provider.
func (c Candidate) CombinedText() string {
	return c.Specialization + " " + c.Experience + " " + c.Interests
}

// Profile holds the features derived from a candidate for one ranking call.
type Profile struct {
	Category     taxonomy.Category
	Skills       skill.Set
	Availability float64
}

// ProfileOf computes a candidate's derived features. Derived fields are
// recomputed fresh per ranking call; nothing is mutated on the candidate.
func ProfileOf(c Candidate) Profile {
	return Profile{
		Category:     taxonomy.Normalize(c.Specialization),
		Skills:       skill.Extract(c.Experience),
		Availability: AvailabilityScore(c.Availability),
	}
}

var digitsRe = regexp.MustCompile(`\d+`)

// AvailabilityScore bands the declared weekly hours into a score. The first
// integer found in the input is used, so both "12" and "10-15 часов" parse;
// unparseable input resolves to the 0.5 default and is never an error.
func AvailabilityScore(raw string) float64 {
	digits := digitsRe.FindString(raw)
	if digits == "" {
		return 0.5
	}
	hours, err := strconv.Atoi(digits)
	if err != nil {
		return 0.5
	}
	switch {
	case hours <= 10:
		return 0.3
	case hours <= 15:
		return 0.6
	case hours <= 20:
		return 0.8
	default:
		return 1.0
	}
}

// FirstNumber extracts the first integer from a raw identifier. Used only at
// the transport boundary where a numeric id is expected downstream; the core
// keeps identifiers opaque.
func FirstNumber(raw string) (int, bool) {
	digits := digitsRe.FindString(strings.TrimSpace(raw))
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
