package domain

import "strings"

// Theme is a project description candidates are ranked against.
type Theme struct {
	ID          string
	Title       string
	Description string
	Author      string
	// Specializations lists the required specializations as raw free text,
	// each independently normalizable.
	Specializations []string
	// Optional auxiliary text fields.
	Tasks string
	Goals string
}

// CombinedText concatenates the theme's defined text fields with single
// spaces, skipping absent fields. This is the text embedded for semantic
// similarity and the source for keyword extraction.
func (t Theme) CombinedText() string {
	parts := make([]string, 0, 4+len(t.Specializations))
	for _, p := range []string{t.Title, t.Description} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	for _, s := range t.Specializations {
		if s != "" {
			parts = append(parts, s)
		}
	}
	for _, p := range []string{t.Tasks, t.Goals} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
