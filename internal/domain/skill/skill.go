// Package skill detects competency tags in free-text experience descriptions.
//
// The vocabulary is process-wide immutable configuration; Extract is pure and
// safe for concurrent use.
package skill

import "strings"

// Tag is a canonical competency label.
type Tag string

// Canonical skill tags.
const (
	Python     Tag = "python"
	Java       Tag = "java"
	Kotlin     Tag = "kotlin"
	SQL        Tag = "sql"
	JavaScript Tag = "javascript"
	Docker     Tag = "docker"
	Kubernetes Tag = "kubernetes"
	ML         Tag = "ml"
	NLP        Tag = "nlp"
	CV         Tag = "cv"
	Data       Tag = "data"
	Web        Tag = "web"
	Mobile     Tag = "mobile"
	DevOps     Tag = "devops"
	QA         Tag = "qa"
)

// Set is an unordered, duplicate-free collection of tags.
type Set map[Tag]struct{}

// Has reports whether the tag is in the set.
func (s Set) Has(t Tag) bool {
	_, ok := s[t]
	return ok
}

// Tags returns the members in unspecified order.
func (s Set) Tags() []Tag {
	out := make([]Tag, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	return out
}

// vocabulary binds each tag to its trigger substrings (matched
// case-insensitively, bilingual). A tag fires when any trigger occurs anywhere
// in the text; repeated triggers do not duplicate the tag.
var vocabulary = []struct {
	tag      Tag
	triggers []string
}{
	{Python, []string{"python", "pytorch", "tensorflow", "keras", "pandas", "numpy", "scikit", "scikit-learn"}},
	{Java, []string{"java", "spring", "hibernate"}},
	{Kotlin, []string{"kotlin"}},
	{SQL, []string{"sql", "postgresql", "mysql", "database", "база данных"}},
	{JavaScript, []string{"javascript", "js", "react", "vue", "angular", "typescript", "node.js", "node"}},
	{Docker, []string{"docker", "container"}},
	{Kubernetes, []string{"kubernetes", "k8s"}},
	{ML, []string{"machine learning", "ml", "ai", "нейросети", "машинное обучение", "deep learning"}},
	{NLP, []string{"nlp", "natural language", "текст", "linguistics", "обработка естественного языка"}},
	{CV, []string{"computer vision", "cv", "image", "vision", "opencv", "компьютерное зрение"}},
	{Data, []string{"data science", "data analysis", "data engineering", "анализ данных", "big data"}},
	{Web, []string{"web", "frontend", "backend", "api", "веб", "website"}},
	{Mobile, []string{"mobile", "android", "ios", "мобильный", "react native", "flutter"}},
	{DevOps, []string{"devops", "ci/cd", "cloud", "aws", "azure", "gcp", "github actions"}},
	{QA, []string{"qa", "testing", "test", "quality", "тестирование", "selenium"}},
}

// Extract returns the set of tags whose triggers occur in the text. Empty
// input yields an empty set.
func Extract(raw string) Set {
	out := make(Set)
	if raw == "" {
		return out
	}
	lower := strings.ToLower(raw)
	for _, v := range vocabulary {
		for _, trigger := range v.triggers {
			if strings.Contains(lower, trigger) {
				out[v.tag] = struct{}{}
				break
			}
		}
	}
	return out
}
